// Package render turns polygonal data into images.
//
// A pipeline is assembled bottom up: a PolyDataMapper reads a scene.Producer,
// an Actor places the mapper in the world, a Renderer draws its actors as
// seen by its Camera and a Window composites one or more renderers and
// presents the result to a Surface. Rasterization is done on the CPU so
// pipelines render the same with or without a display.
package render
