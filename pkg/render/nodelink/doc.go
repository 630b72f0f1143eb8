// Package nodelink describes a park's path network as a Graphviz graph.
//
// Each domain edge is a node, each path is a node linked from the edge it
// starts on to the edge it ends on, and every bench and lamp hangs off the
// path whose curve passes closest to it. Trees are not tied to a path and
// hang off a single ground node.
//
//	dot := nodelink.ToDOT(p, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [RenderSVG] uses the WebAssembly build of Graphviz bundled with
// go-graphviz, so no system installation is needed.
package nodelink
