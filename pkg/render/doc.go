// Package render turns a generated park into documents a person can look at.
//
// Two renderers live in subpackages:
//
//   - [plan]: a top-down SVG site plan with the ground height field, paths,
//     benches, lamps and trees drawn to scale.
//   - [nodelink]: a Graphviz DOT description of the path network (which
//     domain edges each path connects and which furniture hangs off it),
//     plus DOT to SVG rendering through go-graphviz.
//
// The JSON form of a park is [park.Marshal]; it needs no renderer.
package render
