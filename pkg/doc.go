// Package pkg holds the parkgen libraries.
//
// A park is generated in stages, each in its own package:
//
//	[terrain]    capture the ground mesh, perturb it, resnap objects
//	[paths]      random edge-to-edge curves crossing the domain
//	[placement]  benches beside paths, lamps along them, scattered trees
//	[pipeline]   orchestration: stage order, caching, rendering
//
// The generator talks to a 3D scene only through the [scene.Host] interface;
// [scene/memory] is the in-process implementation used by the CLI, the HTTP
// server and tests. Everything a stage decides is recorded in a [park.Park],
// which renders to JSON, an SVG site plan ([render/plan]) or a Graphviz view
// of the path network ([render/nodelink]).
//
// Supporting packages: [cache] (file and Redis caches for parks and
// renderings), [storage] (saved park history on disk or in MongoDB),
// [config] (TOML, YAML and JSON option files), [errors] (coded errors),
// [observability] (pipeline, cache and HTTP hooks) and [buildinfo].
package pkg
