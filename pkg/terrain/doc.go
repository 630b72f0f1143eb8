// Package terrain owns the park's ground height field.
//
// A [Field] creates the ground mesh through a [scene.Host] and immediately
// caches every vertex position. The cache is the pristine grid: it decides
// which vertices may be perturbed (none near a bench) and which vertex each
// placed object is anchored to. After [Field.Perturb] has deformed the live
// mesh, [Field.Resnap] reads the live height of each object's anchor vertex
// and rewrites only the object's vertical coordinate.
//
// Anchoring by index is only valid while the host keeps vertex count and
// ordering stable. Resnap verifies the count and refuses to run if it
// changed, unless the caller has installed an explicit mapping with
// [Field.Remap].
package terrain
