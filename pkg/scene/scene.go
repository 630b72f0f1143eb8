// Package scene defines the collaborator interface the generator drives to
// realize a park: meshes, reference assets, and the vertex and object queries
// used for terrain snapping.
//
// The core never implements meshing, rendering or asset I/O. A DCC bridge, a
// game engine adapter or the in-memory reference host in [memory] all satisfy
// [Host]. Handles returned by a Host are opaque and stored on the entities
// they address.
package scene

import (
	"context"

	"github.com/matzehuels/parkgen/pkg/geom"
	"github.com/matzehuels/parkgen/pkg/park"
)

// Host is the set of black-box scene operations the generator consumes.
//
// Vertex indices are only meaningful for meshes created by CreateGroundMesh.
// A host must keep vertex count and ordering stable across
// ApplyRadialDisplacement calls; the terrain snapping scheme depends on it.
type Host interface {
	// CreateGroundMesh creates a subdivided plane centered on the origin
	// with (sx+1)*(sy+1) vertices ordered row by row.
	CreateGroundMesh(ctx context.Context, width, height float64, sx, sy int) (park.Handle, error)

	// VertexCount returns the number of vertices of a mesh.
	VertexCount(ctx context.Context, mesh park.Handle) (int, error)

	// VertexPosition returns the current world-space position of a vertex.
	VertexPosition(ctx context.Context, mesh park.Handle, index int) (geom.Vec3, error)

	// ApplyRadialDisplacement moves the vertex at index vertically by
	// magnitude, attenuating the move on neighbors within radius.
	ApplyRadialDisplacement(ctx context.Context, mesh park.Handle, index int, magnitude, radius float64) error

	// InstantiateAsset duplicates the named reference asset.
	InstantiateAsset(ctx context.Context, kind park.Kind, name string) (park.Handle, error)

	// CreateExtrudedPath extrudes a walkway profile along the given points.
	CreateExtrudedPath(ctx context.Context, points []geom.Vec3, width, thickness float64, name string) (park.Handle, error)

	// MoveObject places an object at pos, or offsets it by pos when relative is set.
	MoveObject(ctx context.Context, h park.Handle, pos geom.Vec3, relative bool) error

	// RotateObject sets an object's Euler rotation in degrees about pivot.
	RotateObject(ctx context.Context, h park.Handle, euler, pivot geom.Vec3) error

	// ScaleObject sets an object's scale.
	ScaleObject(ctx context.Context, h park.Handle, scale geom.Vec3) error

	// ObjectPosition returns an object's world-space pivot position.
	ObjectPosition(ctx context.Context, h park.Handle) (geom.Vec3, error)
}

// Seeder is implemented by hosts whose reference assets accept a variation
// seed, such as procedural foliage.
type Seeder interface {
	SetSeed(ctx context.Context, h park.Handle, seed int64) error
}
