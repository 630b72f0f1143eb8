package terrain

import (
	"context"
	"math"
	"slices"

	"github.com/matzehuels/parkgen/pkg/errors"
	"github.com/matzehuels/parkgen/pkg/geom"
	"github.com/matzehuels/parkgen/pkg/park"
	"github.com/matzehuels/parkgen/pkg/scene"
)

// DefaultSubdivisions is the grid resolution used along each axis.
const DefaultSubdivisions = 200

// Field is the ground mesh plus its pre-deformation vertex cache.
type Field struct {
	Width   float64
	Height  float64
	SubdivX int
	SubdivY int

	mesh     park.Handle
	original []geom.Vec3
	remap    []int
}

// New describes a width×height ground plane with sx×sy quads. Nothing is
// created until [Field.Capture].
func New(width, height float64, sx, sy int) (*Field, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"terrain extent must be positive, got %gx%g", width, height)
	}
	if sx < 1 || sy < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"terrain needs at least one subdivision per axis, got %dx%d", sx, sy)
	}
	return &Field{Width: width, Height: height, SubdivX: sx, SubdivY: sy}, nil
}

// Capture creates the ground mesh and records every vertex position before
// any other edit. It may only be called once per Field.
func (f *Field) Capture(ctx context.Context, host scene.Host) error {
	if f.original != nil {
		return errors.New(errors.ErrCodeInternal, "terrain already captured")
	}
	mesh, err := host.CreateGroundMesh(ctx, f.Width, f.Height, f.SubdivX, f.SubdivY)
	if err != nil {
		return errors.Collaborator(err, "create ground mesh")
	}

	n, err := host.VertexCount(ctx, mesh)
	if err != nil {
		return errors.Collaborator(err, "count ground vertices")
	}
	if want := f.ExpectedVertices(); n != want {
		return errors.New(errors.ErrCodeCollaborator,
			"ground mesh has %d vertices, want %d", n, want)
	}

	cache := make([]geom.Vec3, n)
	for i := range cache {
		if cache[i], err = host.VertexPosition(ctx, mesh, i); err != nil {
			return errors.Collaborator(err, "read ground vertex %d", i)
		}
	}
	f.mesh = mesh
	f.original = cache
	return nil
}

// ExpectedVertices is (sx+1)*(sy+1).
func (f *Field) ExpectedVertices() int { return (f.SubdivX + 1) * (f.SubdivY + 1) }

// Mesh returns the ground mesh handle, empty before Capture.
func (f *Field) Mesh() park.Handle { return f.mesh }

// Captured reports whether the vertex cache has been recorded.
func (f *Field) Captured() bool { return f.original != nil }

// Original returns a copy of the cached pre-deformation vertex positions.
func (f *Field) Original() []geom.Vec3 { return slices.Clone(f.original) }

// NearestVertex returns the index of the cached vertex horizontally closest
// to loc. Ties go to the lower index. It returns -1 before Capture.
func (f *Field) NearestVertex(loc geom.Vec3) int {
	best, bestDist := -1, math.Inf(1)
	for i, v := range f.original {
		if d := v.HorizontalDist(loc); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Remap installs a translation from cached vertex index to live vertex
// index, for hosts that renumber the ground mesh between Capture and
// Resnap. table must have one entry per cached vertex.
func (f *Field) Remap(table []int) error {
	if !f.Captured() {
		return errors.New(errors.ErrCodeInternal, "remap before capture")
	}
	if len(table) != len(f.original) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"remap table has %d entries, want %d", len(table), len(f.original))
	}
	f.remap = slices.Clone(table)
	return nil
}

// Resnap moves every object's vertical coordinate onto the live height of
// its anchor vertex plus the object's clearance. Horizontal placement is
// untouched. Calling it twice without an intervening perturbation yields the
// same heights.
func (f *Field) Resnap(ctx context.Context, host scene.Host, objs []*park.Object) error {
	if !f.Captured() {
		return errors.New(errors.ErrCodeInternal, "resnap before capture")
	}
	n, err := host.VertexCount(ctx, f.mesh)
	if err != nil {
		return errors.Collaborator(err, "count ground vertices")
	}
	if f.remap == nil && n != len(f.original) {
		return errors.New(errors.ErrCodeTopologyChanged,
			"ground mesh has %d vertices but %d were cached; install a remap", n, len(f.original))
	}

	for _, o := range objs {
		anchor := f.NearestVertex(o.Loc)
		live := anchor
		if f.remap != nil {
			live = f.remap[anchor]
		}
		if live < 0 || live >= n {
			return errors.New(errors.ErrCodeTopologyChanged,
				"%s: anchor vertex %d maps to %d, outside [0, %d)", o.Name, anchor, live, n)
		}
		p, err := host.VertexPosition(ctx, f.mesh, live)
		if err != nil {
			return errors.Collaborator(err, "read anchor vertex %d for %s", live, o.Name)
		}
		o.Loc.Y = p.Y + o.Clearance
	}
	return nil
}
