package terrain

import (
	"context"

	"github.com/matzehuels/parkgen/pkg/errors"
	"github.com/matzehuels/parkgen/pkg/park"
	"github.com/matzehuels/parkgen/pkg/scene"
)

// Replay rebuilds the deformed ground of a generated park on host by
// creating a fresh mesh and reapplying its recorded bumps in order.
func Replay(ctx context.Context, host scene.Host, p *park.Park) (*Field, error) {
	f, err := New(float64(p.Width), float64(p.Height), p.Terrain.SubdivX, p.Terrain.SubdivY)
	if err != nil {
		return nil, err
	}
	if err := f.Capture(ctx, host); err != nil {
		return nil, err
	}
	for _, b := range p.Terrain.Bumps {
		if b.Vertex < 0 || b.Vertex >= len(f.original) {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"bump vertex %d outside a %dx%d grid", b.Vertex, f.SubdivX, f.SubdivY)
		}
		if err := host.ApplyRadialDisplacement(ctx, f.mesh, b.Vertex, b.Magnitude, b.Radius); err != nil {
			return nil, errors.Collaborator(err, "replay bump at vertex %d", b.Vertex)
		}
	}
	return f, nil
}
