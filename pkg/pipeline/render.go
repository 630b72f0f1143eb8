package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/parkgen/pkg/park"
	"github.com/matzehuels/parkgen/pkg/render/nodelink"
	"github.com/matzehuels/parkgen/pkg/render/plan"
	"github.com/matzehuels/parkgen/pkg/scene/memory"
	"github.com/matzehuels/parkgen/pkg/terrain"
)

// Render produces one artifact per requested format. The SVG plan shades
// the ground, which is rebuilt from the park's recorded bumps.
func Render(ctx context.Context, p *park.Park, formats []string, labels bool) (map[string][]byte, error) {
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		data, err := renderFormat(ctx, p, format, labels)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, p *park.Park, format string, labels bool) ([]byte, error) {
	switch format {
	case FormatJSON:
		return park.Marshal(p)
	case FormatSVG:
		var opts []plan.Option
		if labels {
			opts = append(opts, plan.WithLabels())
		}
		if p.Terrain.SubdivX > 0 {
			ground, err := Ground(ctx, p)
			if err != nil {
				return nil, err
			}
			opts = append(opts, plan.WithGround(ground))
		}
		return plan.RenderSVG(p, opts...), nil
	case FormatDOT:
		return []byte(nodelink.ToDOT(p, nodelink.Options{Detailed: labels})), nil
	case FormatNetwork:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(p, nodelink.Options{Detailed: labels}))
	}
	return nil, ValidateFormat(format)
}

// Ground rebuilds the deformed ground of p in a scratch in-memory scene.
func Ground(ctx context.Context, p *park.Park) (plan.Ground, error) {
	host := memory.New()
	f, err := terrain.Replay(ctx, host, p)
	if err != nil {
		return plan.Ground{}, err
	}
	mesh, _ := host.Mesh(f.Mesh())
	return plan.Ground{SubdivX: f.SubdivX, SubdivY: f.SubdivY, Vertices: mesh.Vertices}, nil
}
