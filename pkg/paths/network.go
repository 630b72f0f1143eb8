package paths

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/parkgen/pkg/errors"
	"github.com/matzehuels/parkgen/pkg/geom"
	"github.com/matzehuels/parkgen/pkg/park"
)

const (
	// Thickness is the extrusion height of every walkway.
	Thickness = 50.0

	// widthDivisor sets the walkway width as a fraction of the domain width.
	widthDivisor = 20.0
)

// Generate plans count paths across a width×height domain. Each path starts
// on a random edge and ends on one of the other three, with the domain
// centered on the origin. Realizing the meshes is left to the caller.
func Generate(rng *rand.Rand, width, height, count int) ([]park.Path, error) {
	if err := errors.ValidateDimension("width", width); err != nil {
		return nil, err
	}
	if err := errors.ValidateDimension("height", height); err != nil {
		return nil, err
	}
	if err := errors.ValidateCount("paths", count); err != nil {
		return nil, err
	}

	offset := geom.V(-float64(width)/2, 0, -float64(height)/2)
	out := make([]park.Path, 0, count)

	for i := 1; i <= count; i++ {
		sides := slices.Clone(park.Edges)

		k := rng.IntN(len(sides))
		startEdge := sides[k]
		start := SampleEdge(rng, startEdge, width, height).Add(offset)
		sides = slices.Delete(sides, k, k+1)

		endEdge := sides[rng.IntN(len(sides))]
		end := SampleEdge(rng, endEdge, width, height).Add(offset)

		curve, err := NewCurve(rng, start, end, DefaultSamples, fmt.Sprintf("curve%d", i))
		if err != nil {
			return nil, err
		}
		out = append(out, park.Path{
			Name:      fmt.Sprintf("path%d", i),
			Loc:       start,
			Width:     float64(width) / widthDivisor,
			Thickness: Thickness,
			StartEdge: startEdge,
			EndEdge:   endEdge,
			Curve:     curve,
		})
	}
	return out, nil
}

// SampleEdge returns a uniformly random integer point on edge, in domain
// coordinates (origin at the top-left corner, before centering).
func SampleEdge(rng *rand.Rand, edge park.Edge, width, height int) geom.Vec3 {
	switch edge {
	case park.EdgeTop:
		return geom.V(float64(rng.IntN(width)), 0, 0)
	case park.EdgeRight:
		return geom.V(float64(width-1), 0, float64(rng.IntN(height)))
	case park.EdgeBottom:
		return geom.V(float64(rng.IntN(width)), 0, float64(height-1))
	default:
		return geom.V(0, 0, float64(rng.IntN(height)))
	}
}
