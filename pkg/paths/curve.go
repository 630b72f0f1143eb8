package paths

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/parkgen/pkg/errors"
	"github.com/matzehuels/parkgen/pkg/geom"
	"github.com/matzehuels/parkgen/pkg/park"
)

const (
	// DefaultSamples is the number of points on every generated curve.
	DefaultSamples = 10

	// JitterSpan bounds the integer horizontal jitter drawn per point.
	JitterSpan = 100

	// JitterReference is the curve length at which jitter is ±JitterSpan.
	JitterReference = 4000.0
)

// NewCurve samples n points evenly between start and end and jitters each one
// horizontally by up to ±JitterSpan·length/JitterReference on X and Z. The
// endpoints are jittered too, so Points[0] is only near start.
func NewCurve(rng *rand.Rand, start, end geom.Vec3, n int, name string) (park.Curve, error) {
	if n < 2 {
		return park.Curve{}, errors.New(errors.ErrCodeInvalidConfig,
			"curve %s needs at least 2 samples, got %d", name, n)
	}

	length := start.Dist(end)
	reg := length / JitterReference
	span := end.Sub(start)

	points := make([]geom.Vec3, n)
	for i := range n {
		t := float64(i) / float64(n-1)
		noise := geom.V(jitter(rng)*reg, 0, jitter(rng)*reg)
		points[i] = start.Add(span.Mul(geom.Splat(t))).Add(noise)
	}

	return park.Curve{
		Name:   name,
		Start:  start,
		End:    end,
		Length: length,
		Points: points,
	}, nil
}

// MaxJitter is the largest horizontal distance NewCurve may move a point of a
// curve with the given length away from its unjittered position.
func MaxJitter(length float64) float64 {
	r := JitterSpan * length / JitterReference
	return r * math.Sqrt2
}

func jitter(rng *rand.Rand) float64 {
	return float64(rng.IntN(2*JitterSpan+1) - JitterSpan)
}
