package placement

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/matzehuels/parkgen/pkg/errors"
	"github.com/matzehuels/parkgen/pkg/geom"
	"github.com/matzehuels/parkgen/pkg/park"
)

const (
	// BenchOffset is the distance along the bench's local forward axis from
	// the path sample to the bench pivot.
	BenchOffset = -120.0

	// AngleEpsilon keeps the yaw formula finite for tangents with X == 0.
	AngleEpsilon = 0.01
)

// Benches places n benches on random interior samples of random curves.
func Benches(rng *rand.Rand, curves []park.Curve, n int) ([]park.Object, error) {
	if err := errors.ValidateCount("benches", n); err != nil {
		return nil, err
	}
	if len(curves) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "benches need at least one curve")
	}

	out := make([]park.Object, 0, n)
	for i := 1; i <= n; i++ {
		c := &curves[rng.IntN(len(curves))]
		if err := requireInterior(c); err != nil {
			return nil, err
		}
		idx := 1 + rng.IntN(c.InteriorCount())
		point := c.Points[idx]

		yaw := BenchYaw(point.Sub(c.Points[idx+1]))
		mirrored := rng.Float64() >= 0.5
		if mirrored {
			yaw += 180
		}

		offset := geom.V(0, 0, BenchOffset).RotateY(yaw)
		out = append(out, park.Object{
			Kind:     park.KindBench,
			Name:     fmt.Sprintf("bench%d", i),
			Loc:      point.Add(offset).WithY(0),
			Yaw:      yaw,
			Mirrored: mirrored,
			Scale:    1,
		})
	}
	return out, nil
}

// BenchYaw converts a path tangent into a bench rotation about the vertical
// axis, in degrees. Tangents pointing toward -X get a half-turn so benches
// keep facing the same side of the path as the tangent sign flips.
func BenchYaw(tangent geom.Vec3) float64 {
	var angle float64
	if den := tangent.X + AngleEpsilon; den != 0 {
		angle = -math.Atan(tangent.Z/den) * 180 / math.Pi
	} else if tangent.Z != 0 {
		angle = -math.Copysign(90, tangent.Z)
	}
	if tangent.X < 0 {
		if angle < 0 {
			angle -= 180
		} else {
			angle += 180
		}
	}
	return angle
}

func requireInterior(c *park.Curve) error {
	if n := c.InteriorCount(); n < 2 {
		return errors.New(errors.ErrCodeDegenerateGeometry,
			"curve %s has %d interior samples, need at least 2", c.Name, n)
	}
	return nil
}
