package placement

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/parkgen/pkg/errors"
	"github.com/matzehuels/parkgen/pkg/geom"
	"github.com/matzehuels/parkgen/pkg/park"
)

const (
	LampOffset     = 250.0 // sideways from the centerline
	LampHeight     = 250.0 // pivot above the ground
	LampLead       = 200.0 // along the tangent
	LampScale      = 50.0
	LampSeparation = 500.0
)

// Lamps places a lamp beside every density-th interior sample of each curve
// (1-based, so sample i qualifies when i%density == 0). The result has not
// been pruned; see [Prune].
func Lamps(curves []park.Curve, density int) ([]park.Object, error) {
	if err := errors.ValidateCount("lamp density", density); err != nil {
		return nil, err
	}

	var out []park.Object
	for c := range curves {
		curve := &curves[c]
		if err := requireInterior(curve); err != nil {
			return nil, err
		}
		first, last := curve.Interior()
		for i := first; i <= last; i++ {
			if i%density != 0 {
				continue
			}
			point := curve.Points[i]
			tangent, ok := point.Sub(curve.Points[i+1]).Unit()
			if !ok {
				return nil, errors.New(errors.ErrCodeDegenerateGeometry,
					"curve %s: zero-length tangent at sample %d", curve.Name, i)
			}

			perp := geom.V(-tangent.Z, 0, tangent.X).Scale(LampOffset)
			loc := point.
				Add(perp).
				Add(geom.V(0, LampHeight, 0)).
				Add(tangent.Scale(LampLead))

			out = append(out, park.Object{
				Kind:      park.KindLamp,
				Name:      fmt.Sprintf("lamp%d", i+c*len(curve.Points)),
				Loc:       loc,
				Scale:     LampScale,
				Clearance: LampHeight,
			})
		}
	}
	return out, nil
}

// CandidateCount is the number of lamps [Lamps] yields for a curve with the
// given sample count before pruning.
func CandidateCount(samples, density int) int {
	if density <= 0 || samples < 2 {
		return 0
	}
	return (samples - 2) / density
}

// Prune drops lamps until every remaining pair is at least minDist apart.
//
// It scans pairs of the active set in order; the first pair found too close
// loses one member, chosen by a coin flip, and the scan restarts. The loop
// ends because each pass either removes a lamp or finds no violation. The
// input slice is not modified.
func Prune(rng *rand.Rand, lamps []park.Object, minDist float64) []park.Object {
	active := slices.Clone(lamps)
	for {
		i, j, found := closePair(active, minDist)
		if !found {
			return active
		}
		victim := i
		if rng.IntN(2) == 1 {
			victim = j
		}
		active = slices.Delete(active, victim, victim+1)
	}
}

func closePair(objs []park.Object, minDist float64) (int, int, bool) {
	for i := range objs {
		for j := i + 1; j < len(objs); j++ {
			if objs[i].Loc.Dist(objs[j].Loc) < minDist {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}
