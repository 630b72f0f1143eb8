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
	TreeSizeMin = 500
	TreeSizeMax = 900
)

// Trees scatters n trees uniformly over the centered domain. Each tree gets
// its own foliage seed and a size in [TreeSizeMin, TreeSizeMax].
func Trees(rng *rand.Rand, width, height, n int) ([]park.Object, error) {
	if err := errors.ValidateDimension("width", width); err != nil {
		return nil, err
	}
	if err := errors.ValidateDimension("height", height); err != nil {
		return nil, err
	}
	if err := errors.ValidateCount("trees", n); err != nil {
		return nil, err
	}

	hw, hh := width/2, height/2
	out := make([]park.Object, 0, n)
	for i := 1; i <= n; i++ {
		x := -hw + rng.IntN(2*hw+1)
		z := -hh + rng.IntN(2*hh+1)
		seed := rng.Int64N(math.MaxInt32 + 1)
		size := TreeSizeMin + rng.IntN(TreeSizeMax-TreeSizeMin+1)

		out = append(out, park.Object{
			Kind:  park.KindTree,
			Name:  fmt.Sprintf("tree%d", i),
			Loc:   geom.V(float64(x), 0, float64(z)),
			Scale: float64(size),
			Seed:  seed,
		})
	}
	return out, nil
}
