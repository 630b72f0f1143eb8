package terrain

import (
	"context"
	"math/rand/v2"

	"github.com/matzehuels/parkgen/pkg/errors"
	"github.com/matzehuels/parkgen/pkg/geom"
	"github.com/matzehuels/parkgen/pkg/park"
	"github.com/matzehuels/parkgen/pkg/scene"
)

// PerturbOptions controls [Field.Perturb].
type PerturbOptions struct {
	Samples         int     `json:"samples" toml:"samples" yaml:"samples"`
	MagnitudeMin    float64 `json:"magnitude_min" toml:"magnitude_min" yaml:"magnitude_min"`
	MagnitudeMax    float64 `json:"magnitude_max" toml:"magnitude_max" yaml:"magnitude_max"`
	FalloffMin      float64 `json:"falloff_min" toml:"falloff_min" yaml:"falloff_min"`
	FalloffMax      float64 `json:"falloff_max" toml:"falloff_max" yaml:"falloff_max"`
	ExclusionRadius float64 `json:"exclusion_radius" toml:"exclusion_radius" yaml:"exclusion_radius"`
}

// DefaultPerturbOptions are the values the park generator uses.
var DefaultPerturbOptions = PerturbOptions{
	Samples:         100,
	MagnitudeMin:    -50,
	MagnitudeMax:    50,
	FalloffMin:      500,
	FalloffMax:      900,
	ExclusionRadius: 500,
}

// Validate checks that the ranges are ordered and the counts usable.
func (o PerturbOptions) Validate() error {
	if o.Samples < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "perturbation samples must not be negative, got %d", o.Samples)
	}
	if err := errors.ValidateRange("perturbation magnitude", o.MagnitudeMin, o.MagnitudeMax); err != nil {
		return err
	}
	if err := errors.ValidateRange("falloff radius", o.FalloffMin, o.FalloffMax); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("falloff radius", o.FalloffMin); err != nil {
		return err
	}
	return errors.ValidateNonNegative("exclusion radius", o.ExclusionRadius)
}

// Perturb applies opts.Samples radial vertical displacements to the live
// ground mesh. Centers are drawn uniformly from the vertex cache and redrawn
// while they fall within opts.ExclusionRadius of any exclusion location, so
// the ground under benches stays flat. Each accepted center gets its own
// magnitude and falloff radius.
func (f *Field) Perturb(ctx context.Context, host scene.Host, rng *rand.Rand, opts PerturbOptions, exclusions []geom.Vec3) ([]park.Bump, error) {
	if !f.Captured() {
		return nil, errors.New(errors.ErrCodeInternal, "perturb before capture")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Samples == 0 {
		return nil, nil
	}
	if !f.anyEligible(exclusions, opts.ExclusionRadius) {
		return nil, errors.New(errors.ErrCodeDegenerateGeometry,
			"every ground vertex lies within %g of an excluded location", opts.ExclusionRadius)
	}

	applied := make([]park.Bump, 0, opts.Samples)
	for len(applied) < opts.Samples {
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		v := rng.IntN(len(f.original))
		if !f.Eligible(v, exclusions, opts.ExclusionRadius) {
			continue
		}
		p := park.Bump{
			Vertex:    v,
			Center:    f.original[v],
			Magnitude: uniform(rng, opts.MagnitudeMin, opts.MagnitudeMax),
			Radius:    uniform(rng, opts.FalloffMin, opts.FalloffMax),
		}
		if err := host.ApplyRadialDisplacement(ctx, f.mesh, v, p.Magnitude, p.Radius); err != nil {
			return applied, errors.Collaborator(err, "displace ground vertex %d", v)
		}
		applied = append(applied, p)
	}
	return applied, nil
}

// Eligible reports whether cached vertex v is at least radius away from
// every exclusion location.
func (f *Field) Eligible(v int, exclusions []geom.Vec3, radius float64) bool {
	pos := f.original[v]
	for _, e := range exclusions {
		if pos.HorizontalDist(e) < radius {
			return false
		}
	}
	return true
}

func (f *Field) anyEligible(exclusions []geom.Vec3, radius float64) bool {
	for v := range f.original {
		if f.Eligible(v, exclusions, radius) {
			return true
		}
	}
	return false
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
