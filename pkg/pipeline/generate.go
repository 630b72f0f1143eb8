package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/parkgen/pkg/errors"
	"github.com/matzehuels/parkgen/pkg/geom"
	"github.com/matzehuels/parkgen/pkg/observability"
	"github.com/matzehuels/parkgen/pkg/park"
	"github.com/matzehuels/parkgen/pkg/paths"
	"github.com/matzehuels/parkgen/pkg/placement"
	"github.com/matzehuels/parkgen/pkg/scene"
	"github.com/matzehuels/parkgen/pkg/terrain"
)

// Generate builds a park in host. Options are validated before the first
// host call. On error the host may hold a partial scene; the caller owns
// its cleanup.
func Generate(ctx context.Context, host scene.Host, opts Options) (*park.Park, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	g := &generator{
		host:   host,
		opts:   opts,
		logger: opts.Logger,
		p: &park.Park{
			Name:   opts.Name,
			Width:  opts.Width,
			Height: opts.Height,
			Seed:   opts.Seed,
		},
	}
	g.rng = NewRNG(opts.Seed)

	stages := []struct {
		name string
		run  func(context.Context) error
	}{
		{observability.StageTerrain, g.captureTerrain},
		{observability.StagePaths, g.buildPaths},
		{observability.StagePlacement, g.place},
		{observability.StageRealize, g.realize},
		{observability.StagePerturb, g.perturb},
		{observability.StageResnap, g.resnap},
	}
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := observability.Track(ctx, s.name, func() error { return s.run(ctx) }); err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return g.p, nil
}

// GeneratePark is the classic entry point: a default park with the given
// extent and counts.
func GeneratePark(ctx context.Context, host scene.Host, width, height, numPaths, numBenches, numTrees, lampDensity int) (*park.Park, error) {
	opts := DefaultOptions()
	opts.Width, opts.Height = width, height
	opts.Paths, opts.Benches, opts.Trees = numPaths, numBenches, numTrees
	opts.LampDensity = lampDensity
	return Generate(ctx, host, opts)
}

type generator struct {
	host   scene.Host
	opts   Options
	logger *log.Logger
	rng    *rand.Rand
	field  *terrain.Field
	p      *park.Park
}

func (g *generator) captureTerrain(ctx context.Context) error {
	sub := g.opts.Subdivisions
	f, err := terrain.New(float64(g.opts.Width), float64(g.opts.Height), sub, sub)
	if err != nil {
		return err
	}
	if err := f.Capture(ctx, g.host); err != nil {
		return err
	}
	g.field = f
	g.p.Ground = f.Mesh()
	g.p.Terrain = park.Terrain{SubdivX: sub, SubdivY: sub}
	g.logger.Debug("captured ground", "vertices", f.ExpectedVertices())
	return nil
}

func (g *generator) buildPaths(ctx context.Context) error {
	ps, err := paths.Generate(g.rng, g.opts.Width, g.opts.Height, g.opts.Paths)
	if err != nil {
		return err
	}
	g.p.Paths = ps
	for _, path := range ps {
		g.logger.Debug("path", "name", path.Name, "from", path.StartEdge, "to", path.EndEdge,
			"length", fmt.Sprintf("%.0f", path.Curve.Length))
	}
	return nil
}

func (g *generator) place(ctx context.Context) error {
	curves := g.p.Curves()

	benches, err := placement.Benches(g.rng, curves, g.opts.Benches)
	if err != nil {
		return err
	}
	trees, err := placement.Trees(g.rng, g.opts.Width, g.opts.Height, g.opts.Trees)
	if err != nil {
		return err
	}
	candidates, err := placement.Lamps(curves, g.opts.LampDensity)
	if err != nil {
		return err
	}
	lamps := placement.Prune(g.rng, candidates, g.opts.LampSeparation)

	g.p.Benches, g.p.Trees, g.p.Lamps = benches, trees, lamps
	g.logger.Debug("placed objects",
		"benches", len(benches),
		"trees", len(trees),
		"lamps", len(lamps),
		"pruned", len(candidates)-len(lamps))
	return nil
}

func (g *generator) realize(ctx context.Context) error {
	for i := range g.p.Paths {
		path := &g.p.Paths[i]
		h, err := g.host.CreateExtrudedPath(ctx, path.Curve.Points, path.Width, path.Thickness, path.Name)
		if err != nil {
			return errors.Collaborator(err, "extrude %s", path.Name)
		}
		path.Handle = h
	}
	for _, o := range g.p.Objects() {
		if err := g.instantiate(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) instantiate(ctx context.Context, o *park.Object) error {
	h, err := g.host.InstantiateAsset(ctx, o.Kind, o.Name)
	if err != nil {
		return errors.Collaborator(err, "instantiate %s", o.Name)
	}
	o.Handle = h

	if err := g.host.MoveObject(ctx, h, o.Loc, false); err != nil {
		return errors.Collaborator(err, "move %s", o.Name)
	}
	if o.Yaw != 0 {
		if err := g.host.RotateObject(ctx, h, geom.V(0, o.Yaw, 0), o.Loc); err != nil {
			return errors.Collaborator(err, "rotate %s", o.Name)
		}
	}
	if o.Scale != 0 && o.Scale != 1 {
		if err := g.host.ScaleObject(ctx, h, geom.Splat(o.Scale)); err != nil {
			return errors.Collaborator(err, "scale %s", o.Name)
		}
	}
	if seeder, ok := g.host.(scene.Seeder); ok && o.Kind == park.KindTree {
		if err := seeder.SetSeed(ctx, h, o.Seed); err != nil {
			return errors.Collaborator(err, "seed %s", o.Name)
		}
	}
	return nil
}

func (g *generator) perturb(ctx context.Context) error {
	exclusions := make([]geom.Vec3, len(g.p.Benches))
	for i, b := range g.p.Benches {
		exclusions[i] = b.Loc
	}
	bumps, err := g.field.Perturb(ctx, g.host, g.rng, g.opts.Terrain, exclusions)
	if err != nil {
		return err
	}
	g.p.Terrain.Bumps = bumps
	g.logger.Debug("perturbed ground", "bumps", len(bumps))
	return nil
}

func (g *generator) resnap(ctx context.Context) error {
	objs := g.p.Objects()
	if err := g.field.Resnap(ctx, g.host, objs); err != nil {
		return err
	}
	for _, o := range objs {
		if err := g.host.MoveObject(ctx, o.Handle, o.Loc, false); err != nil {
			return errors.Collaborator(err, "snap %s", o.Name)
		}
	}
	return nil
}
