package terrain

import (
	"context"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/parkgen/pkg/errors"
	"github.com/matzehuels/parkgen/pkg/geom"
	"github.com/matzehuels/parkgen/pkg/park"
	"github.com/matzehuels/parkgen/pkg/scene"
	"github.com/matzehuels/parkgen/pkg/scene/memory"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func captured(t *testing.T, host scene.Host, w, h float64, sx, sy int) *Field {
	t.Helper()
	f, err := New(w, h, sx, sy)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := f.Capture(context.Background(), host); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	return f
}

func TestNewRejectsBadExtent(t *testing.T) {
	tests := []struct {
		name   string
		w, h   float64
		sx, sy int
	}{
		{"zero width", 0, 100, 4, 4},
		{"negative height", 100, -1, 4, 4},
		{"zero subdivisions", 100, 100, 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.w, tt.h, tt.sx, tt.sy)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("New() error = %v, want INVALID_CONFIGURATION", err)
			}
		})
	}
}

func TestCapture(t *testing.T) {
	host := memory.New()
	f := captured(t, host, 400, 200, 4, 2)

	orig := f.Original()
	if len(orig) != 15 || f.ExpectedVertices() != 15 {
		t.Fatalf("cached %d vertices, want 15", len(orig))
	}
	if orig[0] != geom.V(-200, 0, -100) {
		t.Errorf("first vertex = %v", orig[0])
	}

	orig[0] = geom.V(1, 2, 3)
	if f.Original()[0] == orig[0] {
		t.Error("Original() must return a copy")
	}

	if err := f.Capture(context.Background(), host); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("second Capture error = %v, want INTERNAL_ERROR", err)
	}
}

func TestNearestVertex(t *testing.T) {
	f := captured(t, memory.New(), 400, 400, 4, 4)

	tests := []struct {
		name string
		loc  geom.Vec3
		want int
	}{
		{"corner", geom.V(-200, 0, -200), 0},
		{"height ignored", geom.V(-200, 900, -200), 0},
		{"center", geom.V(0, 0, 0), 12},
		{"near center", geom.V(10, 0, -10), 12},
		{"tie goes low", geom.V(-150, 0, -200), 0},
		{"outside extent", geom.V(1000, 0, 1000), 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.NearestVertex(tt.loc); got != tt.want {
				t.Errorf("NearestVertex(%v) = %d, want %d", tt.loc, got, tt.want)
			}
		})
	}
}

func TestPerturbRespectsExclusions(t *testing.T) {
	ctx := context.Background()
	host := memory.New()
	f := captured(t, host, 4000, 4000, 40, 40)

	benches := []geom.Vec3{geom.V(0, 0, 0), geom.V(1500, 0, -1500)}
	opts := DefaultPerturbOptions
	opts.Samples = 60

	applied, err := f.Perturb(ctx, host, newRNG(7), opts, benches)
	if err != nil {
		t.Fatalf("Perturb: %v", err)
	}
	if len(applied) != opts.Samples {
		t.Fatalf("applied %d perturbations, want %d", len(applied), opts.Samples)
	}
	for _, p := range applied {
		for _, b := range benches {
			if d := p.Center.HorizontalDist(b); d < opts.ExclusionRadius {
				t.Errorf("center %v is %.1f from bench %v", p.Center, d, b)
			}
		}
		if p.Magnitude < opts.MagnitudeMin || p.Magnitude > opts.MagnitudeMax {
			t.Errorf("magnitude %g outside range", p.Magnitude)
		}
		if p.Radius < opts.FalloffMin || p.Radius > opts.FalloffMax {
			t.Errorf("radius %g outside range", p.Radius)
		}
	}

	lo, hi, _ := host.HeightRange(f.Mesh())
	if lo == 0 && hi == 0 {
		t.Error("ground was not displaced")
	}
}

func TestPerturbDeterministic(t *testing.T) {
	run := func() []park.Bump {
		host := memory.New()
		f := captured(t, host, 2000, 2000, 20, 20)
		ps, err := f.Perturb(context.Background(), host, newRNG(11), DefaultPerturbOptions, nil)
		if err != nil {
			t.Fatalf("Perturb: %v", err)
		}
		return ps
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("perturbation %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestPerturbNoEligibleVertex(t *testing.T) {
	host := memory.New()
	f := captured(t, host, 200, 200, 2, 2)

	_, err := f.Perturb(context.Background(), host, newRNG(1), DefaultPerturbOptions, []geom.Vec3{{}})
	if !errors.Is(err, errors.ErrCodeDegenerateGeometry) {
		t.Errorf("Perturb() error = %v, want DEGENERATE_GEOMETRY", err)
	}
}

func TestPerturbOptionsValidate(t *testing.T) {
	bad := DefaultPerturbOptions
	bad.FalloffMin, bad.FalloffMax = 900, 500
	if err := bad.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("inverted falloff: error = %v", err)
	}
	if err := DefaultPerturbOptions.Validate(); err != nil {
		t.Errorf("defaults: %v", err)
	}
}

func TestResnap(t *testing.T) {
	ctx := context.Background()
	host := memory.New()
	f := captured(t, host, 4000, 4000, 40, 40)

	if _, err := f.Perturb(ctx, host, newRNG(3), DefaultPerturbOptions, nil); err != nil {
		t.Fatalf("Perturb: %v", err)
	}

	tree := &park.Object{Kind: park.KindTree, Name: "tree1", Loc: geom.V(310, 0, -720)}
	lamp := &park.Object{Kind: park.KindLamp, Name: "lamp0", Loc: geom.V(-55, 250, 980), Clearance: 250}
	objs := []*park.Object{tree, lamp}

	if err := f.Resnap(ctx, host, objs); err != nil {
		t.Fatalf("Resnap: %v", err)
	}
	for _, o := range objs {
		anchor, _ := host.VertexPosition(ctx, f.Mesh(), f.NearestVertex(o.Loc))
		if want := anchor.Y + o.Clearance; math.Abs(o.Loc.Y-want) > 1e-9 {
			t.Errorf("%s Y = %g, want %g", o.Name, o.Loc.Y, want)
		}
	}
	if tree.Loc.X != 310 || tree.Loc.Z != -720 {
		t.Errorf("resnap moved tree horizontally to %v", tree.Loc)
	}

	first := lamp.Loc
	if err := f.Resnap(ctx, host, objs); err != nil {
		t.Fatalf("second Resnap: %v", err)
	}
	if lamp.Loc != first {
		t.Errorf("resnap is not idempotent: %v then %v", first, lamp.Loc)
	}
}

// growingHost appends a vertex to every mesh count query after the first,
// simulating a host that retopologizes behind the generator's back.
type growingHost struct {
	*memory.Host
	calls int
}

func (g *growingHost) VertexCount(ctx context.Context, mesh park.Handle) (int, error) {
	n, err := g.Host.VertexCount(ctx, mesh)
	g.calls++
	if g.calls > 1 {
		n++
	}
	return n, err
}

func TestResnapTopologyChanged(t *testing.T) {
	ctx := context.Background()
	host := &growingHost{Host: memory.New()}
	f := captured(t, host, 400, 400, 4, 4)

	objs := []*park.Object{{Name: "tree0", Loc: geom.V(0, 0, 0)}}
	if err := f.Resnap(ctx, host, objs); !errors.Is(err, errors.ErrCodeTopologyChanged) {
		t.Fatalf("Resnap() error = %v, want TOPOLOGY_CHANGED", err)
	}

	identity := make([]int, f.ExpectedVertices())
	for i := range identity {
		identity[i] = i
	}
	if err := f.Remap(identity); err != nil {
		t.Fatalf("Remap: %v", err)
	}
	if err := f.Resnap(ctx, host, objs); err != nil {
		t.Errorf("Resnap with remap: %v", err)
	}
}

func TestRemapLength(t *testing.T) {
	f := captured(t, memory.New(), 400, 400, 4, 4)
	if err := f.Remap([]int{0, 1}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Remap() error = %v, want INVALID_CONFIGURATION", err)
	}
}

func TestReplay(t *testing.T) {
	ctx := context.Background()
	host := memory.New()
	f := captured(t, host, 2000, 2000, 10, 10)
	bumps, err := f.Perturb(ctx, host, newRNG(5), DefaultPerturbOptions, nil)
	if err != nil {
		t.Fatalf("Perturb: %v", err)
	}
	want, _ := host.Mesh(f.Mesh())

	p := &park.Park{Width: 2000, Height: 2000, Terrain: park.Terrain{SubdivX: 10, SubdivY: 10, Bumps: bumps}}
	replayHost := memory.New()
	rf, err := Replay(ctx, replayHost, p)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	got, _ := replayHost.Mesh(rf.Mesh())
	for i := range want.Vertices {
		if got.Vertices[i] != want.Vertices[i] {
			t.Fatalf("vertex %d = %v, want %v", i, got.Vertices[i], want.Vertices[i])
		}
	}

	p.Terrain.Bumps = []park.Bump{{Vertex: 999}}
	if _, err := Replay(ctx, memory.New(), p); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Replay(bad vertex) error = %v, want INVALID_FORMAT", err)
	}
}
