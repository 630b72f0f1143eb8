// Package memory is an in-memory [scene.Host] used by the CLI, the HTTP API
// and tests. It keeps real vertex data for meshes and transform state for
// instanced assets, which is enough to run the whole generation pipeline and
// render the result without a DCC application.
package memory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/parkgen/pkg/geom"
	"github.com/matzehuels/parkgen/pkg/park"
	"github.com/matzehuels/parkgen/pkg/scene"
)

// ErrUnknownHandle is returned for handles this host never issued.
var ErrUnknownHandle = errors.New("unknown handle")

// Mesh is a vertex buffer owned by the host.
type Mesh struct {
	Handle   park.Handle
	Name     string
	Vertices []geom.Vec3
}

// Object is an instanced reference asset.
type Object struct {
	Handle   park.Handle
	Kind     park.Kind
	Name     string
	Position geom.Vec3
	Rotation geom.Vec3
	Scale    geom.Vec3
	Seed     int64
}

// Option configures a [Host].
type Option func(*Host)

// WithAssets restricts the loaded reference assets to kinds. Instantiating
// any other kind fails the way a missing asset file would.
func WithAssets(kinds ...park.Kind) Option {
	return func(h *Host) {
		h.assets = make(map[park.Kind]bool, len(kinds))
		for _, k := range kinds {
			h.assets[k] = true
		}
	}
}

// WithIDs replaces the uuid handle generator, mainly for golden tests.
func WithIDs(next func() string) Option { return func(h *Host) { h.newID = next } }

// Host is safe for concurrent use.
type Host struct {
	mu      sync.Mutex
	meshes  map[park.Handle]*Mesh
	objects map[park.Handle]*Object
	assets  map[park.Kind]bool
	newID   func() string
}

// New creates a host with the bench, lamp and tree reference assets loaded.
func New(opts ...Option) *Host {
	h := &Host{
		meshes:  make(map[park.Handle]*Mesh),
		objects: make(map[park.Handle]*Object),
		newID:   uuid.NewString,
	}
	WithAssets(park.KindBench, park.KindLamp, park.KindTree)(h)
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Host) handle() park.Handle { return park.Handle(h.newID()) }

func (h *Host) CreateGroundMesh(ctx context.Context, width, height float64, sx, sy int) (park.Handle, error) {
	if sx < 1 || sy < 1 {
		return "", fmt.Errorf("ground mesh needs at least one subdivision, got %dx%d", sx, sy)
	}
	verts := make([]geom.Vec3, 0, (sx+1)*(sy+1))
	for j := 0; j <= sy; j++ {
		z := -height/2 + height*float64(j)/float64(sy)
		for i := 0; i <= sx; i++ {
			x := -width/2 + width*float64(i)/float64(sx)
			verts = append(verts, geom.V(x, 0, z))
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	m := &Mesh{Handle: h.handle(), Name: "ground", Vertices: verts}
	h.meshes[m.Handle] = m
	return m.Handle, nil
}

func (h *Host) VertexCount(ctx context.Context, mesh park.Handle) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, err := h.mesh(mesh)
	if err != nil {
		return 0, err
	}
	return len(m.Vertices), nil
}

func (h *Host) VertexPosition(ctx context.Context, mesh park.Handle, index int) (geom.Vec3, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, err := h.mesh(mesh)
	if err != nil {
		return geom.Vec3{}, err
	}
	if index < 0 || index >= len(m.Vertices) {
		return geom.Vec3{}, fmt.Errorf("vertex %d out of range [0, %d)", index, len(m.Vertices))
	}
	return m.Vertices[index], nil
}

// ApplyRadialDisplacement raises the vertex at index by magnitude and every
// vertex within radius (measured on the ground plane) by magnitude scaled by
// [Falloff].
func (h *Host) ApplyRadialDisplacement(ctx context.Context, mesh park.Handle, index int, magnitude, radius float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, err := h.mesh(mesh)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(m.Vertices) {
		return fmt.Errorf("vertex %d out of range [0, %d)", index, len(m.Vertices))
	}
	center := m.Vertices[index]
	for i, v := range m.Vertices {
		if i == index {
			continue
		}
		if d := center.HorizontalDist(v); d < radius {
			m.Vertices[i].Y += magnitude * Falloff(d/radius)
		}
	}
	m.Vertices[index].Y += magnitude
	return nil
}

// Falloff is the soft-selection weight at normalized distance u: 1 at the
// center, easing smoothly to 0 at u >= 1.
func Falloff(u float64) float64 {
	if u <= 0 {
		return 1
	}
	if u >= 1 {
		return 0
	}
	return 1 - u*u*(3-2*u)
}

func (h *Host) InstantiateAsset(ctx context.Context, kind park.Kind, name string) (park.Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.assets[kind] {
		return "", fmt.Errorf("reference asset %q is not loaded", kind)
	}
	o := &Object{Handle: h.handle(), Kind: kind, Name: name, Scale: geom.Splat(1)}
	h.objects[o.Handle] = o
	return o.Handle, nil
}

// CreateExtrudedPath builds a flat ribbon: two vertices per curve point,
// offset half the width to each side and raised to the walkway thickness.
func (h *Host) CreateExtrudedPath(ctx context.Context, points []geom.Vec3, width, thickness float64, name string) (park.Handle, error) {
	if len(points) < 2 {
		return "", fmt.Errorf("path %s needs at least two points, got %d", name, len(points))
	}
	verts := make([]geom.Vec3, 0, 2*len(points))
	for i, p := range points {
		prev, next := points[max(i-1, 0)], points[min(i+1, len(points)-1)]
		dir, ok := next.Sub(prev).Horizontal().Unit()
		if !ok {
			dir = geom.V(0, 0, 1)
		}
		side := geom.V(-dir.Z, 0, dir.X).Scale(width / 2)
		top := geom.V(0, thickness, 0)
		verts = append(verts, p.Add(side).Add(top), p.Sub(side).Add(top))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	m := &Mesh{Handle: h.handle(), Name: name, Vertices: verts}
	h.meshes[m.Handle] = m
	return m.Handle, nil
}

func (h *Host) MoveObject(ctx context.Context, handle park.Handle, pos geom.Vec3, relative bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	o, err := h.object(handle)
	if err != nil {
		return err
	}
	if relative {
		o.Position = o.Position.Add(pos)
	} else {
		o.Position = pos
	}
	return nil
}

// RotateObject sets an absolute rotation. Only the yaw change swings the
// object's position around pivot.
func (h *Host) RotateObject(ctx context.Context, handle park.Handle, euler, pivot geom.Vec3) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	o, err := h.object(handle)
	if err != nil {
		return err
	}
	delta := euler.Y - o.Rotation.Y
	o.Position = pivot.Add(o.Position.Sub(pivot).RotateY(delta))
	o.Rotation = euler
	return nil
}

func (h *Host) ScaleObject(ctx context.Context, handle park.Handle, scale geom.Vec3) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	o, err := h.object(handle)
	if err != nil {
		return err
	}
	o.Scale = scale
	return nil
}

func (h *Host) ObjectPosition(ctx context.Context, handle park.Handle) (geom.Vec3, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	o, err := h.object(handle)
	if err != nil {
		return geom.Vec3{}, err
	}
	return o.Position, nil
}

func (h *Host) SetSeed(ctx context.Context, handle park.Handle, seed int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	o, err := h.object(handle)
	if err != nil {
		return err
	}
	o.Seed = seed
	return nil
}

// Mesh returns a copy of the mesh addressed by handle.
func (h *Host) Mesh(handle park.Handle) (Mesh, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.meshes[handle]
	if !ok {
		return Mesh{}, false
	}
	return Mesh{Handle: m.Handle, Name: m.Name, Vertices: slices.Clone(m.Vertices)}, true
}

// Objects returns a copy of every instanced object sorted by name.
func (h *Host) Objects() []Object {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Object, 0, len(h.objects))
	for _, o := range h.objects {
		out = append(out, *o)
	}
	slices.SortFunc(out, func(a, b Object) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Handle, b.Handle))
	})
	return out
}

// HeightRange returns the lowest and highest vertex of a mesh.
func (h *Host) HeightRange(handle park.Handle) (lo, hi float64, ok bool) {
	m, ok := h.Mesh(handle)
	if !ok || len(m.Vertices) == 0 {
		return 0, 0, false
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range m.Vertices {
		lo, hi = min(lo, v.Y), max(hi, v.Y)
	}
	return lo, hi, true
}

func (h *Host) mesh(handle park.Handle) (*Mesh, error) {
	m, ok := h.meshes[handle]
	if !ok {
		return nil, fmt.Errorf("mesh %q: %w", handle, ErrUnknownHandle)
	}
	return m, nil
}

func (h *Host) object(handle park.Handle) (*Object, error) {
	o, ok := h.objects[handle]
	if !ok {
		return nil, fmt.Errorf("object %q: %w", handle, ErrUnknownHandle)
	}
	return o, nil
}

var (
	_ scene.Host   = (*Host)(nil)
	_ scene.Seeder = (*Host)(nil)
)
