// Package park defines the scene model produced by the generator: curves,
// paths, placed objects and the [Park] aggregate that owns them.
//
// The types are plain data. Generation lives in the paths, placement and
// terrain packages; sequencing lives in pipeline. Every type carries json and
// bson tags so a park can be cached, served and stored without conversion.
package park

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/parkgen/pkg/errors"
	"github.com/matzehuels/parkgen/pkg/geom"
)

// Handle addresses an entity realized by the scene collaborator. It is opaque
// to the core and empty until the entity is realized.
type Handle string

// Edge identifies a side of the rectangular domain.
type Edge int

// Domain edges in the order they are sampled.
const (
	EdgeTop Edge = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

// Edges lists every domain edge.
var Edges = []Edge{EdgeTop, EdgeRight, EdgeBottom, EdgeLeft}

func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeRight:
		return "right"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	}
	return fmt.Sprintf("edge(%d)", int(e))
}

// Curve is a jittered polyline between two boundary samples.
type Curve struct {
	Name   string      `json:"name" bson:"name"`
	Start  geom.Vec3   `json:"start" bson:"start"`
	End    geom.Vec3   `json:"end" bson:"end"`
	Length float64     `json:"length" bson:"length"`
	Points []geom.Vec3 `json:"points" bson:"points"`
}

// Interior returns the sample indices excluding the first and last point.
func (c *Curve) Interior() (first, last int) { return 1, len(c.Points) - 2 }

// InteriorCount is the number of samples strictly between the endpoints.
func (c *Curve) InteriorCount() int { return max(0, len(c.Points)-2) }

// Path is the extruded walkway that follows exactly one Curve.
type Path struct {
	Name      string    `json:"name" bson:"name"`
	Loc       geom.Vec3 `json:"loc" bson:"loc"`
	Width     float64   `json:"width" bson:"width"`
	Thickness float64   `json:"thickness" bson:"thickness"`
	StartEdge Edge      `json:"start_edge" bson:"start_edge"`
	EndEdge   Edge      `json:"end_edge" bson:"end_edge"`
	Curve     Curve     `json:"curve" bson:"curve"`
	Handle    Handle    `json:"handle,omitempty" bson:"handle,omitempty"`
}

// Kind is the variant of a placed object.
type Kind string

// Placed object kinds. They double as the reference asset names the scene
// collaborator instantiates.
const (
	KindBench Kind = "bench"
	KindLamp  Kind = "lamp"
	KindTree  Kind = "tree"
)

// Object is a bench, lamp or tree. Loc is provisional until the terrain is
// perturbed, after which only its Y component is rewritten.
type Object struct {
	Kind Kind      `json:"kind" bson:"kind"`
	Name string    `json:"name" bson:"name"`
	Loc  geom.Vec3 `json:"loc" bson:"loc"`

	// Yaw is the rotation about the vertical axis in degrees, including the
	// mirror half-turn when Mirrored is set.
	Yaw      float64 `json:"yaw,omitempty" bson:"yaw,omitempty"`
	Mirrored bool    `json:"mirrored,omitempty" bson:"mirrored,omitempty"`

	Scale float64 `json:"scale" bson:"scale"`
	Seed  int64   `json:"seed,omitempty" bson:"seed,omitempty"`

	// Clearance is the height kept between the terrain and Loc.Y.
	Clearance float64 `json:"clearance,omitempty" bson:"clearance,omitempty"`

	Handle Handle `json:"handle,omitempty" bson:"handle,omitempty"`
}

// Park is the aggregate root. It owns every generated entity for its lifetime.
type Park struct {
	Name    string   `json:"name" bson:"name"`
	Width   int      `json:"width" bson:"width"`
	Height  int      `json:"height" bson:"height"`
	Seed    uint64   `json:"seed" bson:"seed"`
	Ground  Handle   `json:"ground,omitempty" bson:"ground,omitempty"`
	Paths   []Path   `json:"paths" bson:"paths"`
	Benches []Object `json:"benches" bson:"benches"`
	Lamps   []Object `json:"lamps" bson:"lamps"`
	Trees   []Object `json:"trees" bson:"trees"`
	Terrain Terrain  `json:"terrain" bson:"terrain"`
}

// Terrain records how the ground mesh was built and deformed, so a stored
// park can rebuild its height field without the original scene.
type Terrain struct {
	SubdivX int    `json:"subdiv_x" bson:"subdiv_x"`
	SubdivY int    `json:"subdiv_y" bson:"subdiv_y"`
	Bumps   []Bump `json:"bumps,omitempty" bson:"bumps,omitempty"`
}

// Bump is one radial vertical displacement of the ground, centered on a
// vertex of the undeformed grid.
type Bump struct {
	Vertex    int       `json:"vertex" bson:"vertex"`
	Center    geom.Vec3 `json:"center" bson:"center"`
	Magnitude float64   `json:"magnitude" bson:"magnitude"`
	Radius    float64   `json:"radius" bson:"radius"`
}

// Curves returns the curve of every path in path order.
func (p *Park) Curves() []Curve {
	curves := make([]Curve, len(p.Paths))
	for i := range p.Paths {
		curves[i] = p.Paths[i].Curve
	}
	return curves
}

// Objects returns pointers to every placed object: benches, lamps, then trees.
func (p *Park) Objects() []*Object {
	out := make([]*Object, 0, len(p.Benches)+len(p.Lamps)+len(p.Trees))
	for _, group := range [][]Object{p.Benches, p.Lamps, p.Trees} {
		for i := range group {
			out = append(out, &group[i])
		}
	}
	return out
}

// Bounds returns the centered domain rectangle as (minX, minZ, maxX, maxZ).
func (p *Park) Bounds() (minX, minZ, maxX, maxZ float64) {
	w, h := float64(p.Width)/2, float64(p.Height)/2
	return -w, -h, w, h
}

// Marshal encodes p as indented JSON.
func Marshal(p *Park) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Unmarshal decodes a park previously produced by [Marshal].
func Unmarshal(data []byte) (*Park, error) {
	var p Park
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode park")
	}
	return &p, nil
}

// Read decodes a park from r.
func Read(r io.Reader) (*Park, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// ReadFile decodes the park stored at path.
func ReadFile(path string) (*Park, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
