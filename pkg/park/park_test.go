package park

import (
	"bytes"
	"testing"

	"github.com/matzehuels/parkgen/pkg/geom"
)

func samplePark() *Park {
	return &Park{
		Name:   "test",
		Width:  100,
		Height: 60,
		Paths: []Path{{
			Name:  "path1",
			Curve: Curve{Name: "curve1", Points: make([]geom.Vec3, 10)},
		}},
		Benches: []Object{{Kind: KindBench, Name: "bench1"}},
		Lamps:   []Object{{Kind: KindLamp, Name: "lamp5"}, {Kind: KindLamp, Name: "lamp15"}},
		Trees:   []Object{{Kind: KindTree, Name: "tree1"}},
	}
}

func TestObjectsOrderAndAliasing(t *testing.T) {
	p := samplePark()
	objs := p.Objects()

	wantNames := []string{"bench1", "lamp5", "lamp15", "tree1"}
	if len(objs) != len(wantNames) {
		t.Fatalf("Objects() returned %d objects, want %d", len(objs), len(wantNames))
	}
	for i, name := range wantNames {
		if objs[i].Name != name {
			t.Errorf("Objects()[%d] = %s, want %s", i, objs[i].Name, name)
		}
	}

	objs[1].Loc.Y = 42
	if p.Lamps[0].Loc.Y != 42 {
		t.Error("Objects() should return pointers into the park")
	}
}

func TestInterior(t *testing.T) {
	c := Curve{Points: make([]geom.Vec3, 10)}
	first, last := c.Interior()
	if first != 1 || last != 8 {
		t.Errorf("Interior() = %d, %d, want 1, 8", first, last)
	}
	if c.InteriorCount() != 8 {
		t.Errorf("InteriorCount() = %d, want 8", c.InteriorCount())
	}
	if (&Curve{}).InteriorCount() != 0 {
		t.Error("empty curve should have no interior points")
	}
}

func TestBounds(t *testing.T) {
	minX, minZ, maxX, maxZ := samplePark().Bounds()
	if minX != -50 || maxX != 50 || minZ != -30 || maxZ != 30 {
		t.Errorf("Bounds() = %v %v %v %v", minX, minZ, maxX, maxZ)
	}
}

func TestMarshalRead(t *testing.T) {
	p := samplePark()
	data, err := Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Name != p.Name || len(got.Lamps) != 2 || got.Paths[0].Curve.Name != "curve1" {
		t.Errorf("decoded park differs: %+v", got)
	}
	if _, err := Unmarshal([]byte("{")); err == nil {
		t.Error("Unmarshal should fail on truncated input")
	}
}

func TestEdgeString(t *testing.T) {
	names := map[Edge]string{EdgeTop: "top", EdgeRight: "right", EdgeBottom: "bottom", EdgeLeft: "left"}
	for e, want := range names {
		if e.String() != want {
			t.Errorf("%d.String() = %s, want %s", int(e), e.String(), want)
		}
	}
	if Edge(9).String() != "edge(9)" {
		t.Errorf("unknown edge = %s", Edge(9).String())
	}
}
