package plan

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/matzehuels/parkgen/pkg/geom"
	"github.com/matzehuels/parkgen/pkg/park"
)

// Ground is a snapshot of the deformed ground mesh, row-major with
// (SubdivX+1)*(SubdivY+1) vertices.
type Ground struct {
	SubdivX  int
	SubdivY  int
	Vertices []geom.Vec3
}

// maxCells caps the heat-map resolution per axis.
const maxCells = 50

// Footprints in world units.
const (
	benchLength = 200
	benchDepth  = 60
	lampRadius  = 30
)

type Option func(*renderer)

// WithGround shades the domain by terrain height.
func WithGround(g Ground) Option { return func(r *renderer) { r.ground = &g } }

// WithLabels writes each entity's name next to it.
func WithLabels() Option { return func(r *renderer) { r.labels = true } }

type renderer struct {
	ground *Ground
	labels bool

	minX, minZ float64
}

// RenderSVG draws p. Every path, bench, lamp and tree gets an element whose
// id is its name.
func RenderSVG(p *park.Park, opts ...Option) []byte {
	r := &renderer{}
	for _, opt := range opts {
		opt(r)
	}
	var maxX, maxZ float64
	r.minX, r.minZ, maxX, maxZ = p.Bounds()
	w, h := maxX-r.minX, maxZ-r.minZ

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		w, h, w/4, h/4)
	fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(p.Name))
	fmt.Fprintf(&buf, `  <rect class="domain" x="0" y="0" width="%.0f" height="%.0f" fill="#dfe8c8"/>`+"\n", w, h)

	if r.ground != nil {
		r.renderGround(&buf, *r.ground)
	}
	buf.WriteString(`  <g class="paths" fill="none" stroke="#c8b48c" stroke-linecap="round" stroke-linejoin="round">` + "\n")
	for _, path := range p.Paths {
		r.renderPath(&buf, path)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="trees" fill="#4f7f3a" fill-opacity="0.7">` + "\n")
	for _, t := range p.Trees {
		r.renderTree(&buf, t)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="benches" fill="#7a4e2d">` + "\n")
	for _, b := range p.Benches {
		r.renderBench(&buf, b)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="lamps" fill="#f2c230" stroke="#5a5a5a" stroke-width="6">` + "\n")
	for _, l := range p.Lamps {
		r.renderLamp(&buf, l)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) xy(v geom.Vec3) (float64, float64) {
	return v.X - r.minX, v.Z - r.minZ
}

func (r *renderer) renderPath(buf *bytes.Buffer, p park.Path) {
	pts := make([]string, len(p.Curve.Points))
	for i, v := range p.Curve.Points {
		x, y := r.xy(v)
		pts[i] = fmt.Sprintf("%.1f,%.1f", x, y)
	}
	fmt.Fprintf(buf, `    <polyline id=%q stroke-width="%.1f" points="%s"/>`+"\n",
		p.Name, p.Width, strings.Join(pts, " "))
	if r.labels && len(p.Curve.Points) > 0 {
		r.label(buf, p.Name, p.Curve.Points[0])
	}
}

func (r *renderer) renderBench(buf *bytes.Buffer, b park.Object) {
	x, y := r.xy(b.Loc)
	// World yaw is counter-clockwise seen from above; SVG rotation is
	// clockwise with y pointing down, so the sign flips.
	fmt.Fprintf(buf, `    <rect id=%q x="%.1f" y="%.1f" width="%d" height="%d" transform="rotate(%.2f %.1f %.1f)"/>`+"\n",
		b.Name, x-benchLength/2, y-benchDepth/2, benchLength, benchDepth, -b.Yaw, x, y)
	if r.labels {
		r.label(buf, b.Name, b.Loc)
	}
}

func (r *renderer) renderLamp(buf *bytes.Buffer, l park.Object) {
	x, y := r.xy(l.Loc)
	fmt.Fprintf(buf, `    <circle id=%q cx="%.1f" cy="%.1f" r="%d"/>`+"\n", l.Name, x, y, lampRadius)
	if r.labels {
		r.label(buf, l.Name, l.Loc)
	}
}

func (r *renderer) renderTree(buf *bytes.Buffer, t park.Object) {
	x, y := r.xy(t.Loc)
	fmt.Fprintf(buf, `    <circle id=%q cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", t.Name, x, y, max(t.Scale/4, 1))
	if r.labels {
		r.label(buf, t.Name, t.Loc)
	}
}

func (r *renderer) label(buf *bytes.Buffer, text string, at geom.Vec3) {
	x, y := r.xy(at)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="60" font-family="sans-serif" fill="#333">%s</text>`+"\n",
		x+40, y-40, html.EscapeString(text))
}

// renderGround draws a coarse heat map: each cell is shaded by the mean
// height of the vertices it covers, light for low ground and dark for high.
func (r *renderer) renderGround(buf *bytes.Buffer, g Ground) {
	cols, rows := g.SubdivX+1, g.SubdivY+1
	if g.SubdivX < 1 || g.SubdivY < 1 || len(g.Vertices) != cols*rows {
		return
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range g.Vertices {
		lo, hi = min(lo, v.Y), max(hi, v.Y)
	}
	if hi-lo < 1e-9 {
		return
	}

	cx, cy := min(g.SubdivX, maxCells), min(g.SubdivY, maxCells)
	first, last := g.Vertices[0], g.Vertices[len(g.Vertices)-1]
	cw, ch := (last.X-first.X)/float64(cx), (last.Z-first.Z)/float64(cy)

	buf.WriteString(`  <g class="ground">` + "\n")
	for j := range cy {
		for i := range cx {
			mean := cellMean(g, i*g.SubdivX/cx, (i+1)*g.SubdivX/cx, j*g.SubdivY/cy, (j+1)*g.SubdivY/cy)
			t := (mean - lo) / (hi - lo)
			x, y := r.xy(geom.V(first.X+float64(i)*cw, 0, first.Z+float64(j)*ch))
			fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#3d5a1e" fill-opacity="%.3f"/>`+"\n",
				x, y, cw, ch, 0.05+0.45*t)
		}
	}
	buf.WriteString("  </g>\n")
}

func cellMean(g Ground, i0, i1, j0, j1 int) float64 {
	cols := g.SubdivX + 1
	var sum float64
	n := 0
	for j := j0; j <= j1; j++ {
		for i := i0; i <= i1; i++ {
			sum += g.Vertices[j*cols+i].Y
			n++
		}
	}
	return sum / float64(n)
}
