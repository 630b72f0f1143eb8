package nodelink

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/parkgen/pkg/geom"
	"github.com/matzehuels/parkgen/pkg/park"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds positions, yaw and scale to node labels.
	Detailed bool
}

// groundNode is the parent of every tree.
const groundNode = "ground"

// ToDOT converts p to Graphviz DOT source.
func ToDOT(p *park.Park, opts Options) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", cmp.Or(p.Name, "park"))
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for _, e := range park.Edges {
		fmt.Fprintf(&buf, "  %q [shape=doubleoctagon, fillcolor=\"#dfe8c8\"];\n", "edge:"+e.String())
	}
	for _, path := range p.Paths {
		label := path.Name
		if opts.Detailed {
			label += fmt.Sprintf("\nwidth: %.0f\nlength: %.0f", path.Width, path.Curve.Length)
		}
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=\"#c8b48c\"];\n", path.Name, label)
		fmt.Fprintf(&buf, "  %q -> %q;\n", "edge:"+path.StartEdge.String(), path.Name)
		fmt.Fprintf(&buf, "  %q -> %q;\n", path.Name, "edge:"+path.EndEdge.String())
	}

	buf.WriteString("\n")
	curves := p.Curves()
	for _, group := range [][]park.Object{p.Benches, p.Lamps} {
		for _, o := range group {
			writeObject(&buf, o, opts.Detailed)
			if i := NearestPath(curves, o.Loc); i >= 0 {
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed, arrowhead=none];\n", p.Paths[i].Name, o.Name)
			}
		}
	}

	if len(p.Trees) > 0 {
		fmt.Fprintf(&buf, "\n  %q [shape=ellipse, fillcolor=\"#b5cf8f\"];\n", groundNode)
		for _, t := range p.Trees {
			writeObject(&buf, t, opts.Detailed)
			fmt.Fprintf(&buf, "  %q -> %q [style=dotted, arrowhead=none];\n", groundNode, t.Name)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

var kindFill = map[park.Kind]string{
	park.KindBench: "#d9b38c",
	park.KindLamp:  "#f7e08a",
	park.KindTree:  "#8fbf6a",
}

func writeObject(buf *bytes.Buffer, o park.Object, detailed bool) {
	label := o.Name
	if detailed {
		parts := []string{"loc: " + o.Loc.String()}
		if o.Kind == park.KindBench {
			parts = append(parts, fmt.Sprintf("yaw: %.1f", o.Yaw))
		}
		if o.Kind == park.KindTree {
			parts = append(parts, fmt.Sprintf("size: %.0f", o.Scale))
		}
		label += "\n" + strings.Join(parts, "\n")
	}
	fmt.Fprintf(buf, "  %q [label=%q, shape=note, fillcolor=%q];\n", o.Name, label, kindFill[o.Kind])
}

// NearestPath returns the index of the curve with a sample point
// horizontally closest to loc, or -1 when there are no curves.
func NearestPath(curves []park.Curve, loc geom.Vec3) int {
	best, bestDist := -1, math.Inf(1)
	for i, c := range curves {
		for _, pt := range c.Points {
			if d := pt.HorizontalDist(loc); d < bestDist {
				best, bestDist = i, d
			}
		}
	}
	return best
}

// RenderSVG lays out and renders DOT source as SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// viewBox so the diagram scales inside HTML.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
