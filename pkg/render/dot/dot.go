package dot

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/neuroscene/pkg/errors"
	"github.com/matzehuels/neuroscene/pkg/render"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

// ToDOT converts a scene to a left-to-right Graphviz digraph with one
// cluster per group. Edge pen colors carry the weight encoding, with the
// opacity folded into the alpha channel.
//
// The scatter topology has no edges and no layer order, so it is rejected
// with UNSUPPORTED.
func ToDOT(s *scene.Scene) (string, error) {
	if s.Topology == scene.TopologyScatter {
		return "", errors.New(errors.ErrCodeUnsupported, "dot output is not available for the %s topology", s.Topology)
	}

	shape := "circle"
	if s.Topology == scene.TopologyConvolutional {
		shape = "box"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph neuroscene {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  newrank=true;\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.25;\n")
	fmt.Fprintf(&buf, "  node [shape=%s, style=filled, penwidth=0, fontname=\"Helvetica\", fontsize=10, fontcolor=%q];\n",
		shape, scene.ColorBlockText)
	buf.WriteString("  edge [arrowsize=0.4];\n")

	for _, g := range s.Groups {
		buf.WriteString("\n")
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", g.Index)
		fmt.Fprintf(&buf, "    label=%q;\n", g.Name)
		fmt.Fprintf(&buf, "    color=%q;\n", scene.ColorAxis)
		fmt.Fprintf(&buf, "    fontcolor=%q;\n", scene.ColorCaption)
		buf.WriteString("    rank=same;\n")
		for _, n := range s.GroupNodes(g.Index) {
			fmt.Fprintf(&buf, "    %q [%s];\n", n.ID, nodeAttrs(n, g.Name, s.Topology))
		}
		buf.WriteString("  }\n")
	}

	if len(s.Edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range s.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [color=%q, penwidth=%.2f, tooltip=\"%.4f\"];\n",
			e.From, e.To, withAlpha(e.Color, e.Opacity), 0.5+2*e.Opacity, e.Weight)
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func nodeAttrs(n scene.Node, groupName string, t scene.Topology) string {
	if t == scene.TopologyConvolutional && n.Extent != nil {
		return fmt.Sprintf("label=%q, fillcolor=%q, width=%.2f, height=%.2f",
			groupName, n.Color, n.Extent.X/2, n.Extent.Y/2)
	}
	return fmt.Sprintf("label=\"\", fillcolor=%q, width=%.2f, fixedsize=true", n.Color, n.SizeHint*2)
}

// withAlpha appends an alpha byte to a #rrggbb color.
func withAlpha(color string, opacity float64) string {
	if len(color) != 7 || color[0] != '#' {
		return color
	}
	a := int(math.Round(math.Max(0, math.Min(1, opacity)) * 255))
	return fmt.Sprintf("%s%02x", color, a)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel viewBox so the output scales like the projected SVG.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}
