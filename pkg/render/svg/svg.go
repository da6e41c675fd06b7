package svg

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/neuroscene/pkg/scene"
)

// Default frame and projection settings.
const (
	DefaultWidth      = 800.0
	DefaultHeight     = 600.0
	DefaultBackground = "#0f0f23"

	obliqueAngle = math.Pi / 6
	obliqueDepth = 0.5
	padding      = 24.0

	featureSpacing = 0.15
	featureOpacity = 0.3
	edgeWidth      = 0.03
	axisWidth      = 0.02
)

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	width, height float64
	time          float64
	background    string
	unit          float64 // pixels per scene unit; 0 fits the frame
}

// WithSize sets the frame size in pixels.
func WithSize(w, h float64) Option {
	return func(r *renderer) {
		if w > 0 {
			r.width = w
		}
		if h > 0 {
			r.height = h
		}
	}
}

// WithTime renders the animation frame at t seconds.
func WithTime(t float64) Option { return func(r *renderer) { r.time = t } }

// WithBackground sets the fill color; an empty string leaves it transparent.
func WithBackground(color string) Option { return func(r *renderer) { r.background = color } }

// WithUnit fixes the scale in pixels per scene unit instead of fitting the frame.
func WithUnit(px float64) Option { return func(r *renderer) { r.unit = px } }

// Render draws s as it appears at the configured time.
func Render(s *scene.Scene, opts ...Option) []byte {
	r := renderer{width: DefaultWidth, height: DefaultHeight, background: DefaultBackground}
	for _, opt := range opts {
		opt(&r)
	}

	var d drawing
	if s != nil {
		d = build(s, r.time)
	}
	minX, minY, maxX, maxY := d.extent()
	unit := r.unit
	if unit <= 0 {
		unit = fit(maxX-minX, maxY-minY, r.width, r.height)
	}
	offX := r.width/2 - (minX+maxX)/2*unit
	offY := r.height/2 + (minY+maxY)/2*unit
	screen := func(p point) point { return point{offX + p.X*unit, offY - p.Y*unit} }

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}

	for _, l := range d.lines {
		a, b := screen(l.A), screen(l.B)
		fmt.Fprintf(&buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-opacity="%.3f" stroke-width="%.2f"/>`+"\n",
			a.X, a.Y, b.X, b.Y, l.Stroke, l.Opacity, math.Max(l.Width*unit, 0.5))
	}

	slices.SortStableFunc(d.shapes, func(a, b shape) int { return cmp.Compare(a.Depth, b.Depth) })
	for _, sh := range d.shapes {
		if sh.Poly != nil {
			writePolygon(&buf, sh.Poly, sh.Fill, sh.Opacity, screen)
			continue
		}
		c := screen(sh.Center)
		fmt.Fprintf(&buf, `  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="%.3f"/>`+"\n",
			c.X, c.Y, sh.Radius*unit, sh.Fill, sh.Opacity)
	}

	for _, t := range d.texts {
		at := screen(t.At)
		fmt.Fprintf(&buf, `  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.1f" fill="%s" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
			at.X, at.Y, t.Size*unit, t.Fill, escapeXML(t.Text))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// Project maps a scene point to the oblique drawing plane, in scene units.
// Points nearer the viewer (larger z) shift down and to the left.
func Project(p scene.Vec3) (x, y float64) {
	return p.X - p.Z*obliqueDepth*math.Cos(obliqueAngle), p.Y - p.Z*obliqueDepth*math.Sin(obliqueAngle)
}

func fit(spanX, spanY, w, h float64) float64 {
	availW, availH := w-2*padding, h-2*padding
	if spanX <= 0 && spanY <= 0 {
		return 1
	}
	ux, uy := math.Inf(1), math.Inf(1)
	if spanX > 0 {
		ux = availW / spanX
	}
	if spanY > 0 {
		uy = availH / spanY
	}
	return math.Max(math.Min(ux, uy), 0.01)
}

func writePolygon(buf *bytes.Buffer, pts []point, fill string, opacity float64, screen func(point) point) {
	buf.WriteString(`  <polygon points="`)
	for i, p := range pts {
		s := screen(p)
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "%.2f,%.2f", s.X, s.Y)
	}
	fmt.Fprintf(buf, `" fill="%s" fill-opacity="%.3f" stroke="%s" stroke-opacity="%.3f" stroke-width="0.5"/>`+"\n",
		fill, opacity, fill, math.Min(1, opacity+0.2))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
