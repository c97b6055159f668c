// Package export renders stored runs as standalone SVG images.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/mnv/internal/viz"
)

// Scatter is a two-coordinate view of a run with an optional outline drawn
// over the points.
type Scatter struct {
	Width, Height int
	Points        []viz.Point
	Outline       []viz.Point
	PointColor    string
	OutlineColor  string
	Caption       string
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func fit(sets ...[]viz.Point) bounds {
	b := bounds{minX: 1, maxX: -1}
	first := true
	for _, set := range sets {
		for _, p := range set {
			if first {
				b = bounds{p.X, p.X, p.Y, p.Y}
				first = false
				continue
			}
			b.minX, b.maxX = min(b.minX, p.X), max(b.maxX, p.X)
			b.minY, b.maxY = min(b.minY, p.Y), max(b.maxY, p.Y)
		}
	}

	rangeX, rangeY := b.maxX-b.minX, b.maxY-b.minY
	if rangeX <= 0 {
		rangeX = 1
	}
	if rangeY <= 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	return b
}

func (b bounds) project(p viz.Point, width, height int) (float64, float64) {
	x := (p.X - b.minX) / (b.maxX - b.minX) * float64(width)
	y := float64(height) - (p.Y-b.minY)/(b.maxY-b.minY)*float64(height)
	return x, y
}

// SVG renders the scatter. Points fall back to green and the outline to
// cyan when no colour is set.
func (s Scatter) SVG() string {
	if len(s.Points) == 0 && len(s.Outline) == 0 {
		return ""
	}
	pointColor := s.PointColor
	if pointColor == "" {
		pointColor = "#00ff00"
	}
	outlineColor := s.OutlineColor
	if outlineColor == "" {
		outlineColor = "#00ffff"
	}

	b := fit(s.Points, s.Outline)
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, s.Width, s.Height, s.Width, s.Height)

	fmt.Fprintf(&sb, "<g fill=\"%s\" fill-opacity=\"0.6\">\n", pointColor)
	for _, p := range s.Points {
		x, y := b.project(p, s.Width, s.Height)
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"1.2\"/>\n", x, y)
	}
	sb.WriteString("</g>\n")

	if len(s.Outline) >= 2 {
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, outlineColor)
		for i, p := range s.Outline {
			x, y := b.project(p, s.Width, s.Height)
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	if s.Caption != "" {
		fmt.Fprintf(&sb, "<text x=\"8\" y=\"%d\" fill=\"#cccccc\" font-family=\"monospace\" font-size=\"12\">%s</text>\n",
			s.Height-8, escape(s.Caption))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteTo writes the rendered SVG to w.
func (s Scatter) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.SVG())
	return int64(n), err
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
