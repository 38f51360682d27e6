package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"choopy/core"
	"choopy/network"
	"choopy/render"
)

// SVGExporter draws bubbles as circles with their link lines. When a node
// is hovered, its hover lines are drawn with the same opacities as the
// terminal.
type SVGExporter struct{}

// NewSVGExporter creates a new SVG exporter
func NewSVGExporter() *SVGExporter {
	return &SVGExporter{}
}

// Export converts the network state to an SVG document
func (e *SVGExporter) Export(s network.State) (string, error) {
	if err := requireNodes(s); err != nil {
		return "", err
	}

	w, h := e.canvasSize(s)
	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
<defs><linearGradient id="link" x1="0" y1="0" x2="1" y2="1"><stop offset="0" stop-color="#00d2ff"/><stop offset="1" stop-color="#3a7bd5"/></linearGradient></defs>
`, w, h))

	centers := render.ModelCenters(s)
	for _, p := range s.Links.Pairs() {
		a, b := centers[p.A], centers[p.B]
		svg.WriteString(fmt.Sprintf(`<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="url(#link)" stroke-width="3"/>`+"\n",
			a.X, a.Y, b.X, b.Y))
	}
	for _, l := range render.HoverLines(s, centers) {
		dash := ` stroke-dasharray="4 4"`
		if l.Linked {
			dash = ""
		}
		svg.WriteString(fmt.Sprintf(`<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="#00d2ff" stroke-opacity="%g" stroke-width="2"%s/>`+"\n",
			l.A.X, l.A.Y, l.B.X, l.B.Y, l.Opacity, dash))
	}

	for _, n := range s.Nodes {
		e.drawBubble(&svg, n, s)
	}

	svg.WriteString("</svg>\n")
	return svg.String(), nil
}

func (e *SVGExporter) canvasSize(s network.State) (int, int) {
	if s.Bounds.Known() {
		return int(math.Ceil(s.Bounds.W)), int(math.Ceil(s.Bounds.H))
	}
	var w, h float64
	for _, n := range s.Nodes {
		w = math.Max(w, n.Pos.X+s.Params.Size)
		h = math.Max(h, n.Pos.Y+s.Params.Size)
	}
	return int(math.Ceil(w)), int(math.Ceil(h))
}

func (e *SVGExporter) drawBubble(svg *strings.Builder, n core.Node, s network.State) {
	c := n.Center(s.Params.Size)
	stroke := "#3a7bd5"
	if s.Links.Has(n.ID) {
		stroke = "#00d2ff"
	}
	svg.WriteString(fmt.Sprintf(`<circle cx="%g" cy="%g" r="%g" fill="#ffffff" stroke="%s" stroke-width="2"/>`+"\n",
		c.X, c.Y, s.Params.Size/2, stroke))
	svg.WriteString(fmt.Sprintf(`<text x="%g" y="%g" text-anchor="middle" font-family="sans-serif" font-size="9">%s</text>`+"\n",
		c.X, c.Y, html.EscapeString(n.Name)))
	if n.Year != 0 {
		svg.WriteString(fmt.Sprintf(`<text x="%g" y="%g" text-anchor="middle" font-family="sans-serif" font-size="8">%d</text>`+"\n",
			c.X, c.Y+11, n.Year))
	}
}

// GetFileExtension returns the recommended file extension
func (e *SVGExporter) GetFileExtension() string {
	return ".svg"
}

// GetFormatName returns the format name
func (e *SVGExporter) GetFormatName() string {
	return "SVG"
}
