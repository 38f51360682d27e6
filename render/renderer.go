package render

import (
	"fmt"
	"strconv"

	"choopy/canvas"
	"choopy/core"
	"choopy/network"

	"github.com/gdamore/tcell/v2"
)

// Styles used by the renderer.
type Styles struct {
	Title      tcell.Style
	Status     tcell.Style
	Bubble     tcell.Style
	Connected  tcell.Style
	Dragging   tcell.Style
	Hovered    tcell.Style
	LinkedLine tcell.Style
	FaintLine  tcell.Style
}

// DefaultStyles follows the site's cyan-to-blue palette.
func DefaultStyles() Styles {
	cyan := tcell.NewHexColor(0x00d2ff)
	blue := tcell.NewHexColor(0x3a7bd5)
	return Styles{
		Title:      tcell.StyleDefault.Foreground(cyan).Bold(true),
		Status:     tcell.StyleDefault.Reverse(true),
		Bubble:     tcell.StyleDefault.Foreground(blue),
		Connected:  tcell.StyleDefault.Foreground(cyan),
		Dragging:   tcell.StyleDefault.Foreground(cyan).Bold(true),
		Hovered:    tcell.StyleDefault.Foreground(cyan).Reverse(true),
		LinkedLine: tcell.StyleDefault.Foreground(cyan).Bold(true),
		FaintLine:  tcell.StyleDefault.Foreground(blue).Dim(true),
	}
}

// Frame is what a draw measured: the cells each bubble occupies and the
// pixel centers derived from them.
type Frame struct {
	Rects   map[int]canvas.Rect
	Centers map[int]core.Point
	Lines   []Line
}

// NodeAt returns the bubble drawn at the cell, topmost first.
func (f Frame) NodeAt(nodes []core.Node, x, y int) int {
	for i := len(nodes) - 1; i >= 0; i-- {
		if r, ok := f.Rects[nodes[i].ID]; ok && r.Contains(x, y) {
			return nodes[i].ID
		}
	}
	return core.NoNode
}

// Renderer draws network snapshots.
type Renderer struct {
	Viewport Viewport
	Styles   Styles
	Title    string
}

// NewRenderer creates a renderer with default styles.
func NewRenderer(v Viewport) *Renderer {
	return &Renderer{Viewport: v, Styles: DefaultStyles(), Title: "Paper Network"}
}

// Area returns the network area in cells for a surface of the given size:
// everything between the title row and the status row.
func (r *Renderer) Area(width, height int) (cols, rows int) {
	return width - r.Viewport.OriginX, height - r.Viewport.OriginY - 1
}

// Draw renders s onto the surface with status in the bottom row. Bubbles
// are measured first, hover lines are drawn between measured centers, then
// bubbles are drawn on top.
func (r *Renderer) Draw(surface canvas.Surface, s network.State, status string) Frame {
	width, height := surface.Size()
	canvas.Fill(surface, canvas.Rect{W: width, H: height}, ' ', tcell.StyleDefault)

	header := r.Title
	if s.Mode == network.ModeDragging {
		header = fmt.Sprintf("%s  [%s #%d]", r.Title, s.Mode, s.Dragged)
	}
	canvas.DrawText(surface, 0, 0, header, width, r.Styles.Title)

	statusRow := canvas.Rect{X: 0, Y: height - 1, W: width, H: 1}
	canvas.Fill(surface, statusRow, ' ', r.Styles.Status)
	canvas.DrawText(surface, 0, height-1, status, width, r.Styles.Status)

	frame := Frame{
		Rects:   make(map[int]canvas.Rect, len(s.Nodes)),
		Centers: make(map[int]core.Point, len(s.Nodes)),
	}

	if len(s.Nodes) == 0 {
		canvas.DrawTextCentered(surface, 0, height/2, width, "Loading...", r.Styles.Bubble)
		return frame
	}

	for _, n := range s.Nodes {
		rect := r.Viewport.BubbleRect(n.Pos, s.Params.Size)
		frame.Rects[n.ID] = rect
		cx, cy := rect.Center()
		frame.Centers[n.ID] = r.Viewport.ToPixel(cx, cy)
	}

	frame.Lines = HoverLines(s, frame.Centers)
	for _, l := range frame.Lines {
		x1, y1 := r.Viewport.ToCell(l.A)
		x2, y2 := r.Viewport.ToCell(l.B)
		ch, style := '·', r.Styles.FaintLine
		if l.Linked {
			ch, style = '•', r.Styles.LinkedLine
		}
		canvas.DrawLine(surface, x1, y1, x2, y2, ch, style)
	}

	for _, n := range s.Nodes {
		r.drawBubble(surface, n, frame.Rects[n.ID], s)
	}

	return frame
}

func (r *Renderer) drawBubble(surface canvas.Surface, n core.Node, rect canvas.Rect, s network.State) {
	box, style := canvas.RoundedBox, r.Styles.Bubble
	switch {
	case n.ID == s.Dragged:
		box, style = canvas.HeavyBox, r.Styles.Dragging
	case s.Links.Has(n.ID):
		box, style = canvas.DoubleBox, r.Styles.Connected
	}
	if n.ID == s.Hovered {
		style = r.Styles.Hovered
	}

	canvas.Fill(surface, rect, ' ', style)
	canvas.DrawBox(surface, rect, box, style)

	inner := rect.W - 2
	lines := []string{n.Name, n.Author}
	if n.Year != 0 {
		lines = append(lines, strconv.Itoa(n.Year))
	}
	for i, text := range lines {
		if i >= rect.H-2 {
			break
		}
		canvas.DrawTextCentered(surface, rect.X+1, rect.Y+1+i, inner, text, style)
	}
}
