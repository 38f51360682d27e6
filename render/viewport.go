// Package render turns a network snapshot into a frame on a cell surface.
package render

import (
	"math"

	"choopy/canvas"
	"choopy/core"
)

// Viewport maps the simulation's pixel space onto terminal cells. The
// network area starts at (OriginX, OriginY) on the surface.
type Viewport struct {
	CellWidth  float64 // pixels per column
	CellHeight float64 // pixels per row
	OriginX    int
	OriginY    int
}

// DefaultViewport uses 6x12 pixel cells below a one-row title.
func DefaultViewport() Viewport {
	return Viewport{CellWidth: 6, CellHeight: 12, OriginX: 0, OriginY: 1}
}

// ToCell returns the cell containing pixel p.
func (v Viewport) ToCell(p core.Point) (x, y int) {
	return v.OriginX + int(math.Floor(p.X/v.CellWidth)),
		v.OriginY + int(math.Floor(p.Y/v.CellHeight))
}

// ToPixel returns the pixel at the center of cell (x, y).
func (v Viewport) ToPixel(x, y int) core.Point {
	return core.Point{
		X: (float64(x-v.OriginX) + 0.5) * v.CellWidth,
		Y: (float64(y-v.OriginY) + 0.5) * v.CellHeight,
	}
}

// Bounds returns the pixel size of an area of cols x rows cells.
func (v Viewport) Bounds(cols, rows int) core.Size {
	if cols <= 0 || rows <= 0 {
		return core.Size{}
	}
	return core.Size{W: float64(cols) * v.CellWidth, H: float64(rows) * v.CellHeight}
}

// BubbleRect returns the cells covered by a bubble box of the given pixel
// size at pos. Boxes are at least 3x3 so a label always fits.
func (v Viewport) BubbleRect(pos core.Point, size float64) canvas.Rect {
	x, y := v.ToCell(pos)
	w := int(math.Round(size / v.CellWidth))
	h := int(math.Round(size / v.CellHeight))
	if w < 3 {
		w = 3
	}
	if h < 3 {
		h = 3
	}
	return canvas.Rect{X: x, Y: y, W: w, H: h}
}
