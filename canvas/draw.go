package canvas

import (
	"choopy/geometry"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// BoxStyle holds the border characters of a box.
type BoxStyle struct {
	TopLeft, TopRight, BottomLeft, BottomRight rune
	Horizontal, Vertical                       rune
}

var (
	// RoundedBox draws bubbles.
	RoundedBox = BoxStyle{'╭', '╮', '╰', '╯', '─', '│'}
	// HeavyBox draws the bubble being dragged.
	HeavyBox = BoxStyle{'┏', '┓', '┗', '┛', '━', '┃'}
	// DoubleBox draws linked bubbles.
	DoubleBox = BoxStyle{'╔', '╗', '╚', '╝', '═', '║'}
)

// Rect is a rectangle in cells.
type Rect struct {
	X, Y, W, H int
}

// Center returns the cell at the middle of the rectangle.
func (r Rect) Center() (x, y int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Contains reports whether the cell lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Fill paints every cell of r with ch.
func Fill(s Surface, r Rect, ch rune, style tcell.Style) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			s.SetContent(x, y, ch, nil, style)
		}
	}
}

// DrawBox draws a rectangle border. Boxes smaller than 2x2 are skipped.
func DrawBox(s Surface, r Rect, box BoxStyle, style tcell.Style) {
	if r.W < 2 || r.H < 2 {
		return
	}
	right := r.X + r.W - 1
	bottom := r.Y + r.H - 1

	for x := r.X + 1; x < right; x++ {
		s.SetContent(x, r.Y, box.Horizontal, nil, style)
		s.SetContent(x, bottom, box.Horizontal, nil, style)
	}
	for y := r.Y + 1; y < bottom; y++ {
		s.SetContent(r.X, y, box.Vertical, nil, style)
		s.SetContent(right, y, box.Vertical, nil, style)
	}
	s.SetContent(r.X, r.Y, box.TopLeft, nil, style)
	s.SetContent(right, r.Y, box.TopRight, nil, style)
	s.SetContent(r.X, bottom, box.BottomLeft, nil, style)
	s.SetContent(right, bottom, box.BottomRight, nil, style)
}

// DrawLine draws a line between two cells using Bresenham's algorithm.
func DrawLine(s Surface, x1, y1, x2, y2 int, ch rune, style tcell.Style) {
	dx := geometry.Abs(x2 - x1)
	dy := geometry.Abs(y2 - y1)

	x, y := x1, y1

	xInc := 1
	if x1 > x2 {
		xInc = -1
	}
	yInc := 1
	if y1 > y2 {
		yInc = -1
	}

	if dx > dy {
		err := dx / 2
		for x != x2 {
			s.SetContent(x, y, ch, nil, style)
			err -= dy
			if err < 0 {
				y += yInc
				err += dx
			}
			x += xInc
		}
	} else {
		err := dy / 2
		for y != y2 {
			s.SetContent(x, y, ch, nil, style)
			err -= dx
			if err < 0 {
				x += xInc
				err += dy
			}
			y += yInc
		}
	}

	s.SetContent(x2, y2, ch, nil, style)
}

// DrawText writes text starting at (x, y), clipped to maxWidth cells, and
// returns the number of cells used.
func DrawText(s Surface, x, y int, text string, maxWidth int, style tcell.Style) int {
	if maxWidth <= 0 {
		return 0
	}
	text = Truncate(text, maxWidth)
	used := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		s.SetContent(x+used, y, r, nil, style)
		used += w
	}
	return used
}

// DrawTextCentered writes text centered inside [x, x+width).
func DrawTextCentered(s Surface, x, y, width int, text string, style tcell.Style) {
	text = Truncate(text, width)
	pad := (width - runewidth.StringWidth(text)) / 2
	DrawText(s, x+pad, y, text, width-pad, style)
}

// Truncate shortens text to fit maxWidth cells, marking the cut with '…'.
func Truncate(text string, maxWidth int) string {
	if runewidth.StringWidth(text) <= maxWidth {
		return text
	}
	return runewidth.Truncate(text, maxWidth, "…")
}

