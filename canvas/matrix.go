// Package canvas provides 2D character grids and the drawing primitives the
// renderer uses on them.
package canvas

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Surface is anything a frame can be drawn on. tcell.Screen satisfies it,
// and so does MatrixCanvas for headless output.
type Surface interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

// MatrixCanvas implements a rune matrix surface. Styles are dropped, which
// makes it suitable for plain-text snapshots and tests.
//
// MatrixCanvas is NOT thread-safe; writes must be synchronized externally.
//
// Coordinate System:
//   - Origin (0,0) is top-left
//   - X increases rightward
//   - Y increases downward
//   - All coordinates are in character cells
type MatrixCanvas struct {
	matrix [][]rune
	width  int
	height int
}

// NewMatrixCanvas creates a new canvas with the specified dimensions.
func NewMatrixCanvas(width, height int) *MatrixCanvas {
	if width <= 0 || height <= 0 {
		return nil
	}

	matrix := make([][]rune, height)
	for y := 0; y < height; y++ {
		matrix[y] = make([]rune, width)
		for x := 0; x < width; x++ {
			matrix[y][x] = ' '
		}
	}

	return &MatrixCanvas{
		matrix: matrix,
		width:  width,
		height: height,
	}
}

// Size returns the width and height of the canvas.
func (c *MatrixCanvas) Size() (width, height int) {
	return c.width, c.height
}

// Get returns the character at the given position.
// Returns ' ' (space) if position is out of bounds.
func (c *MatrixCanvas) Get(x, y int) rune {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return ' '
	}
	return c.matrix[y][x]
}

// SetContent places a character, ignoring the style. Out-of-bounds writes
// are dropped, matching tcell.
func (c *MatrixCanvas) SetContent(x, y int, primary rune, _ []rune, _ tcell.Style) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.matrix[y][x] = primary
	if runewidth.RuneWidth(primary) == 2 && x+1 < c.width {
		c.matrix[y][x+1] = '\x00' // wide character continuation
	}
}

// Clear resets the canvas to all spaces.
func (c *MatrixCanvas) Clear() {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			c.matrix[y][x] = ' '
		}
	}
}

// String returns the canvas as a string with newlines. Trailing spaces are
// trimmed from every row.
func (c *MatrixCanvas) String() string {
	var sb strings.Builder
	sb.Grow(c.height * (c.width + 1))

	for y := 0; y < c.height; y++ {
		var row strings.Builder
		for x := 0; x < c.width; x++ {
			r := c.matrix[y][x]
			if r == '\x00' {
				continue
			}
			row.WriteRune(r)
		}
		sb.WriteString(strings.TrimRight(row.String(), " "))
		if y < c.height-1 {
			sb.WriteRune('\n')
		}
	}

	return sb.String()
}
