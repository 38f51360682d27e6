package export

import (
	"choopy/canvas"
	"choopy/network"
	"choopy/render"
)

// Default ascii size in cells.
const (
	DefaultWidth  = 100
	DefaultHeight = 30
)

// ASCIIExporter draws the network with the terminal renderer onto an
// in-memory canvas
type ASCIIExporter struct {
	renderer      *render.Renderer
	width, height int
}

// NewASCIIExporter creates a new ASCII exporter. Non-positive sizes use the
// defaults.
func NewASCIIExporter(width, height int) *ASCIIExporter {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &ASCIIExporter{
		renderer: render.NewRenderer(render.DefaultViewport()),
		width:    width,
		height:   height,
	}
}

// Export renders the network as Unicode box art
func (e *ASCIIExporter) Export(s network.State) (string, error) {
	if err := requireNodes(s); err != nil {
		return "", err
	}
	c := canvas.NewMatrixCanvas(e.width, e.height)
	e.renderer.Draw(c, s, "")
	return c.String() + "\n", nil
}

// GetFileExtension returns the recommended file extension
func (e *ASCIIExporter) GetFileExtension() string {
	return ".txt"
}

// GetFormatName returns the format name
func (e *ASCIIExporter) GetFormatName() string {
	return "ASCII/Unicode Art"
}
