// Package export writes network snapshots to text-based formats.
package export

import (
	"errors"
	"fmt"

	"choopy/connections"
	"choopy/core"
	"choopy/network"
	"choopy/render"
)

// ErrUnknownFormat is returned for format names no exporter handles.
var ErrUnknownFormat = errors.New("unknown export format")

// Format represents an export format
type Format string

const (
	// FormatASCII draws the network with the terminal renderer
	FormatASCII Format = "ascii"
	// FormatJSON dumps nodes, positions and links
	FormatJSON Format = "json"
	// FormatSVG draws bubbles and link lines as SVG
	FormatSVG Format = "svg"
	// FormatDOT exports to Graphviz DOT with pinned positions
	FormatDOT Format = "dot"
	// FormatMermaid exports the link graph to Mermaid flowchart syntax
	FormatMermaid Format = "mermaid"
)

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a network state to the target format
	Export(s network.State) (string, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// Options sizes the raster formats.
type Options struct {
	Width    int             // ascii columns
	Height   int             // ascii rows
	Viewport render.Viewport // ascii cell geometry; zero uses the default
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format, opts Options) (Exporter, error) {
	switch format {
	case FormatASCII:
		e := NewASCIIExporter(opts.Width, opts.Height)
		if opts.Viewport.CellWidth > 0 && opts.Viewport.CellHeight > 0 {
			e.renderer.Viewport = opts.Viewport
		}
		return e, nil
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatSVG:
		return NewSVGExporter(), nil
	case FormatDOT:
		return NewGraphvizExporter(), nil
	case FormatMermaid:
		return NewMermaidExporter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch s {
	case "ascii", "text", "txt":
		return FormatASCII, nil
	case "json":
		return FormatJSON, nil
	case "svg":
		return FormatSVG, nil
	case "dot", "graphviz", "gv":
		return FormatDOT, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{FormatASCII, FormatJSON, FormatSVG, FormatDOT, FormatMermaid}
}

// Snapshot is the serializable view of a network state.
type Snapshot struct {
	Bounds core.Size          `json:"bounds"`
	Radius float64            `json:"radius"`
	Size   float64            `json:"size"`
	Nodes  []core.Node        `json:"nodes"`
	Links  []connections.Pair `json:"links"`
}

// NewSnapshot captures s.
func NewSnapshot(s network.State) Snapshot {
	nodes := s.Nodes
	if nodes == nil {
		nodes = []core.Node{}
	}
	links := s.Links.Pairs()
	if links == nil {
		links = []connections.Pair{}
	}
	return Snapshot{
		Bounds: s.Bounds,
		Radius: s.Params.Radius,
		Size:   s.Params.Size,
		Nodes:  nodes,
		Links:  links,
	}
}

func requireNodes(s network.State) error {
	if len(s.Nodes) == 0 {
		return fmt.Errorf("network has no nodes")
	}
	return nil
}

// nodeLabel is the one-line label shared by the graph formats.
func nodeLabel(n core.Node) string {
	if n.Year != 0 {
		return fmt.Sprintf("%s (%d)", n.Name, n.Year)
	}
	return n.Name
}
