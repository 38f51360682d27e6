package export

import (
	"fmt"
	"strings"

	"choopy/core"
	"choopy/network"
)

// GraphvizExporter exports the link graph to Graphviz DOT syntax. Node
// positions are pinned so neato reproduces the layout.
type GraphvizExporter struct{}

// NewGraphvizExporter creates a new Graphviz exporter
func NewGraphvizExporter() *GraphvizExporter {
	return &GraphvizExporter{}
}

// Export converts the network state to DOT
func (e *GraphvizExporter) Export(s network.State) (string, error) {
	if err := requireNodes(s); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("graph G {\n")
	sb.WriteString("  layout=neato;\n")
	sb.WriteString("  node [shape=circle, fixedsize=true, color=\"#3a7bd5\"];\n")
	sb.WriteString("  edge [color=\"#00d2ff\"];\n\n")

	for _, n := range s.Nodes {
		sb.WriteString(fmt.Sprintf("  %s [label=\"%s\", %s];\n",
			e.getNodeID(n.ID), e.escapeLabel(nodeLabel(n)), e.getNodeAttributes(n, s)))
	}

	pairs := s.Links.Pairs()
	if len(pairs) > 0 {
		sb.WriteString("\n")
	}
	for _, p := range pairs {
		sb.WriteString(fmt.Sprintf("  %s -- %s;\n", e.getNodeID(p.A), e.getNodeID(p.B)))
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

// getNodeID returns a valid DOT node identifier
func (e *GraphvizExporter) getNodeID(id int) string {
	return fmt.Sprintf("N%d", id)
}

// escapeLabel escapes special characters in labels
func (e *GraphvizExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `\`, `\\`)
	label = strings.ReplaceAll(label, `"`, `\"`)
	return label
}

// getNodeAttributes pins the node center in points (72 per inch, y up) and
// doubles the border of linked nodes.
func (e *GraphvizExporter) getNodeAttributes(n core.Node, s network.State) string {
	c := n.Center(s.Params.Size)
	attrs := []string{
		fmt.Sprintf("pos=\"%g,%g!\"", c.X, -c.Y),
		fmt.Sprintf("width=%g", s.Params.Size/72),
	}
	if s.Links.Has(n.ID) {
		attrs = append(attrs, "peripheries=2")
	}
	return strings.Join(attrs, ", ")
}

// GetFileExtension returns the recommended file extension
func (e *GraphvizExporter) GetFileExtension() string {
	return ".dot"
}

// GetFormatName returns the format name
func (e *GraphvizExporter) GetFormatName() string {
	return "Graphviz"
}
