package export

import (
	"fmt"
	"strings"

	"choopy/network"
)

// MermaidExporter exports the link graph to Mermaid flowchart syntax
type MermaidExporter struct{}

// NewMermaidExporter creates a new Mermaid exporter
func NewMermaidExporter() *MermaidExporter {
	return &MermaidExporter{}
}

// Export converts the network state to Mermaid syntax. Every node is
// declared; links become undirected edges and linked nodes get the
// "linked" class.
func (e *MermaidExporter) Export(s network.State) (string, error) {
	if err := requireNodes(s); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("graph LR\n")

	var linked []string
	for _, n := range s.Nodes {
		id := e.getNodeID(n.ID)
		sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", id, e.escapeLabel(nodeLabel(n))))
		if s.Links.Has(n.ID) {
			linked = append(linked, id)
		}
	}

	for _, p := range s.Links.Pairs() {
		sb.WriteString(fmt.Sprintf("    %s --- %s\n", e.getNodeID(p.A), e.getNodeID(p.B)))
	}

	if len(linked) > 0 {
		sb.WriteString("    classDef linked stroke:#00d2ff,stroke-width:3px\n")
		sb.WriteString(fmt.Sprintf("    class %s linked\n", strings.Join(linked, ",")))
	}
	return sb.String(), nil
}

func (e *MermaidExporter) getNodeID(id int) string {
	return fmt.Sprintf("N%d", id)
}

// escapeLabel replaces characters that end a quoted Mermaid label
func (e *MermaidExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `"`, "#quot;")
	label = strings.ReplaceAll(label, "\n", "<br/>")
	return label
}

// GetFileExtension returns the recommended file extension
func (e *MermaidExporter) GetFileExtension() string {
	return ".mmd"
}

// GetFormatName returns the format name
func (e *MermaidExporter) GetFormatName() string {
	return "Mermaid"
}
