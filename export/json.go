package export

import (
	"encoding/json"

	"choopy/network"
)

// JSONExporter exports a Snapshot as indented JSON
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts a network state to JSON
func (e *JSONExporter) Export(s network.State) (string, error) {
	data, err := json.MarshalIndent(NewSnapshot(s), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

// GetFileExtension returns the file extension for JSON
func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// GetFormatName returns the format name
func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}
