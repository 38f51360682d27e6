package importer

import (
	"context"
	"encoding/json"
	"fmt"

	"choopy/core"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// JSONDecoder reads a JSON array of {name, author, time} records.
type JSONDecoder struct{}

// Decode parses the content
func (JSONDecoder) Decode(data []byte) ([]core.Paper, error) {
	var papers []core.Paper
	if err := json.Unmarshal(data, &papers); err != nil {
		return nil, fmt.Errorf("failed to parse papers JSON: %w", err)
	}
	return papers, nil
}

// FormatName returns the format name
func (JSONDecoder) FormatName() string { return "JSON" }

// FileExtensions returns the file extensions for JSON
func (JSONDecoder) FileExtensions() []string { return []string{".json"} }

// YAMLDecoder reads the same records written as a YAML sequence.
type YAMLDecoder struct{}

// Decode parses the content
func (YAMLDecoder) Decode(data []byte) ([]core.Paper, error) {
	var papers []core.Paper
	if err := yaml.Unmarshal(data, &papers); err != nil {
		return nil, fmt.Errorf("failed to parse papers YAML: %w", err)
	}
	return papers, nil
}

// FormatName returns the format name
func (YAMLDecoder) FormatName() string { return "YAML" }

// FileExtensions returns the file extensions for YAML
func (YAMLDecoder) FileExtensions() []string { return []string{".yaml", ".yml"} }

// ValidatePapers rejects records without a name.
func ValidatePapers(papers []core.Paper) error {
	for i, p := range papers {
		if p.Name == "" {
			return fmt.Errorf("%w: record %d has no name", ErrInvalidPaper, i)
		}
	}
	return nil
}

// LoadPapers reads, decodes and validates the data set at source.
func LoadPapers(ctx context.Context, source string) ([]core.Paper, error) {
	data, err := Read(ctx, source)
	if err != nil {
		return nil, err
	}
	papers, err := NewRegistry().ForSource(source).Decode(data)
	if err != nil {
		return nil, err
	}
	if err := ValidatePapers(papers); err != nil {
		return nil, err
	}
	return papers, nil
}

// Fetch is the one-shot load done when the network opens. Any failure is
// logged and yields an empty data set; there is no retry.
func Fetch(ctx context.Context, source string, log *zap.Logger) []core.Paper {
	if log == nil {
		log = zap.NewNop()
	}
	papers, err := LoadPapers(ctx, source)
	if err != nil {
		log.Error("failed to fetch papers", zap.String("source", source), zap.Error(err))
		return nil
	}
	log.Info("papers loaded", zap.String("source", source), zap.Int("count", len(papers)))
	return papers
}
