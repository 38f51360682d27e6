// Package importer loads the static data sets the network and the player
// read at startup, from a local file or over HTTP.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"choopy/core"
)

var (
	// ErrInvalidPaper is returned for records that cannot become bubbles.
	ErrInvalidPaper = errors.New("invalid paper record")
	// ErrStatus is returned for non-2xx HTTP responses.
	ErrStatus = errors.New("unexpected HTTP status")
)

// DefaultClient is used for http(s) sources.
var DefaultClient = &http.Client{Timeout: 10 * time.Second}

// Decoder converts raw bytes into paper records.
type Decoder interface {
	// Decode parses the content
	Decode(data []byte) ([]core.Paper, error)

	// FormatName returns the human-readable name of the format
	FormatName() string

	// FileExtensions returns common file extensions for this format
	FileExtensions() []string
}

// Registry picks a decoder by file extension.
type Registry struct {
	decoders []Decoder
}

// NewRegistry returns a registry with the JSON and YAML decoders. JSON is
// the fallback when nothing matches.
func NewRegistry() *Registry {
	return &Registry{decoders: []Decoder{JSONDecoder{}, YAMLDecoder{}}}
}

// Register adds a decoder.
func (r *Registry) Register(d Decoder) {
	r.decoders = append(r.decoders, d)
}

// ForSource returns the decoder matching the source's extension.
func (r *Registry) ForSource(source string) Decoder {
	ext := strings.ToLower(path.Ext(stripQuery(source)))
	for _, d := range r.decoders {
		for _, e := range d.FileExtensions() {
			if e == ext {
				return d
			}
		}
	}
	return r.decoders[0]
}

// IsURL reports whether source is fetched over HTTP.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func stripQuery(source string) string {
	if i := strings.IndexAny(source, "?#"); i >= 0 {
		return source[:i]
	}
	return source
}

// Read returns the raw content of a file path or http(s) URL.
func Read(ctx context.Context, source string) ([]byte, error) {
	if !IsURL(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", source, err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", source, err)
	}
	resp, err := DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrStatus, source, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", source, err)
	}
	return data, nil
}
