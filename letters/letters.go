// Package letters manages the letters directory: an index.json listing
// letter files, one JSON document per letter.
package letters

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Letter states.
const (
	StateRead    = "read"
	StateNotRead = "not read"
)

// IndexFile is the name of the directory index.
const IndexFile = "index.json"

// ErrNoIndex is returned when a directory has no readable index.
var ErrNoIndex = errors.New("letters index not found")

// Letter is one letter document.
type Letter struct {
	ID      string `json:"id"`
	Time    string `json:"time"` // RFC 3339
	Title   string `json:"title"`
	Content string `json:"content"`
	State   string `json:"state"`

	// File is the index entry the letter was loaded from.
	File string `json:"-"`
}

// Unread reports whether the letter has not been read.
func (l Letter) Unread() bool { return l.State == StateNotRead }

// Timestamp parses Time. Unparseable times are the zero time.
func (l Letter) Timestamp() time.Time {
	t, err := time.Parse(time.RFC3339, l.Time)
	if err != nil {
		return time.Time{}
	}
	return t
}

type index struct {
	Letters []string `json:"letters"`
}

func readIndex(dir string) (index, error) {
	var idx index
	data, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return idx, fmt.Errorf("%w in %s", ErrNoIndex, dir)
		}
		return idx, fmt.Errorf("failed to read letters index: %w", err)
	}
	if err := json.Unmarshal(data, &idx); err != nil {
		return idx, fmt.Errorf("failed to parse letters index: %w", err)
	}
	return idx, nil
}

// LoadAll reads every letter the index lists, newest first. Letter files
// that are missing or malformed are logged and skipped.
func LoadAll(dir string, log *zap.Logger) ([]Letter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	idx, err := readIndex(dir)
	if err != nil {
		return nil, err
	}

	letters := make([]Letter, 0, len(idx.Letters))
	for _, name := range idx.Letters {
		l, err := readLetter(filepath.Join(dir, name))
		if err != nil {
			log.Warn("failed to load letter", zap.String("file", name), zap.Error(err))
			continue
		}
		l.File = name
		letters = append(letters, l)
	}

	slices.SortStableFunc(letters, func(a, b Letter) int {
		return b.Timestamp().Compare(a.Timestamp())
	})
	return letters, nil
}

func readLetter(path string) (Letter, error) {
	var l Letter
	data, err := os.ReadFile(path)
	if err != nil {
		return l, err
	}
	if err := json.Unmarshal(data, &l); err != nil {
		return l, fmt.Errorf("failed to parse letter: %w", err)
	}
	return l, nil
}

// UnreadCount counts letters not yet read.
func UnreadCount(letters []Letter) int {
	n := 0
	for _, l := range letters {
		if l.Unread() {
			n++
		}
	}
	return n
}

// MarkRead returns a copy with the letter id marked read.
func MarkRead(letters []Letter, id string) []Letter {
	out := slices.Clone(letters)
	for i := range out {
		if out[i].ID == id {
			out[i].State = StateRead
		}
	}
	return out
}

// FirstUnread returns the first unread letter in the given order.
func FirstUnread(letters []Letter) (Letter, bool) {
	for _, l := range letters {
		if l.Unread() {
			return l, true
		}
	}
	return Letter{}, false
}

// Find returns the letter with the id.
func Find(letters []Letter, id string) (Letter, bool) {
	for _, l := range letters {
		if l.ID == id {
			return l, true
		}
	}
	return Letter{}, false
}

// New creates an unread letter with a fresh id.
func New(title, content string, now time.Time) Letter {
	return Letter{
		ID:      uuid.NewString(),
		Time:    now.UTC().Format(time.RFC3339),
		Title:   title,
		Content: content,
		State:   StateNotRead,
	}
}

// FileName is the file a letter is stored in: the file it was loaded from,
// or <id>.json for new letters.
func FileName(l Letter) string {
	if l.File != "" {
		return l.File
	}
	return l.ID + ".json"
}

// Save writes the letter file and adds it to the index, creating the index
// when the directory has none.
func Save(dir string, l Letter) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create letters directory: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, FileName(l)), l); err != nil {
		return err
	}

	idx, err := readIndex(dir)
	if err != nil && !errors.Is(err, ErrNoIndex) {
		return err
	}
	if slices.Contains(idx.Letters, FileName(l)) {
		return nil
	}
	idx.Letters = append(idx.Letters, FileName(l))
	return writeJSON(filepath.Join(dir, IndexFile), idx)
}

// Update rewrites an existing letter file in place.
func Update(dir string, l Letter) error {
	return writeJSON(filepath.Join(dir, FileName(l)), l)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
