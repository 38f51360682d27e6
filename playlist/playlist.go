// Package playlist is the background music player's playback state: which
// groups are selected, the ordered track list built from them, the current
// track and the play mode. It does not decode audio.
package playlist

import (
	"fmt"
	"math/rand"
)

// Track is one entry of the music index.
type Track struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist,omitempty"`
	Filename string  `json:"filename"`
	Group    string  `json:"group"`
	Duration float64 `json:"duration,omitempty"` // seconds
}

// Group is a named collection of tracks.
type Group struct {
	Name   string  `json:"name"`
	Tracks []Track `json:"tracks"`
}

// PlayMode decides which track follows the current one.
type PlayMode int

const (
	ModeOrder PlayMode = iota
	ModeRandom
	ModeRepeatOne
)

func (m PlayMode) String() string {
	switch m {
	case ModeOrder:
		return "order"
	case ModeRandom:
		return "random"
	case ModeRepeatOne:
		return "repeat-one"
	default:
		return "unknown"
	}
}

// Next cycles order → random → repeat-one → order.
func (m PlayMode) Next() PlayMode {
	return (m + 1) % 3
}

// ParseMode parses a mode name.
func ParseMode(s string) (PlayMode, error) {
	switch s {
	case "order", "":
		return ModeOrder, nil
	case "random":
		return ModeRandom, nil
	case "repeat-one":
		return ModeRepeatOne, nil
	}
	return ModeOrder, fmt.Errorf("unknown play mode %q", s)
}

// BuildPlaylist concatenates the tracks of the selected groups in selection
// order. Unknown names are skipped.
func BuildPlaylist(groups []Group, selected []string) []Track {
	var out []Track
	for _, name := range selected {
		if g, ok := findGroup(groups, name); ok {
			out = append(out, g.Tracks...)
		}
	}
	return out
}

// AddGroup moves the group's tracks to the end of the playlist.
func AddGroup(playlist []Track, groups []Group, name string) []Track {
	g, ok := findGroup(groups, name)
	if !ok {
		return playlist
	}
	return append(RemoveGroup(playlist, name), g.Tracks...)
}

// RemoveGroup drops every track of the group, keeping the rest in order.
func RemoveGroup(playlist []Track, name string) []Track {
	out := make([]Track, 0, len(playlist))
	for _, t := range playlist {
		if t.Group != name {
			out = append(out, t)
		}
	}
	return out
}

// Shuffle returns a Fisher-Yates shuffled copy.
func Shuffle(tracks []Track, rng *rand.Rand) []Track {
	out := append([]Track(nil), tracks...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// NextTrack picks the index that follows index under mode. An empty
// playlist yields -1.
func NextTrack(playlist []Track, index int, mode PlayMode, rng *rand.Rand) int {
	if len(playlist) == 0 {
		return -1
	}
	switch mode {
	case ModeRepeatOne:
		if index < 0 || index >= len(playlist) {
			return 0
		}
		return index
	case ModeRandom:
		return rng.Intn(len(playlist))
	default:
		return (index + 1) % len(playlist)
	}
}

// PreviousTrack steps back one track, wrapping to the last.
func PreviousTrack(playlist []Track, index int) int {
	if len(playlist) == 0 {
		return -1
	}
	if index <= 0 || index > len(playlist) {
		return len(playlist) - 1
	}
	return index - 1
}

// FormatDuration renders seconds as m:ss.
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	s := int(seconds)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

func findGroup(groups []Group, name string) (Group, bool) {
	for _, g := range groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

func containsTrack(playlist []Track, id string) int {
	for i, t := range playlist {
		if t.ID == id {
			return i
		}
	}
	return -1
}
