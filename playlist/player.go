package playlist

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"choopy/importer"

	"go.uber.org/zap"
)

// VolumeStep is how much one volume key press changes the volume.
const VolumeStep = 0.1

// Player drives a State with the group catalogue it was loaded with. It is
// safe for concurrent use.
type Player struct {
	mu     sync.Mutex
	state  State
	groups []Group
	rng    *rand.Rand
	log    *zap.Logger
}

// NewPlayer creates a player over groups with the first group selected. A
// nil rng seeds one from the clock; a nil logger discards.
func NewPlayer(groups []Group, rng *rand.Rand, log *zap.Logger) *Player {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if log == nil {
		log = zap.NewNop()
	}
	p := &Player{state: NewState(), groups: groups, rng: rng, log: log}
	if len(groups) > 0 {
		p.SetGroups([]string{groups[0].Name})
	}
	return p
}

// State returns the current snapshot.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Groups returns the catalogue.
func (p *Player) Groups() []Group {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.groups
}

func (p *Player) dispatch(actions ...Action) {
	for _, a := range actions {
		p.state = Reduce(p.state, a)
	}
}

func (p *Player) trackAt(i int) *Track {
	if i < 0 || i >= len(p.state.Playlist) {
		return nil
	}
	t := p.state.Playlist[i]
	return &t
}

// Play resumes the current track, or starts the first one when nothing is
// current. An empty playlist stays stopped.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Current == nil {
		t := p.trackAt(0)
		if t == nil {
			return
		}
		p.dispatch(SetTrack{Track: t, Index: 0})
	}
	p.dispatch(SetPlaying{Playing: true})
	p.log.Debug("play", zap.String("track", p.state.Current.Title))
}

// Pause stops playback, keeping the current track.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dispatch(SetPlaying{Playing: false})
}

// Toggle switches between Play and Pause.
func (p *Player) Toggle() {
	if p.State().Playing {
		p.Pause()
		return
	}
	p.Play()
}

// Next advances according to the play mode.
func (p *Player) Next() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jump(NextTrack(p.state.Playlist, p.state.Index, p.state.Mode, p.rng))
}

// Previous steps back one track.
func (p *Player) Previous() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jump(PreviousTrack(p.state.Playlist, p.state.Index))
}

// Ended is called when the current track finishes. Repeat-one keeps the
// track; other modes advance.
func (p *Player) Ended() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Mode == ModeRepeatOne {
		return
	}
	p.jump(NextTrack(p.state.Playlist, p.state.Index, p.state.Mode, p.rng))
}

func (p *Player) jump(i int) {
	if t := p.trackAt(i); t != nil {
		p.dispatch(SetTrack{Track: t, Index: i})
	}
}

// SetGroups replaces the selection and rebuilds the playlist from it. The
// current track is dropped if the new playlist no longer holds it.
func (p *Player) SetGroups(names []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dispatch(
		SetSelectedGroups{Names: names},
		SetPlaylist{Tracks: BuildPlaylist(p.groups, names)},
	)
	p.state = keepCurrent(p.state)
}

// ToggleGroup selects or deselects one group.
func (p *Player) ToggleGroup(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dispatch(ToggleGroup{Name: name, Groups: p.groups})
}

// CycleMode switches to the next play mode.
func (p *Player) CycleMode() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dispatch(SetMode{Mode: p.state.Mode.Next()})
}

// SetMode sets the play mode.
func (p *Player) SetMode(m PlayMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dispatch(SetMode{Mode: m})
}

// Volume adjusts the volume by delta, clamped to [0, 1].
func (p *Player) Volume(delta float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dispatch(SetVolume{Volume: p.state.Volume + delta})
}

// SetVolume sets the volume, clamped to [0, 1].
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dispatch(SetVolume{Volume: v})
}

// Status is the one-line summary shown in the terminal's status row.
func (p *Player) Status() string {
	s := p.State()
	if s.Current == nil {
		if len(s.Playlist) == 0 {
			return "♪ no music"
		}
		return fmt.Sprintf("♪ %d tracks [%s] vol %d%%", len(s.Playlist), s.Mode, volumePercent(s.Volume))
	}
	var b strings.Builder
	if s.Playing {
		b.WriteString("▶ ")
	} else {
		b.WriteString("⏸ ")
	}
	b.WriteString(s.Current.Title)
	if s.Current.Artist != "" {
		b.WriteString(" - ")
		b.WriteString(s.Current.Artist)
	}
	if s.Current.Duration > 0 {
		b.WriteString(" (" + FormatDuration(s.Current.Duration) + ")")
	}
	fmt.Fprintf(&b, " [%s] vol %d%%", s.Mode, volumePercent(s.Volume))
	return b.String()
}

func volumePercent(v float64) int {
	return int(v*100 + 0.5)
}

type index struct {
	Groups []Group `json:"groups"`
}

// LoadIndex reads a music index, {"groups": [...]}, from a file or URL.
func LoadIndex(ctx context.Context, source string) ([]Group, error) {
	data, err := importer.Read(ctx, source)
	if err != nil {
		return nil, err
	}
	var idx index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("failed to parse music index: %w", err)
	}
	return idx.Groups, nil
}

// FetchIndex is LoadIndex for startup: failures are logged and yield no
// groups.
func FetchIndex(ctx context.Context, source string, log *zap.Logger) []Group {
	if log == nil {
		log = zap.NewNop()
	}
	if source == "" {
		return nil
	}
	groups, err := LoadIndex(ctx, source)
	if err != nil {
		log.Warn("failed to load music index", zap.String("source", source), zap.Error(err))
		return nil
	}
	log.Info("music index loaded", zap.String("source", source), zap.Int("groups", len(groups)))
	return groups
}
