package playlist

import "slices"

// DefaultVolume is the volume a fresh player starts at.
const DefaultVolume = 0.7

// State is an immutable playback snapshot.
type State struct {
	Current        *Track
	Index          int
	Playlist       []Track
	SelectedGroups []string
	Mode           PlayMode
	Playing        bool
	Volume         float64
}

// NewState returns the idle initial state.
func NewState() State {
	return State{Index: -1, Mode: ModeOrder, Volume: DefaultVolume}
}

// Action is an input to Reduce.
type Action interface{ action() }

type (
	SetPlaying        struct{ Playing bool }
	SetTrack          struct {
		Track *Track
		Index int
	}
	SetPlaylist       struct{ Tracks []Track }
	SetMode           struct{ Mode PlayMode }
	SetVolume         struct{ Volume float64 }
	SetSelectedGroups struct{ Names []string }
	// ToggleGroup selects or deselects a group. Groups supplies the tracks
	// appended when a group becomes selected.
	ToggleGroup struct {
		Name   string
		Groups []Group
	}
	// Reorder moves the track at From to To.
	Reorder struct{ From, To int }
)

func (SetPlaying) action()        {}
func (SetTrack) action()          {}
func (SetPlaylist) action()       {}
func (SetMode) action()           {}
func (SetVolume) action()         {}
func (SetSelectedGroups) action() {}
func (ToggleGroup) action()       {}
func (Reorder) action()           {}

// Reduce applies a to s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetPlaying:
		s.Playing = a.Playing
	case SetTrack:
		s.Current, s.Index = a.Track, a.Index
	case SetPlaylist:
		s.Playlist = a.Tracks
	case SetMode:
		s.Mode = a.Mode
	case SetVolume:
		s.Volume = min(1, max(0, a.Volume))
	case SetSelectedGroups:
		s.SelectedGroups = slices.Clone(a.Names)
	case ToggleGroup:
		if slices.Contains(s.SelectedGroups, a.Name) {
			s.SelectedGroups = slices.DeleteFunc(slices.Clone(s.SelectedGroups),
				func(n string) bool { return n == a.Name })
			s.Playlist = RemoveGroup(s.Playlist, a.Name)
		} else {
			s.SelectedGroups = append(slices.Clone(s.SelectedGroups), a.Name)
			s.Playlist = AddGroup(slices.Clone(s.Playlist), a.Groups, a.Name)
		}
		s = keepCurrent(s)
	case Reorder:
		if a.From < 0 || a.From >= len(s.Playlist) || a.To < 0 || a.To >= len(s.Playlist) {
			return s
		}
		list := slices.Clone(s.Playlist)
		t := list[a.From]
		list = slices.Delete(list, a.From, a.From+1)
		s.Playlist = slices.Insert(list, a.To, t)
		s = keepCurrent(s)
	}
	return s
}

// keepCurrent re-resolves the current track's index after the playlist
// changed, clearing it when the track is gone.
func keepCurrent(s State) State {
	if s.Current == nil {
		return s
	}
	if i := containsTrack(s.Playlist, s.Current.ID); i >= 0 {
		s.Index = i
		return s
	}
	s.Current, s.Index = nil, -1
	return s
}
