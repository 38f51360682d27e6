package network

// Mode represents the current drag state
type Mode int

const (
	ModeIdle     Mode = iota // No node held
	ModeDragging             // A node is held and follows the pointer
)

// String returns the mode name for display
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeDragging:
		return "DRAGGING"
	default:
		return "UNKNOWN"
	}
}

// Effect is a side effect requested by a transition. The reducer never
// touches timers itself; the owner of the state carries effects out.
type Effect int

const (
	EffectNone       Effect = iota
	EffectArmSettle         // (re)start the settle timer for the dragged node
)
