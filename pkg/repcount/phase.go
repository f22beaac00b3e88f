package repcount

type Phase string

const (
	PhaseUnknown  Phase = "UNKNOWN"
	PhaseStarting Phase = "STARTING"
	PhaseDown     Phase = "DOWN"
	PhaseUp       Phase = "UP"
	// PhasePartial is reserved for incomplete range of motion. No transition
	// produces it yet.
	PhasePartial Phase = "PARTIAL"
)

func (p Phase) String() string {
	return string(p)
}

// Label is the human readable text shown next to the rep counter.
func (p Phase) Label() string {
	switch p {
	case PhaseDown:
		return "Down Position"
	case PhaseUp:
		return "Up Position"
	case PhasePartial:
		return "Partial Rep"
	case PhaseStarting:
		return "Get Ready"
	default:
		return "Waiting For Pose"
	}
}

func (p Phase) initial() bool {
	return p == PhaseUnknown || p == PhaseStarting || p == ""
}
