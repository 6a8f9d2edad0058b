package voice

import "fmt"

// State is the lifecycle of one voice session. Closed is terminal for the
// session but not for the connection: a new start request builds a fresh
// session record.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateReady
	StateActive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// transition validates a state edge. Every state may move to closed; the
// forward edges are idle→connecting→ready→active only.
func transition(from, to State) error {
	if to == StateClosed {
		return nil
	}
	valid := map[State]State{
		StateIdle:       StateConnecting,
		StateConnecting: StateReady,
		StateReady:      StateActive,
	}
	if next, ok := valid[from]; ok && next == to {
		return nil
	}
	return fmt.Errorf("invalid voice state transition %s -> %s", from, to)
}
