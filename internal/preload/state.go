package preload

// State is a step of one login attempt.
type State string

const (
	StateIdle       State = "idle"
	StateFanningOut State = "fanning-out"
	StateJoined     State = "joined"
	StateCommitted  State = "committed"
	StateRejected   State = "rejected"
	StateFailed     State = "failed"
)

// IsTerminal reports whether no further transition can happen.
func (s State) IsTerminal() bool {
	return s == StateCommitted || s == StateRejected || s == StateFailed
}

var transitions = map[State][]State{
	StateIdle:       {StateFanningOut, StateFailed},
	StateFanningOut: {StateJoined, StateFailed},
	StateJoined:     {StateCommitted, StateRejected, StateFailed},
}

// CanTransition reports whether next may follow s.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
