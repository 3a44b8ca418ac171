package domain

import "fmt"

// State is a step of the container lifecycle.
type State string

const (
	StateConfigured        State = "configured"
	StateCreating          State = "creating"
	StateCreated           State = "created"
	StateStarting          State = "starting"
	StateAwaitingReadiness State = "awaiting_readiness"
	StateReady             State = "ready"
	StateStopping          State = "stopping"
	StateRemoved           State = "removed"
	StateFailed            State = "failed"
)

var transitions = map[State][]State{
	StateConfigured:        {StateCreating, StateFailed},
	StateCreating:          {StateCreated, StateFailed},
	StateCreated:           {StateStarting, StateFailed},
	StateStarting:          {StateAwaitingReadiness, StateFailed},
	StateAwaitingReadiness: {StateReady, StateFailed},
	StateReady:             {StateStopping, StateFailed},
	StateStopping:          {StateRemoved, StateFailed},
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateRemoved || s == StateFailed
}

// CanTransition reports whether the lifecycle allows moving from s to next.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition validates the move from s to next.
func (s State) Transition(next State) (State, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s, next)
	}
	return next, nil
}
