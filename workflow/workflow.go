// Package workflow validates status transitions for orders and contact
// messages. A Machine knows the states of one lifecycle; a Policy decides
// which moves between them are allowed.
package workflow

import (
	"fmt"
	"strings"
)

// ErrUnknownState is returned when a target is not part of the lifecycle.
type ErrUnknownState struct {
	State string
}

func (e *ErrUnknownState) Error() string {
	return fmt.Sprintf("unknown status %q", e.State)
}

// ErrTransitionNotAllowed is returned when the policy rejects a move.
type ErrTransitionNotAllowed struct {
	From, To string
}

func (e *ErrTransitionNotAllowed) Error() string {
	return fmt.Sprintf("transition from %q to %q is not allowed", e.From, e.To)
}

// Machine describes one lifecycle. Sequence is the forward path; states not on
// it (such as cancelled) are side exits.
type Machine[S ~string] struct {
	name     string
	states   []S
	sequence []S
	terminal map[S]bool
}

// NewMachine builds a machine. Every state in sequence and terminal must also
// appear in states.
func NewMachine[S ~string](name string, states, sequence, terminal []S) *Machine[S] {
	t := make(map[S]bool, len(terminal))
	for _, s := range terminal {
		t[s] = true
	}
	return &Machine[S]{name: name, states: states, sequence: sequence, terminal: t}
}

func (m *Machine[S]) Name() string { return m.name }

// States returns the lifecycle states in declaration order.
func (m *Machine[S]) States() []S {
	out := make([]S, len(m.states))
	copy(out, m.states)
	return out
}

func (m *Machine[S]) IsValid(s S) bool {
	for _, st := range m.states {
		if st == s {
			return true
		}
	}
	return false
}

func (m *Machine[S]) IsTerminal(s S) bool { return m.terminal[s] }

// Parse normalises raw input and checks membership.
func (m *Machine[S]) Parse(raw string) (S, error) {
	s := S(strings.ToLower(strings.TrimSpace(raw)))
	if !m.IsValid(s) {
		return "", &ErrUnknownState{State: raw}
	}
	return s, nil
}

// Transition checks that to is a known state and that policy allows the move.
func (m *Machine[S]) Transition(policy Policy, from, to S) error {
	if !m.IsValid(to) {
		return &ErrUnknownState{State: string(to)}
	}
	if policy == nil {
		policy = Permissive{}
	}
	if !policy.Allow(m.describe(), string(from), string(to)) {
		return &ErrTransitionNotAllowed{From: string(from), To: string(to)}
	}
	return nil
}

func (m *Machine[S]) describe() Lifecycle {
	seq := make([]string, len(m.sequence))
	for i, s := range m.sequence {
		seq[i] = string(s)
	}
	term := make(map[string]bool, len(m.terminal))
	for s := range m.terminal {
		term[string(s)] = true
	}
	return Lifecycle{Sequence: seq, Terminal: term}
}

// Lifecycle is the shape of a machine as seen by a Policy.
type Lifecycle struct {
	Sequence []string
	Terminal map[string]bool
}

func (l Lifecycle) position(s string) int {
	for i, st := range l.Sequence {
		if st == s {
			return i
		}
	}
	return -1
}

// Policy decides whether a status may move from one state to another. Both
// states are already known members of the lifecycle.
type Policy interface {
	Allow(l Lifecycle, from, to string) bool
	Name() string
}

// Permissive allows any move, including leaving a terminal state.
type Permissive struct{}

func (Permissive) Allow(Lifecycle, string, string) bool { return true }
func (Permissive) Name() string                         { return "permissive" }

// Strict allows one step forward or back along the sequence, a jump to any
// off-sequence state (cancel) from a non-terminal state, and same-state
// writes. Nothing leaves a terminal state.
type Strict struct{}

func (Strict) Name() string { return "strict" }

func (Strict) Allow(l Lifecycle, from, to string) bool {
	if from == to {
		return true
	}
	if l.Terminal[from] {
		return false
	}
	fi, ti := l.position(from), l.position(to)
	if ti < 0 {
		return true
	}
	if fi < 0 {
		return false
	}
	d := ti - fi
	return d == 1 || d == -1
}

// PolicyByName maps a config value to a policy. Unknown names fall back to
// Permissive.
func PolicyByName(name string) Policy {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "strict":
		return Strict{}
	default:
		return Permissive{}
	}
}
