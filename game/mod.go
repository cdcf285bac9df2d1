package game

import "iter"

// State is the contract every game must satisfy to be searched.
//
// S is the concrete position type. It must be comparable: two equal values
// represent the same position for every search purpose, which lets caches key
// on content rather than identity. A is the action type and P identifies the
// agent on turn.
//
// State values should be immutable - WhatIf always returns a new copy.
type State[S any, A any, P comparable] interface {
	comparable
	// WhatIf returns the position reached by playing a, leaving the receiver untouched.
	WhatIf(a A) S
	// ValidActions enumerates the legal actions of the agent on turn. The
	// sequence is finite and can be ranged over more than once. It is empty iff
	// no agent can move.
	ValidActions() iter.Seq[A]
	IsValid(a A) bool
	IsTerminal() bool
	Turn() P
	// Winner reports the winning agent of a terminal position. ok is false for
	// a draw or a position still in play.
	Winner() (winner P, ok bool)
}

// Mutable is implemented by pointers to positions that can be updated in
// place. Update returns false, leaving the position unchanged, when a is not
// legal.
type Mutable[S any, A any] interface {
	*S
	Update(a A) bool
}

// Reward scores a position from the perspective of agent. It is evaluated only
// at the search frontier.
type Reward[S any, P comparable] func(state S, agent P) float64

// Outcome scores a terminal position relative to agent: win for a victory,
// loss for a defeat, draw otherwise.
func Outcome[S State[S, A, P], A any, P comparable](state S, agent P, win, loss, draw float64) float64 {
	winner, ok := state.Winner()
	if !ok {
		return draw
	}
	if winner == agent {
		return win
	}
	return loss
}
