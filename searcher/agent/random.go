package agent

import (
	"slices"

	"golang.org/x/exp/rand"

	"treesearch/game"
)

// Random plays a uniformly random legal action.
type Random[S game.State[S, A, P], A any, P comparable] struct {
	identity P
	rng      *rand.Rand
}

func NewRandom[S game.State[S, A, P], A any, P comparable](identity P, opts ...Option) *Random[S, A, P] {
	o := newOptions(ClearCache, opts)
	return &Random[S, A, P]{
		identity: identity,
		rng:      rand.New(rand.NewSource(o.seed)),
	}
}

func (r *Random[S, A, P]) Identity() P {
	return r.identity
}

func (r *Random[S, A, P]) Action(state S) (action A, ok bool) {
	if !mover[S, A](state, r.identity) {
		return action, false
	}
	actions := slices.Collect(state.ValidActions())
	if len(actions) == 0 {
		return action, false
	}
	return actions[r.rng.Intn(len(actions))], true
}
