// Package searcher implements adversarial search over any game.State: minmax
// on a flat transposition table, alpha-beta on a node graph, and Monte-Carlo
// tree search with UCT selection.
//
// All values are taken from the perspective of one agent, which maximizes on
// its own turns while its opponent minimizes.
package searcher

import (
	"fmt"
	"math"

	"treesearch/cache"
	"treesearch/game"
)

const (
	Win  = math.MaxFloat64
	Loss = -math.MaxFloat64
	Draw = 0.0
)

var ErrNaN = cache.ErrNaN

// TerminalScore scores a finished game relative to agent. Scores are finite so
// that a position whose every action loses still records a best action.
func TerminalScore[S game.State[S, A, P], A any, P comparable](state S, agent P) float64 {
	return game.Outcome[S, A](state, agent, Win, Loss, Draw)
}

// better reports whether v improves on best for the agent maximizing or
// minimizing.
func better(v, best float64, maximize bool) bool {
	c := cache.Compare(v, best)
	if maximize {
		return c > 0
	}
	return c < 0
}

// leaf evaluates positions the search does not expand. ok is false when the
// position must be searched further.
func leaf[S game.State[S, A, P], A any, P comparable](state S, agent P, reward game.Reward[S, P], depth int) (e cache.Entry[A], ok bool) {
	switch {
	case state.IsTerminal():
		return cache.Entry[A]{Value: TerminalScore[S, A](state, agent), Depth: cache.MaxDepth}, true
	case depth <= 0:
		v := reward(state, agent)
		if math.IsNaN(v) {
			panic(fmt.Errorf("%w: reward of %v", ErrNaN, state))
		}
		return cache.Entry[A]{Value: v}, true
	}
	return e, false
}
