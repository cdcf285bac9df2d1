package agent

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"treesearch/cache"
	"treesearch/experiments/metrics"
	"treesearch/game"
	"treesearch/searcher"
)

// AlphaBeta plays the action of an alpha-beta search on a node graph it keeps
// between moves. By default the graph is rebased on every new position, so
// subtrees searched on earlier moves are reused.
type AlphaBeta[S game.State[S, A, P], A any, P comparable] struct {
	identity P
	reward   game.Reward[S, P]
	depth    int
	options  options
	graph    *cache.Graph[S, A, P]
	last     metrics.SearchMetric
}

// NewAlphaBeta searches depth plies ahead, at least one.
func NewAlphaBeta[S game.State[S, A, P], A any, P comparable](identity P, reward game.Reward[S, P], depth int, opts ...Option) *AlphaBeta[S, A, P] {
	return &AlphaBeta[S, A, P]{
		identity: identity,
		reward:   reward,
		depth:    max(depth, 1),
		options:  newOptions(Rebase, opts),
		graph:    cache.NewGraph[S, A, P](),
	}
}

func (a *AlphaBeta[S, A, P]) Identity() P {
	return a.identity
}

func (a *AlphaBeta[S, A, P]) Action(state S) (action A, ok bool) {
	if !mover[S, A](state, a.identity) {
		return action, false
	}

	collector := a.options.collector
	collector.Start("alphabeta", a.depth)
	collector.SetCacheReused(a.prepare(state))

	expansions := a.graph.Expansions()
	e := searcher.AlphaBeta(a.graph, state, a.identity, a.reward, a.depth)
	collector.AddExpansions(a.graph.Expansions() - expansions)
	a.last = collector.Complete(a.graph.Len(), e.Value)

	log.Debug().
		Str("agent", fmt.Sprint(a.identity)).
		Str("algorithm", "alphabeta").
		Interface("action", e.Action).
		Float64("value", e.Value).
		Stringer("bound", e.Bound).
		Int("cache_size", a.graph.Len()).
		Msg("chose action")
	return e.Action, e.HasAction
}

// prepare applies the cache policy and reports whether earlier work survives.
func (a *AlphaBeta[S, A, P]) prepare(state S) bool {
	switch a.options.policy {
	case ClearCache:
		a.graph.Clear()
		return false
	case KeepCache:
		return a.graph.Len() > 0
	}
	id, ok := a.graph.Lookup(state)
	if !ok {
		a.graph.Clear()
		return false
	}
	a.graph.Rebase(id)
	return true
}

func (a *AlphaBeta[S, A, P]) LastSearch() metrics.SearchMetric {
	return a.last
}
