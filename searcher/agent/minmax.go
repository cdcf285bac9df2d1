package agent

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"treesearch/cache"
	"treesearch/experiments/metrics"
	"treesearch/game"
	"treesearch/searcher"
)

// Minmax plays the action of a depth-limited minmax search on a transposition
// table. Its default policy clears the table before every move; Rebase prunes
// it to the positions reachable within the search depth.
type Minmax[S game.State[S, A, P], A any, P comparable] struct {
	identity P
	reward   game.Reward[S, P]
	depth    int
	options  options
	table    *cache.Table[S, A]
	last     metrics.SearchMetric
}

// NewMinmax searches depth plies ahead, at least one.
func NewMinmax[S game.State[S, A, P], A any, P comparable](identity P, reward game.Reward[S, P], depth int, opts ...Option) *Minmax[S, A, P] {
	return &Minmax[S, A, P]{
		identity: identity,
		reward:   reward,
		depth:    max(depth, 1),
		options:  newOptions(ClearCache, opts),
		table:    cache.NewTable[S, A](),
	}
}

func (m *Minmax[S, A, P]) Identity() P {
	return m.identity
}

func (m *Minmax[S, A, P]) Action(state S) (action A, ok bool) {
	if !mover[S, A](state, m.identity) {
		return action, false
	}

	collector := m.options.collector
	collector.Start("minmax", m.depth)
	switch m.options.policy {
	case ClearCache:
		m.table.Clear()
	case Rebase:
		searcher.Prune(m.table, state, m.depth)
	}
	collector.SetCacheReused(m.table.Len() > 0)

	stores := m.table.Stores()
	e := searcher.Minmax(m.table, state, m.identity, m.reward, m.depth)
	collector.AddExpansions(m.table.Stores() - stores)
	m.last = collector.Complete(m.table.Len(), e.Value)

	log.Debug().
		Str("agent", fmt.Sprint(m.identity)).
		Str("algorithm", "minmax").
		Interface("action", e.Action).
		Float64("value", e.Value).
		Int("cache_size", m.table.Len()).
		Msg("chose action")
	return e.Action, e.HasAction
}

func (m *Minmax[S, A, P]) LastSearch() metrics.SearchMetric {
	return m.last
}
