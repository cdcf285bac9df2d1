package agent

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"treesearch/cache"
	"treesearch/experiments/metrics"
	"treesearch/game"
	"treesearch/searcher"
)

// MCTS runs a fixed number of UCT simulations from every position it is asked
// about, then plays the action with the best mean. Statistics are reset on
// every move.
type MCTS[S game.State[S, A, P], A any, P comparable] struct {
	identity  P
	options   options
	tallies   *cache.Tallies[S]
	selection searcher.Selection[S, A, P]
	rng       *rand.Rand
	last      metrics.SearchMetric
}

func NewMCTS[S game.State[S, A, P], A any, P comparable](identity P, opts ...Option) *MCTS[S, A, P] {
	o := newOptions(ClearCache, opts)
	return &MCTS[S, A, P]{
		identity:  identity,
		options:   o,
		tallies:   cache.NewTallies[S](),
		selection: searcher.UCTSelection[S, A, P](o.exploration),
		rng:       rand.New(rand.NewSource(o.seed)),
	}
}

func (m *MCTS[S, A, P]) Identity() P {
	return m.identity
}

func (m *MCTS[S, A, P]) Action(state S) (action A, ok bool) {
	if !mover[S, A](state, m.identity) {
		return action, false
	}

	collector := m.options.collector
	collector.Start("mcts", 0)
	m.tallies.Clear()
	for i := 0; i < m.options.simulations; i++ {
		searcher.Simulate(m.tallies, state, m.identity, m.selection)
		collector.AddSimulation()
	}
	collector.AddExpansions(m.tallies.Len())

	if m.options.temperature > 0 {
		action, ok = m.sample(state)
	} else {
		action, ok = searcher.UCT[S, A](m.tallies, state, m.identity, 0)
	}
	if !ok {
		return action, false
	}
	value := m.tallies.Read(state.WhatIf(action)).Mean()
	m.last = collector.Complete(m.tallies.Len(), value)

	log.Debug().
		Str("agent", fmt.Sprint(m.identity)).
		Str("algorithm", "mcts").
		Interface("action", action).
		Float64("value", value).
		Int("cache_size", m.tallies.Len()).
		Msg("chose action")
	return action, ok
}

// sample draws an action with probability proportional to visits^(1/t).
func (m *MCTS[S, A, P]) sample(state S) (action A, ok bool) {
	exponent := 1 / m.options.temperature
	var actions []A
	var weights []float64
	sum := 0.0
	for a := range state.ValidActions() {
		w := math.Pow(float64(m.tallies.Read(state.WhatIf(a)).Visits), exponent)
		actions = append(actions, a)
		weights = append(weights, w)
		sum += w
	}
	if len(actions) == 0 {
		return action, false
	}
	if sum == 0 {
		return actions[m.rng.Intn(len(actions))], true
	}

	sampled := m.rng.Float64() * sum
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if sampled < cumulative {
			return actions[i], true
		}
	}
	return actions[len(actions)-1], true // Fallback in case of rounding errors
}

func (m *MCTS[S, A, P]) LastSearch() metrics.SearchMetric {
	return m.last
}
