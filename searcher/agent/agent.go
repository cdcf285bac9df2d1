// Package agent wraps the searchers into players that own their caches across
// the moves of one game.
package agent

import (
	"errors"
	"fmt"
	"time"

	"treesearch/experiments/metrics"
	"treesearch/game"
	"treesearch/meta"
)

var ErrNotMover = errors.New("agent is not on turn")

type Agent[S any, A any, P comparable] interface {
	Identity() P
	// Action chooses the next action in state. ok is false when the game offers
	// no action, which is not an error.
	Action(state S) (action A, ok bool)
}

// Measured is implemented by agents that report the cost of their last search.
type Measured interface {
	LastSearch() metrics.SearchMetric
}

// CachePolicy decides what a searching agent keeps from one move to the next.
type CachePolicy int

const (
	// Rebase keeps only the results still reachable from the new position.
	Rebase CachePolicy = iota
	ClearCache
	KeepCache
)

func (p CachePolicy) String() string {
	switch p {
	case ClearCache:
		return "clear"
	case KeepCache:
		return "keep"
	}
	return "rebase"
}

// ParseCachePolicy is the inverse of CachePolicy.String.
func ParseCachePolicy(s string) (CachePolicy, error) {
	for _, p := range []CachePolicy{Rebase, ClearCache, KeepCache} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown cache policy %q", s)
}

type options struct {
	policy      CachePolicy
	exploration float64
	simulations int
	temperature float64
	seed        uint64
	collector   metrics.Collector
}

type Option func(*options)

func WithCachePolicy(policy CachePolicy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

func WithExploration(c float64) Option {
	return func(o *options) {
		if c >= 0 {
			o.exploration = c
		}
	}
}

func WithSimulations(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.simulations = n
		}
	}
}

// WithTemperature makes the MCTS agent sample its action in proportion to
// visits^(1/t) instead of taking the best mean.
func WithTemperature(t float64) Option {
	return func(o *options) {
		if t > 0 {
			o.temperature = t
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

func WithMetrics() Option {
	return func(o *options) {
		o.collector = metrics.NewCollector()
	}
}

func newOptions(policy CachePolicy, opts []Option) options {
	o := options{ // Default values
		policy:      policy,
		exploration: meta.Exploration,
		simulations: meta.Simulations,
		seed:        uint64(time.Now().UnixNano()),
		collector:   metrics.NewDummyCollector(),
	}
	for _, option := range opts {
		option(&o)
	}
	return o
}

// mover reports whether identity has an action to choose in state, and panics
// with ErrNotMover if the game is on but another agent is on turn.
func mover[S game.State[S, A, P], A any, P comparable](state S, identity P) bool {
	if state.IsTerminal() {
		return false
	}
	if turn := state.Turn(); turn != identity {
		panic(fmt.Errorf("%w: %v asked to act while %v is on turn", ErrNotMover, identity, turn))
	}
	return true
}
