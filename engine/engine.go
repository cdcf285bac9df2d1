package engine

import "treesearch/experiments/metrics"

type Engine[S any, A any, P comparable] interface {
	// Run plays a game till it ends or a max number of turns is reached
	Run() (Result[S, A, P], error)
}

// Record is one committed move.
type Record[A any, P comparable] struct {
	Agent  P
	Action A
}

type Result[S any, A any, P comparable] struct {
	Final     S
	Winner    P
	HasWinner bool
	Finished  bool // False when the turn limit stopped the game
	Moves     []Record[A, P]
	Game      metrics.GameMetric
	Searches  []metrics.MoveMetric
}

type options struct {
	maxTurns int
}

type Option func(*options)

func WithMaxTurns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxTurns = n
		}
	}
}
