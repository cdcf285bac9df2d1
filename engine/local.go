package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"treesearch/experiments/metrics"
	"treesearch/game"
	"treesearch/meta"
	"treesearch/searcher/agent"
)

// Local alternates two agents on one position, applying their actions in
// place.
type Local[S game.State[S, A, P], A any, P comparable, M game.Mutable[S, A]] struct {
	state    S
	agents   map[P]agent.Agent[S, A, P]
	maxTurns int
}

func NewLocal[S game.State[S, A, P], A any, P comparable, M game.Mutable[S, A]](initial S, first, second agent.Agent[S, A, P], opts ...Option) *Local[S, A, P, M] {
	if first.Identity() == second.Identity() {
		panic(fmt.Sprintf("both agents play as %v", first.Identity()))
	}
	o := options{maxTurns: meta.MaxTurns}
	for _, option := range opts {
		option(&o)
	}
	return &Local[S, A, P, M]{
		state: initial,
		agents: map[P]agent.Agent[S, A, P]{
			first.Identity():  first,
			second.Identity(): second,
		},
		maxTurns: o.maxTurns,
	}
}

func (l *Local[S, A, P, M]) State() S {
	return l.state
}

// Run executes the game loop until the game ends or the turn limit is hit.
// An agent without an action in a live game, or with an illegal one, ends the
// game with an error.
func (l *Local[S, A, P, M]) Run() (Result[S, A, P], error) {
	result := Result[S, A, P]{}
	result.Game.StartTime = time.Now()
	result.Game.FirstMover = fmt.Sprint(l.state.Turn())

	log.Info().Msgf("agent %v is starting", l.state.Turn())

	for step := 1; !l.state.IsTerminal() && step <= l.maxTurns; step++ {
		mover := l.state.Turn()
		current, ok := l.agents[mover]
		if !ok {
			return result, fmt.Errorf("no agent plays as %v", mover)
		}

		action, ok := current.Action(l.state)
		if !ok {
			return result, fmt.Errorf("agent %v returned no action at step %d", mover, step)
		}
		if !M(&l.state).Update(action) {
			return result, fmt.Errorf("agent %v played illegal action %v at step %d", mover, action, step)
		}

		result.Moves = append(result.Moves, Record[A, P]{Agent: mover, Action: action})
		if measured, ok := current.(agent.Measured); ok {
			result.Searches = append(result.Searches, metrics.MoveMetric{
				Step:         step,
				Agent:        fmt.Sprint(mover),
				SearchMetric: measured.LastSearch(),
			})
		}
		log.Debug().Int("step", step).Str("agent", fmt.Sprint(mover)).Msgf("played %v", action)
	}

	result.Final = l.state
	result.Finished = l.state.IsTerminal()
	result.Winner, result.HasWinner = l.state.Winner()
	result.Game.EndTime = time.Now()
	result.Game.Duration = result.Game.EndTime.Sub(result.Game.StartTime)
	result.Game.TotalMoves = len(result.Moves)
	if result.HasWinner {
		result.Game.Winner = fmt.Sprint(result.Winner)
	}

	switch {
	case result.HasWinner:
		log.Info().Msgf("game ended with winner %v after %d moves", result.Winner, len(result.Moves))
	case result.Finished:
		log.Info().Msgf("game ended in a draw after %d moves", len(result.Moves))
	default:
		log.Info().Msgf("stopped after %d turns (no winner yet)", l.maxTurns)
	}
	return result, nil
}
