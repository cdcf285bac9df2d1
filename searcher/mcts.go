package searcher

import (
	"math"

	"treesearch/cache"
	"treesearch/game"
)

// Selection picks the action to follow from state during a simulation. ok is
// false when the simulation should stop, which only happens at terminal
// positions.
type Selection[S comparable, A any, P comparable] func(tallies *cache.Tallies[S], state S, agent P) (action A, ok bool)

// Simulate plays one game from state, choosing every action with selection,
// and scores the final position for agent: a win samples (1, 1), a loss
// (-1, 1) and a draw (0, 1). The sample is added to the tally of every
// position visited on the way.
func Simulate[S game.State[S, A, P], A any, P comparable](tallies *cache.Tallies[S], state S, agent P, selection Selection[S, A, P]) cache.Tally {
	var sample cache.Tally
	if action, ok := selection(tallies, state, agent); ok {
		sample = Simulate(tallies, state.WhatIf(action), agent, selection)
	} else {
		sample = cache.Tally{Score: game.Outcome[S, A](state, agent, 1, -1, 0), Visits: 1}
	}
	tallies.Add(state, sample)
	return sample
}

// UCT picks the action of state with the highest upper confidence bound. An
// action leading to an unvisited position is always picked before any visited
// one. The mean score counts against agent on its opponent's turns, while the
// exploration term always counts in favor. Ties go to the first action in
// ValidActions order; ok is false when state has no action.
func UCT[S game.State[S, A, P], A any, P comparable](tallies *cache.Tallies[S], state S, agent P, exploration float64) (best A, ok bool) {
	total := 0
	for action := range state.ValidActions() {
		total += tallies.Read(state.WhatIf(action)).Visits
	}
	logTotal := math.Log(float64(total))
	sign := 1.0
	if state.Turn() != agent {
		sign = -1
	}

	bestScore := math.Inf(-1)
	for action := range state.ValidActions() {
		t := tallies.Read(state.WhatIf(action))
		score := math.Inf(1)
		if t.Visits > 0 {
			n := float64(t.Visits)
			score = sign*t.Score/n + exploration*math.Sqrt(logTotal/n)
		}
		if !ok || cache.Compare(score, bestScore) > 0 {
			best, bestScore, ok = action, score, true
		}
	}
	return best, ok
}

// UCTSelection adapts UCT with a fixed exploration constant for Simulate.
func UCTSelection[S game.State[S, A, P], A any, P comparable](exploration float64) Selection[S, A, P] {
	return func(tallies *cache.Tallies[S], state S, agent P) (A, bool) {
		return UCT[S, A](tallies, state, agent, exploration)
	}
}
