package searcher

import (
	"treesearch/cache"
	"treesearch/game"
)

// Minmax searches state depth plies deep and returns its value for agent with
// the action achieving it. Results are memoized in table; an entry answers a
// query only if it was computed at least as deep. Ties go to the first action
// in ValidActions order.
func Minmax[S game.State[S, A, P], A any, P comparable](table *cache.Table[S, A], state S, agent P, reward game.Reward[S, P], depth int) cache.Entry[A] {
	if e, ok := table.Lookup(state, depth); ok {
		return e
	}
	e, ok := leaf[S, A](state, agent, reward, depth)
	if !ok {
		maximize := state.Turn() == agent
		e = cache.Entry[A]{Depth: depth}
		for action := range state.ValidActions() {
			child := Minmax(table, state.WhatIf(action), agent, reward, depth-1)
			if !e.HasAction || better(child.Value, e.Value, maximize) {
				e.Value, e.Action, e.HasAction = child.Value, action, true
			}
		}
		if !e.HasAction {
			e.Value = reward(state, agent)
		}
	}
	table.Store(state, e)
	return e
}

// DepthFirst scores state for agent by exhaustive minmax down to every
// terminal position: 1 for a forced win, -1 for a forced loss and 0 otherwise.
// It memoizes nothing and suits only small games, where it serves as an exact
// Reward.
func DepthFirst[S game.State[S, A, P], A any, P comparable](state S, agent P) float64 {
	if state.IsTerminal() {
		return game.Outcome[S, A](state, agent, 1, -1, 0)
	}
	maximize := state.Turn() == agent
	var value float64
	first := true
	for action := range state.ValidActions() {
		v := DepthFirst[S, A](state.WhatIf(action), agent)
		if first || better(v, value, maximize) {
			value, first = v, false
		}
	}
	return value
}

// Prune drops every entry of table whose position is not reachable from state
// within depth plies.
func Prune[S game.State[S, A, P], A any, P comparable](table *cache.Table[S, A], state S, depth int) {
	reachable := make(map[S]int)
	var visit func(s S, depth int)
	visit = func(s S, depth int) {
		if seen, ok := reachable[s]; ok && seen >= depth {
			return
		}
		reachable[s] = depth
		if depth == 0 || s.IsTerminal() {
			return
		}
		for action := range s.ValidActions() {
			visit(s.WhatIf(action), depth-1)
		}
	}
	visit(state, depth)
	table.Retain(func(s S) bool {
		_, ok := reachable[s]
		return ok
	})
}
