package searcher

import (
	"math"

	"treesearch/cache"
	"treesearch/game"
)

// AlphaBeta returns the same value as Minmax at equal depth while pruning
// subtrees that cannot change it. Search results persist in the nodes of g,
// so successive calls on one graph reuse earlier work. Children are visited
// best-first by their stored values.
//
// A result cut off by the window is stored as a bound and reused only when it
// proves a cutoff again. The root is always searched with exact child values,
// so ties go to the first action in ValidActions order as with Minmax.
//
// A position repeating on the search path panics with cache.ErrReentrant.
func AlphaBeta[S game.State[S, A, P], A any, P comparable](g *cache.Graph[S, A, P], state S, agent P, reward game.Reward[S, P], depth int) cache.Entry[A] {
	id := g.GetOrCreate(state)
	n := g.Acquire(id)
	defer g.Release(id)

	if e, ok := leaf[S, A](state, agent, reward, depth); ok {
		n.Store(e)
		return e
	}

	maximize := n.Turn() == agent
	g.SortChildren(id, maximize)
	n.Reset()
	alpha, beta := math.Inf(-1), math.Inf(1)
	e := cache.Entry[A]{Depth: depth}
	index := 0
	for edge, ok := g.Next(id); ok; edge, ok = g.Next(id) {
		// Widen the bound by one ulp so a child tying the best value comes
		// back exact.
		lo, hi := alpha, beta
		if maximize {
			lo = math.Nextafter(alpha, math.Inf(-1))
		} else {
			hi = math.Nextafter(beta, math.Inf(1))
		}
		child := alphaBeta(g, edge.Child, agent, reward, depth-1, lo, hi)
		tie := e.HasAction && cache.Compare(child.Value, e.Value) == 0 && edge.Index < index
		if !e.HasAction || better(child.Value, e.Value, maximize) || tie {
			e.Value, e.Action, e.HasAction = child.Value, edge.Action, true
			index = edge.Index
		}
		if maximize {
			alpha = max(alpha, e.Value)
		} else {
			beta = min(beta, e.Value)
		}
	}
	if !e.HasAction {
		e.Value = reward(state, agent)
	}
	n.Store(e)
	return e
}

func alphaBeta[S game.State[S, A, P], A any, P comparable](g *cache.Graph[S, A, P], id cache.NodeID, agent P, reward game.Reward[S, P], depth int, alpha, beta float64) cache.Entry[A] {
	n := g.Acquire(id)
	defer g.Release(id)

	if e, ok := n.Entry(); ok && e.Covers(depth) {
		switch {
		case e.Bound == cache.Exact,
			e.Bound == cache.Lower && e.Value >= beta,
			e.Bound == cache.Upper && e.Value <= alpha:
			return e
		}
	}
	if e, ok := leaf[S, A](n.State(), agent, reward, depth); ok {
		n.Store(e)
		return e
	}

	maximize := n.Turn() == agent
	g.SortChildren(id, maximize)
	n.Reset()
	a, b := alpha, beta
	e := cache.Entry[A]{Depth: depth}
	for edge, ok := g.Next(id); ok; edge, ok = g.Next(id) {
		child := alphaBeta(g, edge.Child, agent, reward, depth-1, a, b)
		if !e.HasAction || better(child.Value, e.Value, maximize) {
			e.Value, e.Action, e.HasAction = child.Value, edge.Action, true
		}
		if maximize {
			a = max(a, e.Value)
		} else {
			b = min(b, e.Value)
		}
		if a >= b {
			break
		}
	}
	switch {
	case !e.HasAction:
		e.Value = reward(n.State(), agent)
	case e.Value <= alpha:
		e.Bound = cache.Upper
	case e.Value >= beta:
		e.Bound = cache.Lower
	}
	n.Store(e)
	return e
}
