package cache

import (
	"fmt"
	"iter"
	"slices"

	"treesearch/game"
)

// NodeID indexes a node in a Graph.
type NodeID int

// Edge links a node to the child reached by Action. Index is the position of
// Action in the legal action order and survives SortChildren.
type Edge[A any] struct {
	Action A
	Child  NodeID
	Index  int
}

// Node memoizes the search result of one position and the children expanded
// from it so far.
type Node[S game.State[S, A, P], A any, P comparable] struct {
	state   S
	turn    P
	actions iter.Seq[A]

	children  []Edge[A]
	cursor    int
	pending   []A // Legal actions, collected on first expansion
	collected bool
	exhausted bool

	entry     Entry[A]
	evaluated bool
	busy      bool
}

func (n *Node[S, A, P]) State() S {
	return n.state
}

func (n *Node[S, A, P]) Turn() P {
	return n.turn
}

// Entry returns the stored result, ok is false until one is stored.
func (n *Node[S, A, P]) Entry() (e Entry[A], ok bool) {
	return n.entry, n.evaluated
}

func (n *Node[S, A, P]) Store(e Entry[A]) {
	n.entry = e
	n.evaluated = true
}

// Children returns the children expanded so far, in iteration order. The slice
// must not be modified.
func (n *Node[S, A, P]) Children() []Edge[A] {
	return n.children
}

// Expanded reports whether every legal action has been materialized.
func (n *Node[S, A, P]) Expanded() bool {
	return n.exhausted
}

// Reset rewinds the cursor so the next iteration replays the known children
// before expanding further.
func (n *Node[S, A, P]) Reset() {
	n.cursor = 0
}

// Graph is an arena of nodes indexed by position. A position reached through
// different move orders maps to a single node.
type Graph[S game.State[S, A, P], A any, P comparable] struct {
	nodes      []*Node[S, A, P]
	index      map[S]NodeID
	expansions int
}

func NewGraph[S game.State[S, A, P], A any, P comparable]() *Graph[S, A, P] {
	return &Graph[S, A, P]{index: make(map[S]NodeID)}
}

// GetOrCreate returns the node of state, creating an unevaluated one if the
// position is new.
func (g *Graph[S, A, P]) GetOrCreate(state S) NodeID {
	if id, ok := g.index[state]; ok {
		return id
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, &Node[S, A, P]{
		state:   state,
		turn:    state.Turn(),
		actions: state.ValidActions(),
	})
	g.index[state] = id
	return id
}

func (g *Graph[S, A, P]) Lookup(state S) (NodeID, bool) {
	id, ok := g.index[state]
	return id, ok
}

// Node panics with ErrUnknownNode for an id the graph did not hand out.
func (g *Graph[S, A, P]) Node(id NodeID) *Node[S, A, P] {
	if id < 0 || int(id) >= len(g.nodes) {
		panic(fmt.Errorf("%w: %d", ErrUnknownNode, id))
	}
	return g.nodes[id]
}

// Acquire marks the node as in use by the caller. Acquiring a node already in
// use panics with ErrReentrant: the position repeats on the current search path.
func (g *Graph[S, A, P]) Acquire(id NodeID) *Node[S, A, P] {
	n := g.Node(id)
	if n.busy {
		panic(fmt.Errorf("%w: node %d", ErrReentrant, id))
	}
	n.busy = true
	return n
}

func (g *Graph[S, A, P]) Release(id NodeID) {
	g.Node(id).busy = false
}

// Next advances the cursor of node id. Known children are replayed first, then
// the remaining legal actions are expanded one at a time. The actions are
// enumerated once, on the first expansion, but their children are only created
// as the cursor reaches them. ok is false once every child has been visited.
func (g *Graph[S, A, P]) Next(id NodeID) (edge Edge[A], ok bool) {
	n := g.Node(id)
	if n.cursor < len(n.children) {
		edge = n.children[n.cursor]
		n.cursor++
		return edge, true
	}
	if n.exhausted {
		return edge, false
	}
	if !n.collected {
		n.pending = slices.Collect(n.actions)
		n.collected = true
	}
	if len(n.children) >= len(n.pending) {
		n.pending = nil
		n.exhausted = true
		return edge, false
	}
	action := n.pending[len(n.children)]
	edge = Edge[A]{Action: action, Child: g.GetOrCreate(n.state.WhatIf(action)), Index: len(n.children)}
	n.children = append(n.children, edge)
	n.cursor++
	g.expansions++
	return edge, true
}

// SortChildren orders the expanded children of node id by stored value,
// descending when maximize is set and ascending otherwise. Unevaluated
// children go last. The sort is stable so equal values keep their expansion
// order.
func (g *Graph[S, A, P]) SortChildren(id NodeID, maximize bool) {
	n := g.Node(id)
	slices.SortStableFunc(n.children, func(a, b Edge[A]) int {
		ea, oka := g.nodes[a.Child].Entry()
		eb, okb := g.nodes[b.Child].Entry()
		switch {
		case !oka && !okb:
			return 0
		case !oka:
			return 1
		case !okb:
			return -1
		}
		if maximize {
			return Compare(eb.Value, ea.Value)
		}
		return Compare(ea.Value, eb.Value)
	})
}

// Rebase makes root the only entry point of the graph. Nodes reachable from
// root through expanded children are kept with their results, everything else
// is dropped. It returns the new id of root.
func (g *Graph[S, A, P]) Rebase(root NodeID) NodeID {
	old := g.nodes
	g.Node(root)
	for id, n := range old {
		if n.busy {
			panic(fmt.Errorf("%w: rebase while node %d is in use", ErrReentrant, id))
		}
	}

	remap := map[NodeID]NodeID{root: 0}
	g.nodes = []*Node[S, A, P]{old[root]}
	for queue := []NodeID{root}; len(queue) > 0; queue = queue[1:] {
		for _, edge := range old[queue[0]].children {
			if _, ok := remap[edge.Child]; ok {
				continue
			}
			remap[edge.Child] = NodeID(len(g.nodes))
			g.nodes = append(g.nodes, old[edge.Child])
			queue = append(queue, edge.Child)
		}
	}

	clear(g.index)
	for id, n := range g.nodes {
		g.index[n.state] = NodeID(id)
		for i := range n.children {
			n.children[i].Child = remap[n.children[i].Child]
		}
	}
	return 0
}

// Clear drops every node.
func (g *Graph[S, A, P]) Clear() {
	g.nodes = nil
	clear(g.index)
}

func (g *Graph[S, A, P]) Len() int {
	return len(g.nodes)
}

// Expansions counts the children materialized since the graph was created.
func (g *Graph[S, A, P]) Expansions() int {
	return g.expansions
}
