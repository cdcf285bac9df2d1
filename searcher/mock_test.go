package searcher

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"treesearch/game/tictactoe"
)

type player uint8

const (
	maxer player = iota + 1
	miner
)

// script is a fixed game tree. Positions it does not list lead to a single
// terminal draw.
type script struct {
	children map[int][]int
	values   map[int]float64
}

type scripted struct {
	script *script
	id     int
	depth  int
}

func (s *script) root() scripted {
	return scripted{script: s}
}

func (s scripted) next() []int {
	if c, ok := s.script.children[s.id]; ok {
		return c
	}
	if s.id < 100 {
		return []int{s.id + 100}
	}
	return nil
}

func (s scripted) WhatIf(a int) scripted {
	return scripted{script: s.script, id: s.next()[a], depth: s.depth + 1}
}

func (s scripted) ValidActions() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range s.next() {
			if !yield(i) {
				return
			}
		}
	}
}

func (s scripted) IsValid(a int) bool {
	return a >= 0 && a < len(s.next())
}

func (s scripted) IsTerminal() bool {
	return len(s.next()) == 0
}

func (s scripted) Turn() player {
	if s.depth%2 == 0 {
		return maxer
	}
	return miner
}

func (s scripted) Winner() (player, bool) {
	return 0, false
}

func scriptReward(s scripted, _ player) float64 {
	return s.script.values[s.id]
}

// cyclic alternates between two positions forever.
type cyclic struct {
	pos uint8
}

func (c cyclic) WhatIf(a uint8) cyclic {
	return cyclic{pos: a}
}

func (c cyclic) ValidActions() iter.Seq[uint8] {
	return func(yield func(uint8) bool) {
		yield(1 - c.pos)
	}
}

func (c cyclic) IsValid(a uint8) bool {
	return a == 1-c.pos
}

func (c cyclic) IsTerminal() bool {
	return false
}

func (c cyclic) Turn() player {
	if c.pos == 0 {
		return maxer
	}
	return miner
}

func (c cyclic) Winner() (player, bool) {
	return 0, false
}

func cyclicReward(c cyclic, _ player) float64 {
	return float64(c.pos)
}

func play(t *testing.T, cells ...tictactoe.Cell) tictactoe.Board {
	t.Helper()
	b := tictactoe.InitialState()
	for _, c := range cells {
		require.True(t, b.Update(c), "Should accept cell %d", c)
	}
	return b
}

func requirePanicsWith(t *testing.T, target error, f func()) {
	t.Helper()
	defer func() {
		err, ok := recover().(error)
		require.True(t, ok, "Should panic with an error")
		require.ErrorIs(t, err, target)
	}()
	f()
}
