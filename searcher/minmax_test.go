package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"treesearch/cache"
	"treesearch/game/tictactoe"
)

var classic = &script{
	children: map[int][]int{0: {1, 2}, 1: {3, 4}, 2: {5, 6}},
	values:   map[int]float64{3: 3, 4: 5, 5: 2, 6: 9},
}

func newTable() *cache.Table[tictactoe.Board, tictactoe.Cell] {
	return cache.NewTable[tictactoe.Board, tictactoe.Cell]()
}

func TestMinmaxScripted(t *testing.T) {
	t.Run("maximizer takes the best minimum", func(t *testing.T) {
		table := cache.NewTable[scripted, int]()

		e := Minmax(table, classic.root(), maxer, scriptReward, 2)

		require.Equal(t, 3.0, e.Value)
		require.True(t, e.HasAction)
		require.Equal(t, 0, e.Action, "Should pick the subtree whose minimum is highest")
		require.Equal(t, 2, e.Depth)
	})

	t.Run("agent off turn minimizes", func(t *testing.T) {
		table := cache.NewTable[scripted, int]()

		e := Minmax(table, classic.root(), miner, scriptReward, 2)

		require.Equal(t, 5.0, e.Value)
		require.Equal(t, 0, e.Action)
	})

	t.Run("ties go to the first action", func(t *testing.T) {
		tied := &script{
			children: map[int][]int{0: {1, 2, 3}},
			values:   map[int]float64{1: 4, 2: 7, 3: 7},
		}
		table := cache.NewTable[scripted, int]()

		e := Minmax(table, tied.root(), maxer, scriptReward, 1)

		require.Equal(t, 7.0, e.Value)
		require.Equal(t, 1, e.Action, "Should keep the first of the tied actions")
	})

	t.Run("depth zero evaluates the reward", func(t *testing.T) {
		table := cache.NewTable[scripted, int]()
		root := scripted{script: classic, id: 3}

		e := Minmax(table, root, maxer, scriptReward, 0)

		require.Equal(t, 3.0, e.Value)
		require.False(t, e.HasAction)
	})

	t.Run("cyclic game is bounded by depth", func(t *testing.T) {
		table := cache.NewTable[cyclic, uint8]()

		e := Minmax(table, cyclic{}, maxer, cyclicReward, 5)

		require.Equal(t, 1.0, e.Value, "Odd depth should end on position 1")
	})

	t.Run("NaN reward is a contract violation", func(t *testing.T) {
		table := cache.NewTable[scripted, int]()
		nan := func(scripted, player) float64 { return math.NaN() }

		requirePanicsWith(t, ErrNaN, func() { Minmax(table, classic.root(), maxer, nan, 2) })
	})
}

func TestMinmaxTicTacToe(t *testing.T) {
	t.Run("terminal board needs no recursion", func(t *testing.T) {
		b := play(t, 0, 1, 3, 4, 6)
		require.True(t, b.IsTerminal())

		for _, depth := range []int{1, 5} {
			x := Minmax(newTable(), b, tictactoe.X, tictactoe.NaiveReward, depth)
			o := Minmax(newTable(), b, tictactoe.O, tictactoe.NaiveReward, depth)

			require.Equal(t, Win, x.Value, "X should see its win at depth %d", depth)
			require.Equal(t, Loss, o.Value, "O should see its loss at depth %d", depth)
			require.False(t, x.HasAction)
			require.Equal(t, cache.MaxDepth, x.Depth, "Terminal results never expire")
		}
	})

	t.Run("full depth from the empty board is a draw", func(t *testing.T) {
		table := newTable()

		e := Minmax(table, tictactoe.InitialState(), tictactoe.X, tictactoe.NaiveReward, 9)

		require.Equal(t, Draw, e.Value)
		require.True(t, e.HasAction)
		require.Equal(t, tictactoe.Cell(0), e.Action, "Every opening draws, the first one is kept")
		require.Less(t, table.Len(), 6000, "Transpositions should be shared")
	})

	t.Run("finds the immediate win", func(t *testing.T) {
		b := play(t, 0, 3, 1, 4)

		e := Minmax(newTable(), b, tictactoe.X, tictactoe.LineReward, 2)

		require.Equal(t, Win, e.Value)
		require.Equal(t, tictactoe.Cell(2), e.Action)
	})

	t.Run("blocks the opponent", func(t *testing.T) {
		b := play(t, 0, 4, 8, 2)

		e := Minmax(newTable(), b, tictactoe.X, tictactoe.NaiveReward, 7)

		require.Equal(t, tictactoe.Cell(6), e.Action, "X must block the diagonal 2-4-6")
	})
}

func TestMinmaxDepth(t *testing.T) {
	positions := [][]tictactoe.Cell{
		{},
		{4},
		{0, 4},
		{0, 1, 3},
		{4, 0, 8, 2},
	}
	for _, cells := range positions {
		b := play(t, cells...)
		exact := DepthFirst[tictactoe.Board, tictactoe.Cell](b, tictactoe.X)
		remaining := tictactoe.NumCells - len(cells)

		for depth := remaining; depth <= remaining+2; depth++ {
			e := Minmax(newTable(), b, tictactoe.X, tictactoe.LineReward, depth)

			require.Equal(t, exact, sign(e.Value),
				"Should reach the game outcome of %v at depth %d", cells, depth)
		}
	}
}

func TestMinmaxCacheSoundness(t *testing.T) {
	b := tictactoe.InitialState()
	table := newTable()
	table.Store(b, cache.Entry[tictactoe.Cell]{Value: 42, Depth: 1, Action: 8, HasAction: true})

	hit := Minmax(table, b, tictactoe.X, tictactoe.LineReward, 1)
	require.Equal(t, 42.0, hit.Value, "Entry computed deep enough should be reused")

	miss := Minmax(table, b, tictactoe.X, tictactoe.LineReward, 2)
	require.NotEqual(t, 42.0, miss.Value, "Shallower entry should never answer a deeper query")
	require.Equal(t, 2, miss.Depth)

	again, ok := table.Lookup(b, 2)
	require.True(t, ok)
	require.Equal(t, miss, again)
}

func TestTerminalDeterminism(t *testing.T) {
	for _, cells := range [][]tictactoe.Cell{
		{0, 1, 3, 4, 6},
		{0, 3, 1, 4, 8, 5},
		{0, 1, 2, 4, 3, 5, 7, 6, 8},
	} {
		b := play(t, cells...)
		require.True(t, b.IsTerminal())
		want := TerminalScore[tictactoe.Board, tictactoe.Cell](b, tictactoe.X)

		for _, depth := range []int{0, 1, 4, 9} {
			require.Equal(t, want, Minmax(newTable(), b, tictactoe.X, tictactoe.LineReward, depth).Value)
			g := cache.NewGraph[tictactoe.Board, tictactoe.Cell, tictactoe.Mark]()
			require.Equal(t, want, AlphaBeta(g, b, tictactoe.X, tictactoe.LineReward, depth).Value)
		}
	}
}

func TestDepthFirst(t *testing.T) {
	require.Equal(t, 0.0, DepthFirst[tictactoe.Board, tictactoe.Cell](tictactoe.InitialState(), tictactoe.X),
		"Perfect play should draw")
	require.Equal(t, 1.0, DepthFirst[tictactoe.Board, tictactoe.Cell](play(t, 0, 3, 1, 4), tictactoe.X),
		"X should win with two in a row on its turn")
	require.Equal(t, -1.0, DepthFirst[tictactoe.Board, tictactoe.Cell](play(t, 0, 3, 1, 4), tictactoe.O))
	require.Equal(t, 1.0, DepthFirst[tictactoe.Board, tictactoe.Cell](play(t, 4, 1), tictactoe.X),
		"Edge reply to a center opening loses")
}

func TestPrune(t *testing.T) {
	b := tictactoe.InitialState()
	table := newTable()
	Minmax(table, b, tictactoe.X, tictactoe.LineReward, 2)
	require.Equal(t, 1+9+72, table.Len())

	Prune(table, b.WhatIf(4), 1)

	require.Equal(t, 9, table.Len(), "Only the new position and its children should remain")
	_, ok := table.Peek(b)
	require.False(t, ok)
	_, ok = table.Peek(b.WhatIf(4).WhatIf(0))
	require.True(t, ok)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
