package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"treesearch/cache"
	"treesearch/game/tictactoe"
)

type ttt = tictactoe.Board

func TestSimulate(t *testing.T) {
	t.Run("terminal position samples its outcome", func(t *testing.T) {
		tallies := cache.NewTallies[ttt]()
		won := play(t, 0, 1, 3, 4, 6)
		selection := UCTSelection[ttt, tictactoe.Cell, tictactoe.Mark](math.Sqrt2)

		require.Equal(t, cache.Tally{Score: 1, Visits: 1}, Simulate(tallies, won, tictactoe.X, selection))
		require.Equal(t, cache.Tally{Score: -1, Visits: 1}, Simulate(tallies, won, tictactoe.O, selection))
		drawn := play(t, 0, 1, 2, 4, 3, 5, 7, 6, 8)
		require.Equal(t, cache.Tally{Score: 0, Visits: 1}, Simulate(tallies, drawn, tictactoe.X, selection))
	})

	t.Run("sample is added along the whole path", func(t *testing.T) {
		tallies := cache.NewTallies[ttt]()
		b := play(t, 0, 3, 1, 4)
		var path []ttt
		selection := func(tallies *cache.Tallies[ttt], state ttt, agent tictactoe.Mark) (tictactoe.Cell, bool) {
			path = append(path, state)
			return UCT[ttt, tictactoe.Cell](tallies, state, agent, 0)
		}

		sample := Simulate(tallies, b, tictactoe.X, selection)

		require.Equal(t, cache.Tally{Score: 1, Visits: 1}, sample, "First unvisited action 2 wins at once")
		require.Len(t, path, 2)
		for _, state := range path {
			require.Equal(t, sample, tallies.Read(state))
		}
		require.Equal(t, 2, tallies.Len())
	})

	t.Run("root visits count simulations", func(t *testing.T) {
		tallies := cache.NewTallies[ttt]()
		b := tictactoe.InitialState()
		selection := UCTSelection[ttt, tictactoe.Cell, tictactoe.Mark](math.Sqrt2)

		for i := 0; i < 50; i++ {
			Simulate(tallies, b, tictactoe.X, selection)
		}

		root := tallies.Read(b)
		require.Equal(t, 50, root.Visits)
		children := 0
		for action := range b.ValidActions() {
			children += tallies.Read(b.WhatIf(action)).Visits
		}
		require.Equal(t, 50, children, "Every simulation should pass through one child")
	})
}

func TestUCT(t *testing.T) {
	b := tictactoe.InitialState()

	t.Run("unvisited actions come first", func(t *testing.T) {
		tallies := cache.NewTallies[ttt]()
		for action := range b.ValidActions() {
			if action != 5 {
				tallies.Add(b.WhatIf(action), cache.Tally{Score: 10, Visits: 10})
			}
		}

		for _, c := range []float64{0, 1, math.Sqrt2, 100} {
			action, ok := UCT[ttt, tictactoe.Cell](tallies, b, tictactoe.X, c)
			require.True(t, ok)
			require.Equal(t, tictactoe.Cell(5), action, "Should explore the unvisited cell with c=%v", c)
		}
	})

	t.Run("cold start picks the first action", func(t *testing.T) {
		action, ok := UCT[ttt, tictactoe.Cell](cache.NewTallies[ttt](), b, tictactoe.X, math.Sqrt2)

		require.True(t, ok)
		require.Equal(t, tictactoe.Cell(0), action)
	})

	t.Run("opponent turn flips the exploitation term", func(t *testing.T) {
		tallies := cache.NewTallies[ttt]()
		o := b.WhatIf(4)
		for action := range o.ValidActions() {
			tallies.Add(o.WhatIf(action), cache.Tally{Score: 5, Visits: 10})
		}
		tallies.Add(o.WhatIf(7), cache.Tally{Score: -10, Visits: 0})

		action, _ := UCT[ttt, tictactoe.Cell](tallies, o, tictactoe.X, 0)
		require.Equal(t, tictactoe.Cell(7), action, "O should pick the child worst for X")

		action, _ = UCT[ttt, tictactoe.Cell](tallies, o, tictactoe.O, 0)
		require.Equal(t, tictactoe.Cell(0), action, "Ties should go to the first action")
	})

	t.Run("exploration favors rarely visited actions", func(t *testing.T) {
		tallies := cache.NewTallies[ttt]()
		for action := range b.ValidActions() {
			tallies.Add(b.WhatIf(action), cache.Tally{Score: 50, Visits: 100})
		}
		tallies.Add(b.WhatIf(3), cache.Tally{Score: -49.5, Visits: -99})

		action, _ := UCT[ttt, tictactoe.Cell](tallies, b, tictactoe.X, 0)
		require.Equal(t, tictactoe.Cell(0), action, "Means are equal without exploration")

		action, _ = UCT[ttt, tictactoe.Cell](tallies, b, tictactoe.X, math.Sqrt2)
		require.Equal(t, tictactoe.Cell(3), action, "Least visited action should win with exploration")
	})

	t.Run("terminal position has no action", func(t *testing.T) {
		_, ok := UCT[ttt, tictactoe.Cell](cache.NewTallies[ttt](), play(t, 0, 1, 3, 4, 6), tictactoe.X, math.Sqrt2)

		require.False(t, ok)
	})
}

func TestMCTSTicTacToe(t *testing.T) {
	t.Run("opening is not losing", func(t *testing.T) {
		tallies := cache.NewTallies[ttt]()
		b := tictactoe.InitialState()
		selection := UCTSelection[ttt, tictactoe.Cell, tictactoe.Mark](math.Sqrt2)

		for i := 0; i < 1000; i++ {
			Simulate(tallies, b, tictactoe.X, selection)
		}
		action, ok := UCT[ttt, tictactoe.Cell](tallies, b, tictactoe.X, 0)

		require.True(t, ok)
		require.GreaterOrEqual(t, DepthFirst[ttt, tictactoe.Cell](b.WhatIf(action), tictactoe.X), 0.0,
			"Opening %d should not lose under perfect play", action)
		require.Equal(t, 1000, tallies.Read(b).Visits)
	})

	t.Run("takes the immediate win", func(t *testing.T) {
		tallies := cache.NewTallies[ttt]()
		b := play(t, 0, 3, 1, 4)
		selection := UCTSelection[ttt, tictactoe.Cell, tictactoe.Mark](math.Sqrt2)

		for i := 0; i < 1000; i++ {
			Simulate(tallies, b, tictactoe.X, selection)
		}
		action, _ := UCT[ttt, tictactoe.Cell](tallies, b, tictactoe.X, 0)

		require.Equal(t, tictactoe.Cell(2), action)
	})

	t.Run("blocks as the second player", func(t *testing.T) {
		tallies := cache.NewTallies[ttt]()
		b := play(t, 0, 4, 1)
		selection := UCTSelection[ttt, tictactoe.Cell, tictactoe.Mark](math.Sqrt2)

		for i := 0; i < 1000; i++ {
			Simulate(tallies, b, tictactoe.O, selection)
		}
		action, _ := UCT[ttt, tictactoe.Cell](tallies, b, tictactoe.O, 0)

		require.Equal(t, tictactoe.Cell(2), action, "O must block the top row")
	})
}
