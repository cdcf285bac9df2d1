// Package tictactoe implements 3x3 tic-tac-toe on two 9-bit masks.
//
// Cells are numbered 0-8 row by row and X always moves first.
package tictactoe

import (
	"iter"
	"math/bits"
	"strings"
)

type Mark uint8

const (
	X Mark = iota + 1
	O
)

func (m Mark) Opponent() Mark {
	if m == X {
		return O
	}
	return X
}

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	}
	return " "
}

// Cell is an action: the index of the cell to mark.
type Cell uint8

const (
	NumCells = 9
	full     = 0b111111111
)

var lines = [8]uint16{
	0b000000111, 0b000111000, 0b111000000, // rows
	0b001001001, 0b010010010, 0b100100100, // columns
	0b100010001, 0b001010100, // diagonals
}

// Board is a comparable position value, usable directly as a cache key.
type Board struct {
	x    uint16
	o    uint16
	turn Mark
}

// InitialState returns the empty board with X to move.
func InitialState() Board {
	return Board{turn: X}
}

func (b Board) occupied() uint16 {
	return b.x | b.o
}

func (b Board) IsValid(c Cell) bool {
	return c < NumCells && b.occupied()&(1<<c) == 0 && !b.IsTerminal()
}

func (b *Board) Update(c Cell) bool {
	if !b.IsValid(c) {
		return false
	}
	if b.turn == X {
		b.x |= 1 << c
	} else {
		b.o |= 1 << c
	}
	b.turn = b.turn.Opponent()
	return true
}

func (b Board) WhatIf(c Cell) Board {
	b.Update(c)
	return b
}

// ValidActions yields the empty cells in increasing order, or nothing once the
// game is over.
func (b Board) ValidActions() iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		if b.IsTerminal() {
			return
		}
		free := ^b.occupied() & full
		for free != 0 {
			c := Cell(bits.TrailingZeros16(free))
			if !yield(c) {
				return
			}
			free &= free - 1
		}
	}
}

func (b Board) IsTerminal() bool {
	return wins(b.x) || wins(b.o) || b.occupied() == full
}

func (b Board) Turn() Mark {
	return b.turn
}

func (b Board) Winner() (Mark, bool) {
	switch {
	case wins(b.x):
		return X, true
	case wins(b.o):
		return O, true
	}
	return 0, false
}

// At returns the mark in cell c, if any.
func (b Board) At(c Cell) (Mark, bool) {
	switch {
	case b.x&(1<<c) != 0:
		return X, true
	case b.o&(1<<c) != 0:
		return O, true
	}
	return 0, false
}

// Moves returns the number of marks on the board.
func (b Board) Moves() int {
	return bits.OnesCount16(b.occupied())
}

func (b Board) String() string {
	var sb strings.Builder
	for c := Cell(0); c < NumCells; c++ {
		m, _ := b.At(c)
		sb.WriteString("| ")
		sb.WriteString(m.String())
		sb.WriteString(" |")
		if c%3 == 2 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func wins(marks uint16) bool {
	for _, line := range lines {
		if marks&line == line {
			return true
		}
	}
	return false
}
