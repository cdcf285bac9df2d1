// Package othello implements 8x8 Othello on two 64-bit boards.
//
// Squares are numbered row by row from the top-left corner. When the agent on
// turn has no placement but its opponent does, its only action is Pass.
package othello

import (
	"iter"
	"math/bits"
	"strings"
)

type Color uint8

const (
	Black Color = iota + 1
	White
)

func (c Color) Opponent() Color {
	if c == Black {
		return White
	}
	return Black
}

func (c Color) String() string {
	switch c {
	case Black:
		return "B"
	case White:
		return "W"
	}
	return " "
}

// Square is an action: the square to place a disc on, or Pass.
type Square uint8

const (
	NumSquares        = 64
	Pass       Square = NumSquares
)

const (
	notFileA uint64 = 0xfefefefefefefefe
	notFileH uint64 = 0x7f7f7f7f7f7f7f7f
)

var shifts = [8]func(uint64) uint64{
	func(b uint64) uint64 { return b << 1 & notFileA }, // east
	func(b uint64) uint64 { return b >> 1 & notFileH }, // west
	func(b uint64) uint64 { return b << 8 },            // south
	func(b uint64) uint64 { return b >> 8 },            // north
	func(b uint64) uint64 { return b << 9 & notFileA }, // south-east
	func(b uint64) uint64 { return b << 7 & notFileH }, // south-west
	func(b uint64) uint64 { return b >> 7 & notFileA }, // north-east
	func(b uint64) uint64 { return b >> 9 & notFileH }, // north-west
}

// Board is a comparable position value.
type Board struct {
	black uint64
	white uint64
	turn  Color
}

// InitialState returns the standard opening position with Black to move.
func InitialState() Board {
	return Board{
		black: 1<<28 | 1<<35,
		white: 1<<27 | 1<<36,
		turn:  Black,
	}
}

func (b Board) discs(c Color) (own, opp uint64) {
	if c == Black {
		return b.black, b.white
	}
	return b.white, b.black
}

func placements(own, opp uint64) uint64 {
	empty := ^(own | opp)
	var moves uint64
	for _, shift := range shifts {
		x := shift(own) & opp
		for i := 0; i < 5; i++ {
			x |= shift(x) & opp
		}
		moves |= shift(x) & empty
	}
	return moves
}

func flips(own, opp uint64, sq Square) uint64 {
	var flipped uint64
	for _, shift := range shifts {
		var line uint64
		x := shift(1 << sq)
		for x&opp != 0 {
			line |= x
			x = shift(x)
		}
		if x&own != 0 {
			flipped |= line
		}
	}
	return flipped
}

func (b Board) placements() uint64 {
	own, opp := b.discs(b.turn)
	return placements(own, opp)
}

func (b Board) IsValid(sq Square) bool {
	if b.IsTerminal() {
		return false
	}
	moves := b.placements()
	if sq == Pass {
		return moves == 0
	}
	return sq < NumSquares && moves&(1<<sq) != 0
}

func (b *Board) Update(sq Square) bool {
	if !b.IsValid(sq) {
		return false
	}
	if sq != Pass {
		own, opp := b.discs(b.turn)
		f := flips(own, opp, sq)
		own |= f | 1<<sq
		opp &^= f
		if b.turn == Black {
			b.black, b.white = own, opp
		} else {
			b.white, b.black = own, opp
		}
	}
	b.turn = b.turn.Opponent()
	return true
}

func (b Board) WhatIf(sq Square) Board {
	b.Update(sq)
	return b
}

// ValidActions yields placements in increasing square order, Pass when the
// agent on turn is blocked, and nothing once neither side can move.
func (b Board) ValidActions() iter.Seq[Square] {
	return func(yield func(Square) bool) {
		if b.IsTerminal() {
			return
		}
		moves := b.placements()
		if moves == 0 {
			yield(Pass)
			return
		}
		for moves != 0 {
			if !yield(Square(bits.TrailingZeros64(moves))) {
				return
			}
			moves &= moves - 1
		}
	}
}

func (b Board) IsTerminal() bool {
	return placements(b.black, b.white) == 0 && placements(b.white, b.black) == 0
}

func (b Board) Turn() Color {
	return b.turn
}

func (b Board) Winner() (Color, bool) {
	if !b.IsTerminal() {
		return 0, false
	}
	black, white := b.Count()
	switch {
	case black > white:
		return Black, true
	case white > black:
		return White, true
	}
	return 0, false
}

// Count returns the number of black and white discs.
func (b Board) Count() (black, white int) {
	return bits.OnesCount64(b.black), bits.OnesCount64(b.white)
}

func (b Board) At(sq Square) (Color, bool) {
	switch {
	case b.black&(1<<sq) != 0:
		return Black, true
	case b.white&(1<<sq) != 0:
		return White, true
	}
	return 0, false
}

func (b Board) String() string {
	var sb strings.Builder
	for sq := Square(0); sq < NumSquares; sq++ {
		c, _ := b.At(sq)
		sb.WriteString(c.String())
		if sq%8 == 7 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// GreedyReward scores a board by agent's share of the discs, and terminal
// boards +1/-1/0.
func GreedyReward(b Board, agent Color) float64 {
	if b.IsTerminal() {
		winner, ok := b.Winner()
		switch {
		case !ok:
			return 0
		case winner == agent:
			return 1
		default:
			return -1
		}
	}
	black, white := b.Count()
	own := black
	if agent == White {
		own = white
	}
	return float64(own) / float64(black+white)
}
