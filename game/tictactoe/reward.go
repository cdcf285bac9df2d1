package tictactoe

import "math/bits"

// NaiveReward scores terminal boards +1/-1/0 for agent and every other board 0.
func NaiveReward(b Board, agent Mark) float64 {
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

// LineReward counts the lines still open to agent minus those open to its
// opponent, weighting a line by the number of marks already on it. The result
// is normalised to [-1, 1].
func LineReward(b Board, agent Mark) float64 {
	if b.IsTerminal() {
		return NaiveReward(b, agent)
	}
	mine, theirs := b.x, b.o
	if agent == O {
		mine, theirs = theirs, mine
	}
	score := 0
	for _, line := range lines {
		switch {
		case mine&line == 0 && theirs&line == 0:
		case theirs&line == 0:
			score += 1 + bits.OnesCount16(mine&line)
		case mine&line == 0:
			score -= 1 + bits.OnesCount16(theirs&line)
		}
	}
	// Each of the 8 lines contributes at most 3 in absolute value.
	return float64(score) / 24
}
