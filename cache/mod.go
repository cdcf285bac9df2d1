// Package cache memoizes search results keyed by position content.
//
// Table is a flat transposition table for depth-limited minmax, Graph a node
// graph whose children are expanded once and shared by every path reaching the
// same position, and Tallies the win/visit statistics of Monte-Carlo search.
package cache

import (
	"cmp"
	"errors"
	"fmt"
	"math"
)

// MaxDepth stamps results that never expire, such as terminal positions.
const MaxDepth = math.MaxInt >> 1

var (
	ErrNaN         = errors.New("cannot compare NaN values")
	ErrReentrant   = errors.New("node is already borrowed on this call stack")
	ErrUnknownNode = errors.New("unknown node")
)

// Bound qualifies a stored value. Only Exact values answer any query; a Lower
// value is a floor on the true value and an Upper value a ceiling.
type Bound uint8

const (
	Exact Bound = iota
	Lower
	Upper
)

func (b Bound) String() string {
	switch b {
	case Lower:
		return "lower"
	case Upper:
		return "upper"
	}
	return "exact"
}

// Entry is a memoized search result computed with Depth plies of lookahead.
type Entry[A any] struct {
	Value     float64
	Depth     int
	Bound     Bound
	Action    A
	HasAction bool
}

// Covers reports whether the entry can answer a query at depth.
func (e Entry[A]) Covers(depth int) bool {
	return e.Depth >= depth
}

// Compare orders two search values. NaN breaks the ordering and panics.
func Compare(a, b float64) int {
	if math.IsNaN(a) || math.IsNaN(b) {
		panic(fmt.Errorf("%w: %v and %v", ErrNaN, a, b))
	}
	return cmp.Compare(a, b)
}
