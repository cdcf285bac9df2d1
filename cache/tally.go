package cache

// Tally accumulates sampled outcomes of a position: the summed score and the
// number of samples.
type Tally struct {
	Score  float64
	Visits int
}

func (t Tally) Add(other Tally) Tally {
	return Tally{Score: t.Score + other.Score, Visits: t.Visits + other.Visits}
}

// Mean is the average sampled score, 0 when unvisited.
func (t Tally) Mean() float64 {
	if t.Visits == 0 {
		return 0
	}
	return t.Score / float64(t.Visits)
}

// Tallies maps positions to their Monte-Carlo statistics.
type Tallies[S comparable] struct {
	tallies map[S]Tally
}

func NewTallies[S comparable]() *Tallies[S] {
	return &Tallies[S]{tallies: make(map[S]Tally)}
}

// Read returns the tally of state, zero if it was never sampled.
func (t *Tallies[S]) Read(state S) Tally {
	return t.tallies[state]
}

func (t *Tallies[S]) Add(state S, sample Tally) {
	t.tallies[state] = t.tallies[state].Add(sample)
}

func (t *Tallies[S]) Len() int {
	return len(t.tallies)
}

func (t *Tallies[S]) Clear() {
	clear(t.tallies)
}
