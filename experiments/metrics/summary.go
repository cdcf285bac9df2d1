package metrics

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the games and searches of one agent config.
type Summary struct {
	Agent              int
	Games              int
	Wins               int
	Losses             int
	Draws              int
	WinRate            float64
	MeanSearchMillis   float64
	StdDevSearchMillis float64
	MeanExpansions     float64
}

// Summarize computes one summary per agent config id found in games, sorted by
// id. A move is attributed to an agent config through the game it belongs to
// and the side that played it.
func Summarize(games []GameRecord, moves []MoveRecord) []Summary {
	byID := make(map[int]*Summary)
	get := func(id int) *Summary {
		s, ok := byID[id]
		if !ok {
			s = &Summary{Agent: id}
			byID[id] = s
		}
		return s
	}

	type sides struct {
		first          string
		agent1, agent2 int
	}
	byGame := make(map[string]sides, len(games))
	for _, g := range games {
		first, second := get(g.Agent1), get(g.Agent2)
		first.Games++
		second.Games++
		switch {
		case g.Winner == "":
			first.Draws++
			second.Draws++
		case g.Winner == g.FirstMover:
			first.Wins++
			second.Losses++
		default:
			first.Losses++
			second.Wins++
		}
		byGame[g.ID] = sides{first: g.FirstMover, agent1: g.Agent1, agent2: g.Agent2}
	}

	durations := make(map[int][]float64)
	expansions := make(map[int][]float64)
	for _, m := range moves {
		g, ok := byGame[m.Game]
		if !ok {
			continue
		}
		id := g.agent2
		if m.Agent == g.first {
			id = g.agent1
		}
		durations[id] = append(durations[id], float64(m.Duration.Microseconds())/1000)
		expansions[id] = append(expansions[id], float64(m.Expansions))
	}

	summaries := make([]Summary, 0, len(byID))
	for id, s := range byID {
		if s.Games > 0 {
			s.WinRate = float64(s.Wins) / float64(s.Games)
		}
		if d := durations[id]; len(d) > 0 {
			s.MeanSearchMillis, s.StdDevSearchMillis = stat.MeanStdDev(d, nil)
			if len(d) == 1 {
				s.StdDevSearchMillis = 0
			}
		}
		if e := expansions[id]; len(e) > 0 {
			s.MeanExpansions = stat.Mean(e, nil)
		}
		summaries = append(summaries, *s)
	}
	slices.SortFunc(summaries, func(a, b Summary) int { return a.Agent - b.Agent })
	return summaries
}
