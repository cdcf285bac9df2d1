// Package experiments plays match ups between configured agents and stores
// the game and search records they produce.
package experiments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"treesearch/engine"
	"treesearch/experiments/metrics"
	"treesearch/game"
	"treesearch/game/othello"
	"treesearch/game/tictactoe"
	"treesearch/searcher"
	"treesearch/searcher/agent"
)

var (
	tictactoeRewards = map[string]game.Reward[tictactoe.Board, tictactoe.Mark]{
		"naive": tictactoe.NaiveReward,
		"line":  tictactoe.LineReward,
		"exact": searcher.DepthFirst[tictactoe.Board, tictactoe.Cell, tictactoe.Mark],
	}
	othelloRewards = map[string]game.Reward[othello.Board, othello.Color]{
		"greedy": othello.GreedyReward,
	}

	gameRewards = map[string]map[string]bool{
		"tictactoe": names(tictactoeRewards),
		"othello":   names(othelloRewards),
	}
	defaultRewards = map[string]string{
		"tictactoe": "line",
		"othello":   "greedy",
	}
)

func names[R any](m map[string]R) map[string]bool {
	set := make(map[string]bool, len(m))
	for name := range m {
		set[name] = true
	}
	return set
}

type Report struct {
	Games     []metrics.GameRecord
	Moves     []metrics.MoveRecord
	Summaries []metrics.Summary
}

// Run plays c.Games games per match up, at most c.Workers at a time. The two
// agents of a match up swap sides every game, so each config moves first in
// half of them. The first failing game cancels the rest.
func Run(ctx context.Context, c Config) (Report, error) {
	err := c.Validate()
	if err != nil {
		return Report{}, err
	}

	log.Info().Msgf("starting %s experiment...", c.Name)

	var report Report
	switch c.Game {
	case "tictactoe":
		report, err = play[tictactoe.Board, tictactoe.Cell, tictactoe.Mark, *tictactoe.Board](
			ctx, c, tictactoe.InitialState(), tictactoe.X, tictactoe.O, tictactoeRewards)
	case "othello":
		report, err = play[othello.Board, othello.Square, othello.Color, *othello.Board](
			ctx, c, othello.InitialState(), othello.Black, othello.White, othelloRewards)
	}
	if err != nil {
		return Report{}, err
	}
	report.Summaries = metrics.Summarize(report.Games, report.Moves)

	log.Info().Msgf("completed %s experiment with %d games", c.Name, len(report.Games))
	return report, nil
}

type job struct {
	matchUp int
	round   int
	first   metrics.AgentConfig
	second  metrics.AgentConfig
}

func play[S game.State[S, A, P], A any, P comparable, M game.Mutable[S, A]](
	ctx context.Context, c Config, initial S, firstSide, secondSide P, rewards map[string]game.Reward[S, P],
) (Report, error) {
	var jobs []job
	for mi, m := range c.MatchUps {
		for i := 0; i < c.Games; i++ {
			first, second := c.agent(m[0]), c.agent(m[1])
			if i%2 == 1 {
				first, second = second, first
			}
			jobs = append(jobs, job{matchUp: mi, round: i, first: first, second: second})
		}
	}

	games := make([]metrics.GameRecord, len(jobs))
	moves := make([][]metrics.MoveRecord, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Workers)
	for i, j := range jobs {
		g.Go(func() error {
			err := ctx.Err()
			if err != nil {
				return err
			}

			id := uuid.NewString()
			log.Info().Str("game", id).Msgf("starting matchup %d of %d game %d of %d between agent %d and agent %d...",
				j.matchUp+1, len(c.MatchUps), j.round+1, c.Games, j.first.ID, j.second.ID)

			var e engine.Engine[S, A, P] = engine.NewLocal[S, A, P, M](initial,
				newAgent(j.first, firstSide, rewards, j.round),
				newAgent(j.second, secondSide, rewards, j.round),
				engine.WithMaxTurns(c.MaxTurns),
			)
			result, err := e.Run()
			if err != nil {
				return fmt.Errorf("failed to play game %s: %w", id, err)
			}

			games[i] = metrics.GameRecord{
				ID:         id,
				Agent1:     j.first.ID,
				Agent2:     j.second.ID,
				GameMetric: result.Game,
			}
			for _, mm := range result.Searches {
				moves[i] = append(moves[i], metrics.MoveRecord{Game: id, MoveMetric: mm})
			}

			log.Info().Str("game", id).Msgf("completed matchup %d of %d game %d with winner: %q",
				j.matchUp+1, len(c.MatchUps), j.round+1, result.Game.Winner)
			return nil
		})
	}
	err := g.Wait()
	if err != nil {
		return Report{}, err
	}

	report := Report{Games: games}
	for _, m := range moves {
		report.Moves = append(report.Moves, m...)
	}
	return report, nil
}

// newAgent builds the agent a config describes. Seeded configs get a distinct
// seed every round so that repeated games differ but remain reproducible.
func newAgent[S game.State[S, A, P], A any, P comparable](c metrics.AgentConfig, identity P, rewards map[string]game.Reward[S, P], round int) agent.Agent[S, A, P] {
	opts := []agent.Option{agent.WithMetrics()}
	if c.Cache != "" {
		policy, err := agent.ParseCachePolicy(c.Cache)
		if err != nil {
			panic(fmt.Sprintf("agent %d: %v", c.ID, err))
		}
		opts = append(opts, agent.WithCachePolicy(policy))
	}
	if c.Simulations > 0 {
		opts = append(opts, agent.WithSimulations(c.Simulations))
	}
	if c.Exploration != nil {
		opts = append(opts, agent.WithExploration(*c.Exploration))
	}
	if c.Temperature > 0 {
		opts = append(opts, agent.WithTemperature(c.Temperature))
	}
	if c.Seed != 0 {
		opts = append(opts, agent.WithSeed(c.Seed+uint64(round)))
	}

	switch c.Algorithm {
	case "minmax":
		return agent.NewMinmax[S, A](identity, rewards[c.Reward], c.Depth, opts...)
	case "alphabeta":
		return agent.NewAlphaBeta[S, A](identity, rewards[c.Reward], c.Depth, opts...)
	case "mcts":
		return agent.NewMCTS[S, A](identity, opts...)
	}
	return agent.NewRandom[S, A](identity, opts...)
}

// Save writes the agent configs and the records of r as CSV files under
// c.Output and returns the directory it wrote to.
func Save(c Config, r Report) (string, error) {
	writer, err := metrics.NewWriter(c.Output, c.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	err = writer.WriteAgentConfigs(c.Agents)
	if err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	err = writer.WriteGameRecords(r.Games)
	if err != nil {
		return "", fmt.Errorf("failed to store game records: %w", err)
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(r.Moves)
	if err != nil {
		return "", fmt.Errorf("failed to store move records: %w", err)
	}
	log.Info().Msg("stored move records")

	err = writer.WriteSummaries(r.Summaries)
	if err != nil {
		return "", fmt.Errorf("failed to store summaries: %w", err)
	}
	log.Info().Msg("stored summaries")

	return writer.Dir(), nil
}
