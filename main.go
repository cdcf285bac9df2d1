package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"treesearch/experiments"
	"treesearch/experiments/metrics"
	"treesearch/meta"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML experiment config (overrides the match flags)")
	gameName := flag.String("game", "tictactoe", "Game to play: tictactoe or othello")
	first := flag.String("first", "alphabeta", "Algorithm of agent 1: minmax, alphabeta, mcts or random")
	second := flag.String("second", "mcts", "Algorithm of agent 2: minmax, alphabeta, mcts or random")
	depth := flag.Int("depth", meta.Depth, "Search depth of minmax and alpha-beta agents")
	simulations := flag.Int("simulations", meta.Simulations, "Simulations per move of MCTS agents")
	games := flag.Int("games", 2, "Number of games, the agents swapping sides every game")
	seed := flag.Uint64("seed", 0, "Seed of the randomized agents (0 seeds from the clock)")
	save := flag.Bool("save", false, "Write CSV records of the games under -out")
	out := flag.String("out", "results", "Directory for CSV records")
	level := flag.String("log-level", "info", "Log level: debug, info, warn or error")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(lvl)

	var c experiments.Config
	if *configPath != "" {
		c, err = experiments.LoadConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load experiment config")
		}
	} else {
		c = experiments.Config{
			Name:  "match",
			Game:  *gameName,
			Games: *games,
			Agents: []metrics.AgentConfig{
				{ID: 1, Algorithm: *first, Depth: *depth, Simulations: *simulations, Seed: *seed},
				{ID: 2, Algorithm: *second, Depth: *depth, Simulations: *simulations, Seed: *seed},
			},
			MatchUps: [][]int{{1, 2}},
			Output:   *out,
		}
		c.SetDefaults()
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "out" {
			c.Output = *out
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := experiments.Run(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("experiment failed")
	}
	for _, s := range report.Summaries {
		log.Info().
			Int("agent", s.Agent).
			Int("games", s.Games).
			Int("wins", s.Wins).
			Int("losses", s.Losses).
			Int("draws", s.Draws).
			Float64("mean_search_ms", s.MeanSearchMillis).
			Msg("summary")
	}

	if *save {
		dir, err := experiments.Save(c, report)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to save experiment")
		}
		log.Info().Msgf("stored results in %s", dir)
	}
}
