package experiments

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"treesearch/experiments/metrics"
	"treesearch/meta"
	"treesearch/searcher/agent"
)

var ErrInvalidConfig = errors.New("invalid experiment config")

// Config describes one experiment: the game, the agent configs taking part and
// the pairs of them that play each other.
type Config struct {
	Name     string                `yaml:"name"`
	Game     string                `yaml:"game"`
	Games    int                   `yaml:"games"` // Per match up
	Workers  int                   `yaml:"workers"`
	MaxTurns int                   `yaml:"max_turns"`
	Output   string                `yaml:"output"`
	Agents   []metrics.AgentConfig `yaml:"agents"`
	MatchUps [][]int               `yaml:"matchups"`
}

// LoadConfig reads a YAML experiment config from path, fills in defaults and
// validates it.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (Config, error) {
	var c Config
	err := yaml.Unmarshal(data, &c)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	c.SetDefaults()
	err = c.Validate()
	if err != nil {
		return Config{}, err
	}
	return c, nil
}

// SetDefaults fills in every field left at its zero value.
func (c *Config) SetDefaults() {
	if c.Name == "" {
		c.Name = c.Game
	}
	if c.Games <= 0 {
		c.Games = meta.NumGames
	}
	if c.Workers <= 0 {
		c.Workers = meta.Workers
	}
	if c.MaxTurns <= 0 {
		c.MaxTurns = meta.MaxTurns
	}
	if c.Output == "" {
		c.Output = "results"
	}
	for i := range c.Agents {
		a := &c.Agents[i]
		switch a.Algorithm {
		case "minmax", "alphabeta":
			if a.Depth <= 0 {
				a.Depth = meta.Depth
			}
			if a.Reward == "" {
				a.Reward = defaultRewards[c.Game]
			}
		case "mcts":
			if a.Simulations <= 0 {
				a.Simulations = meta.Simulations
			}
		}
	}
}

func (c Config) Validate() error {
	rewards, ok := gameRewards[c.Game]
	if !ok {
		return fmt.Errorf("%w: unknown game %q", ErrInvalidConfig, c.Game)
	}
	if len(c.Agents) == 0 {
		return fmt.Errorf("%w: no agents", ErrInvalidConfig)
	}

	ids := make(map[int]bool, len(c.Agents))
	for _, a := range c.Agents {
		if ids[a.ID] {
			return fmt.Errorf("%w: duplicate agent id %d", ErrInvalidConfig, a.ID)
		}
		ids[a.ID] = true

		switch a.Algorithm {
		case "minmax", "alphabeta":
			if !rewards[a.Reward] {
				return fmt.Errorf("%w: agent %d: unknown %s reward %q", ErrInvalidConfig, a.ID, c.Game, a.Reward)
			}
		case "mcts", "random":
		default:
			return fmt.Errorf("%w: agent %d: unknown algorithm %q", ErrInvalidConfig, a.ID, a.Algorithm)
		}
		if a.Cache != "" {
			_, err := agent.ParseCachePolicy(a.Cache)
			if err != nil {
				return fmt.Errorf("%w: agent %d: %w", ErrInvalidConfig, a.ID, err)
			}
		}
		if a.Exploration != nil && *a.Exploration < 0 {
			return fmt.Errorf("%w: agent %d: negative exploration", ErrInvalidConfig, a.ID)
		}
	}

	if len(c.MatchUps) == 0 {
		return fmt.Errorf("%w: no match ups", ErrInvalidConfig)
	}
	for i, m := range c.MatchUps {
		if len(m) != 2 {
			return fmt.Errorf("%w: match up %d pairs %d agents", ErrInvalidConfig, i+1, len(m))
		}
		for _, id := range m {
			if !ids[id] {
				return fmt.Errorf("%w: match up %d: unknown agent id %d", ErrInvalidConfig, i+1, id)
			}
		}
	}
	return nil
}

func (c Config) agent(id int) metrics.AgentConfig {
	for _, a := range c.Agents {
		if a.ID == id {
			return a
		}
	}
	panic(fmt.Sprintf("unknown agent id %d", id))
}
