package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type AgentConfig struct {
	ID          int      `yaml:"id"`
	Algorithm   string   `yaml:"algorithm"`
	Depth       int      `yaml:"depth,omitempty"`
	Simulations int      `yaml:"simulations,omitempty"`
	Exploration *float64 `yaml:"exploration,omitempty"`
	Temperature float64  `yaml:"temperature,omitempty"`
	Reward      string   `yaml:"reward,omitempty"`
	Cache       string   `yaml:"cache,omitempty"`
	Seed        uint64   `yaml:"seed,omitempty"`
}

type GameRecord struct {
	ID     string // UUID
	Agent1 int    // AgentConfig.ID, plays first
	Agent2 int    // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game string // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of dir named by experiment and current
// timestamp.
func NewWriter(dir, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(dir, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "algorithm", "depth", "simulations", "exploration", "temperature", "reward", "cache", "seed"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		exploration := ""
		if config.Exploration != nil {
			exploration = strconv.FormatFloat(*config.Exploration, 'g', -1, 64)
		}
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Algorithm,
			strconv.Itoa(config.Depth),
			strconv.Itoa(config.Simulations),
			exploration,
			strconv.FormatFloat(config.Temperature, 'g', -1, 64),
			config.Reward,
			config.Cache,
			strconv.FormatUint(config.Seed, 10),
		})
	}
	return w.write("agent_configs.csv", "agent configs", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent1", "agent2", "first_mover", "winner", "start_time", "end_time", "duration", "total_moves"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.ID,
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			record.FirstMover,
			record.Winner,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		})
	}
	return w.write("game_records.csv", "game records", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "agent", "algorithm", "depth", "simulations", "duration", "expansions", "cache_size", "cache_reused", "value"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Game,
			strconv.Itoa(record.Step),
			record.Agent,
			record.Algorithm,
			strconv.Itoa(record.Depth),
			strconv.Itoa(record.Simulations),
			record.Duration.String(),
			strconv.Itoa(record.Expansions),
			strconv.Itoa(record.CacheSize),
			strconv.FormatBool(record.CacheReused),
			strconv.FormatFloat(record.Value, 'g', -1, 64),
		})
	}
	return w.write("move_records.csv", "move records", header, rows)
}

func (w *Writer) WriteSummaries(summaries []Summary) error {
	header := []string{"agent", "games", "wins", "losses", "draws", "win_rate", "mean_search_ms", "stddev_search_ms", "mean_expansions"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			strconv.Itoa(s.Agent),
			strconv.Itoa(s.Games),
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.Losses),
			strconv.Itoa(s.Draws),
			strconv.FormatFloat(s.WinRate, 'f', 3, 64),
			strconv.FormatFloat(s.MeanSearchMillis, 'f', 3, 64),
			strconv.FormatFloat(s.StdDevSearchMillis, 'f', 3, 64),
			strconv.FormatFloat(s.MeanExpansions, 'f', 1, 64),
		})
	}
	return w.write("summaries.csv", "summaries", header, rows)
}

func (w *Writer) write(file, what string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", what, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", what, err)
	}
	err = writer.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", what, err)
	}
	return nil
}
