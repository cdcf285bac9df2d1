package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Algorithm   string
	Depth       int
	Simulations int
	Duration    time.Duration
	Expansions  int // Positions materialized during the search
	CacheSize   int
	CacheReused bool
	Value       float64
}

type MoveMetric struct {
	Step  int
	Agent string
	SearchMetric
}

type GameMetric struct {
	FirstMover string
	Winner     string // Empty for a draw or an unfinished game
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
}

type Collector interface {
	Start(algorithm string, depth int)
	SetCacheReused(value bool)
	AddExpansions(n int)
	AddSimulation()
	Complete(cacheSize int, value float64) SearchMetric
}

type collector struct {
	algorithm   string
	depth       int
	startTime   time.Time
	expansions  atomic.Int64
	completed   atomic.Int64
	cacheReused atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(algorithm string, depth int) {
	m.algorithm = algorithm
	m.depth = depth
	m.startTime = time.Now()
	m.expansions.Store(0)
	m.completed.Store(0)
	m.cacheReused.Store(false)
}

func (m *collector) SetCacheReused(value bool) {
	m.cacheReused.Store(value)
}

func (m *collector) AddExpansions(n int) {
	m.expansions.Add(int64(n))
}

func (m *collector) AddSimulation() {
	m.completed.Add(1)
}

func (m *collector) Complete(cacheSize int, value float64) SearchMetric {
	return SearchMetric{
		Algorithm:   m.algorithm,
		Depth:       m.depth,
		Simulations: int(m.completed.Load()),
		Duration:    time.Since(m.startTime),
		Expansions:  int(m.expansions.Load()),
		CacheSize:   cacheSize,
		CacheReused: m.cacheReused.Load(),
		Value:       value,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(algorithm string, depth int) {}
func (m *dummyCollector) SetCacheReused(value bool)         {}
func (m *dummyCollector) AddExpansions(n int)               {}
func (m *dummyCollector) AddSimulation()                    {}
func (m *dummyCollector) Complete(cacheSize int, value float64) SearchMetric {
	return SearchMetric{}
}
