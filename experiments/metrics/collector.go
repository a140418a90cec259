package metrics

import (
	"time"
)

// SearchMetric summarizes one Compute call.
type SearchMetric struct {
	Iterations     int
	Playouts       int // random playouts run (simulations per expansion x iterations)
	Expansions     int // nodes created
	Transpositions int // expansions that landed on an existing node
	GraphReused    bool
	Duration       time.Duration
}

// MoveMetric ties a search to its place in a match.
type MoveMetric struct {
	Ply    int
	Player string
	SearchMetric
}

// MatchMetric summarizes a finished match.
type MatchMetric struct {
	StartingPlayer string
	Winner         string
	Plies          int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}

// Collector accumulates counters over one search. The engine is
// single-threaded, so plain counters suffice.
type Collector interface {
	Start(iterations int)
	SetGraphReused(value bool)
	AddPlayout()
	AddExpansion()
	AddTransposition()
	Complete() SearchMetric
}

type collector struct {
	iterations     int
	startTime      time.Time
	playouts       int
	expansions     int
	transpositions int
	graphReused    bool
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start(iterations int) {
	c.startTime = time.Now()
	c.iterations = iterations
	c.playouts = 0
	c.expansions = 0
	c.transpositions = 0
}

func (c *collector) SetGraphReused(value bool) {
	c.graphReused = value
}

func (c *collector) AddPlayout() {
	c.playouts++
}

func (c *collector) AddExpansion() {
	c.expansions++
}

func (c *collector) AddTransposition() {
	c.transpositions++
}

func (c *collector) Complete() SearchMetric {
	return SearchMetric{
		Iterations:     c.iterations,
		Playouts:       c.playouts,
		Expansions:     c.expansions,
		Transpositions: c.transpositions,
		GraphReused:    c.graphReused,
		Duration:       time.Since(c.startTime),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (c *dummyCollector) Start(iterations int)      {}
func (c *dummyCollector) SetGraphReused(value bool) {}
func (c *dummyCollector) AddPlayout()               {}
func (c *dummyCollector) AddExpansion()             {}
func (c *dummyCollector) AddTransposition()         {}
func (c *dummyCollector) Complete() SearchMetric    { return SearchMetric{} }
