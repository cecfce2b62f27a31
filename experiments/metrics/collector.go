package metrics

import (
	"sync/atomic"
	"time"

	"guardtowers/game"
)

type SearchMetric struct {
	MaxDepth int
	Depth    int // deepest iteration that completed
	Budget   time.Duration
	Duration time.Duration
	Pruning  bool
	Evaluate game.Evaluate
	Nodes    int
	Leaves   int
	Cutoffs  int
}

type MoveMetric struct {
	Step   int
	Player string // "r" or "b"
	Move   string
	Score  int
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winner         string // "-" for a draw
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(maxDepth int, budget time.Duration, pruning bool, evaluate game.Evaluate)
	SetDepth(depth int)
	AddNode()
	AddLeaf()
	AddCutoff()
	Complete() SearchMetric
}

type collector struct {
	maxDepth  int
	budget    time.Duration
	pruning   bool
	evaluate  game.Evaluate
	startTime time.Time
	depth     atomic.Int32
	nodes     atomic.Int64
	leaves    atomic.Int64
	cutoffs   atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(maxDepth int, budget time.Duration, pruning bool, evaluate game.Evaluate) {
	m.startTime = time.Now()
	m.maxDepth = maxDepth
	m.budget = budget
	m.pruning = pruning
	m.evaluate = evaluate
	m.depth.Store(0)
	m.nodes.Store(0)
	m.leaves.Store(0)
	m.cutoffs.Store(0)
}

func (m *collector) SetDepth(depth int) {
	m.depth.Store(int32(depth))
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddLeaf() {
	m.leaves.Add(1)
}

func (m *collector) AddCutoff() {
	m.cutoffs.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		MaxDepth: m.maxDepth,
		Depth:    int(m.depth.Load()),
		Budget:   m.budget,
		Duration: time.Since(m.startTime),
		Pruning:  m.pruning,
		Evaluate: m.evaluate,
		Nodes:    int(m.nodes.Load()),
		Leaves:   int(m.leaves.Load()),
		Cutoffs:  int(m.cutoffs.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(int, time.Duration, bool, game.Evaluate) {}
func (m *dummyCollector) SetDepth(int)                                  {}
func (m *dummyCollector) AddNode()                                      {}
func (m *dummyCollector) AddLeaf()                                      {}
func (m *dummyCollector) AddCutoff()                                    {}
func (m *dummyCollector) Complete() SearchMetric                        { return SearchMetric{} }
