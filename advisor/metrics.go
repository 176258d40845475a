package advisor

import (
	"sync/atomic"
	"time"
)

// SearchMetrics summarizes one movement search.
type SearchMetrics struct {
	StartTime  time.Time
	Duration   time.Duration
	Candidates int
	Rollouts   int64
	Decisive   int64 // rollouts that reached a decided game before cutoff
}

type Collector interface {
	Start(candidates int)
	AddRollout()
	AddDecisive()
	Complete() SearchMetrics
}

type collector struct {
	startTime  time.Time
	candidates int
	rollouts   atomic.Int64
	decisive   atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start(candidates int) {
	c.startTime = time.Now()
	c.candidates = candidates
	c.rollouts.Store(0)
	c.decisive.Store(0)
}

func (c *collector) AddRollout() {
	c.rollouts.Add(1)
}

func (c *collector) AddDecisive() {
	c.decisive.Add(1)
}

func (c *collector) Complete() SearchMetrics {
	return SearchMetrics{
		StartTime:  c.startTime,
		Duration:   time.Since(c.startTime),
		Candidates: c.candidates,
		Rollouts:   c.rollouts.Load(),
		Decisive:   c.decisive.Load(),
	}
}

type noopCollector struct{}

func NewNoopCollector() Collector { return noopCollector{} }

func (noopCollector) Start(int)               {}
func (noopCollector) AddRollout()             {}
func (noopCollector) AddDecisive()            {}
func (noopCollector) Complete() SearchMetrics { return SearchMetrics{} }
