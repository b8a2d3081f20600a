package runner

import (
	"sync"
	"time"

	"github.com/rohmanhakim/hreflang-audit/internal/analyzer"
)

// ProgressFunc receives one call per completed URL. completed counts
// finished records, total is the input size, currentURL is the input
// that just finished.
type ProgressFunc func(completed int, total int, currentURL string)

type RunResult struct {
	Records     []analyzer.PageRecord
	TotalFailed int
	TotalIssues int
	Cancelled   bool
	Duration    time.Duration
}

// runContext is the run-scoped mutable state shared by workers.
// All access goes through collect.
type runContext struct {
	mu        sync.Mutex
	records   []analyzer.PageRecord
	completed int
}

// collect appends a finished record and returns the completion count
// including it.
func (rc *runContext) collect(record analyzer.PageRecord) int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.records = append(rc.records, record)
	rc.completed++
	return rc.completed
}

func (rc *runContext) snapshot() []analyzer.PageRecord {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.records
}
