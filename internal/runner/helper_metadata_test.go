package runner_test

import (
	"sync"
	"time"

	"github.com/rohmanhakim/hreflang-audit/internal/metadata"
)

// mockMetadataSink captures recorded events for assertions.
// Safe for concurrent use; workers record from separate goroutines.
type mockMetadataSink struct {
	mu          sync.Mutex
	fetchEvents []string
	errorEvents []recordedError
}

type recordedError struct {
	PackageName string
	Action      string
	Cause       metadata.ErrorCause
	ErrorString string
}

func (m *mockMetadataSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	strategy string,
	contentHash string,
	retryCount int,
) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchEvents = append(m.fetchEvents, fetchUrl)
}

func (m *mockMetadataSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	errorString string,
	attrs []metadata.Attribute,
) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorEvents = append(m.errorEvents, recordedError{
		PackageName: packageName,
		Action:      action,
		Cause:       cause,
		ErrorString: errorString,
	})
}

func (m *mockMetadataSink) errorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.errorEvents)
}

// mockRunFinalizer captures final run stats.
type mockRunFinalizer struct {
	mu    sync.Mutex
	calls []finalStats
}

type finalStats struct {
	TotalPages  int
	TotalFailed int
	TotalIssues int
	Duration    time.Duration
}

func (m *mockRunFinalizer) RecordFinalRunStats(
	totalPages int,
	totalFailed int,
	totalIssues int,
	duration time.Duration,
) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, finalStats{
		TotalPages:  totalPages,
		TotalFailed: totalFailed,
		TotalIssues: totalIssues,
		Duration:    duration,
	})
}

func (m *mockRunFinalizer) stats() []finalStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
