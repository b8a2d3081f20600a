package metadata

import (
	"log/slog"
	"time"
)

/*
Metadata Collected
- Fetch timestamps
- HTTP status codes
- Content hashes
- Fetch strategy used

Logging Goals
- Debuggable audit behavior
- Post-run auditability
- Failure diagnostics

Structured logging is preferred.

Determinism guarantees:
 - Metadata does not affect control flow
 - Errors do not reorder the work queue
 - Output is stable given identical inputs

Metadata is write-only.
No component may read metadata to influence audit decisions.
*/

/*
Recorder captures structured audit events.
It must not:
- perform I/O decisions
- affect control flow
Ordering guarantees:
- Events are recorded synchronously in the order they are received by a single worker.
- No global ordering across workers is guaranteed.
- Ordering is provided for debuggability, not causality.
*/
type Recorder struct {
	workerId string
	logger   *slog.Logger
}

func NewRecorder(workerId string, logger *slog.Logger) Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return Recorder{
		workerId: workerId,
		logger:   logger,
	}
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	strategy string,
	contentHash string,
	retryCount int,
) {
	r.logger.Info("fetch",
		slog.String("worker", r.workerId),
		slog.String("url", fetchUrl),
		slog.Int("status", httpStatus),
		slog.Duration("duration", duration),
		slog.String("strategy", strategy),
		slog.String("content_hash", contentHash),
		slog.Int("retries", retryCount),
	)
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	logAttrs := []any{
		slog.String("worker", r.workerId),
		slog.Time("observed_at", observedAt),
		slog.String("package", packageName),
		slog.String("action", action),
		slog.String("cause", cause.String()),
		slog.String("error", errorString),
	}
	for _, a := range attrs {
		logAttrs = append(logAttrs, slog.String(string(a.Key()), a.Value()))
	}
	r.logger.Error("pipeline error", logAttrs...)
}

/*
RecordFinalRunStats records a terminal, derived summary of a completed run.

Contract:
  - MUST be called exactly once per run execution.
  - MUST be called only after run termination
    (work queue drained or run cancelled).
  - The provided stats MUST be derived from runner state,
    not accumulated incrementally via the recorder.
  - Recorded stats MUST NOT influence control flow or scheduling.
*/
func (r *Recorder) RecordFinalRunStats(
	totalPages int,
	totalFailed int,
	totalIssues int,
	duration time.Duration,
) {
	stats := runStats{
		totalPages:  totalPages,
		totalFailed: totalFailed,
		totalIssues: totalIssues,
		durationMs:  duration.Milliseconds(),
	}

	r.logger.Info("run complete",
		slog.String("worker", r.workerId),
		slog.Int("pages", stats.totalPages),
		slog.Int("failed", stats.totalFailed),
		slog.Int("issues", stats.totalIssues),
		slog.Int64("duration_ms", stats.durationMs),
	)
}

type MetadataSink interface {
	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		strategy string,
		contentHash string,
		retryCount int,
	)
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		errorString string,
		attrs []Attribute,
	)
}

// NoopSink, struct that implements metadata.MetadataSink but does nothing
// Runner (or Test) can decide whether to inject Recorder or NoopSink
type NoopSink struct{}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	strategy string,
	contentHash string,
	retryCount int,
) {
}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
}

type RunFinalizer interface {
	RecordFinalRunStats(
		totalPages int,
		totalFailed int,
		totalIssues int,
		duration time.Duration,
	)
}
