package runner

import (
	"context"
	"sync"
	"time"

	"github.com/rohmanhakim/hreflang-audit/internal/analyzer"
	"github.com/rohmanhakim/hreflang-audit/internal/config"
	"github.com/rohmanhakim/hreflang-audit/internal/fetcher"
	"github.com/rohmanhakim/hreflang-audit/internal/metadata"
	"github.com/rohmanhakim/hreflang-audit/internal/page"
	"github.com/rohmanhakim/hreflang-audit/pkg/failure"
	"github.com/rohmanhakim/hreflang-audit/pkg/limiter"
	"github.com/rohmanhakim/hreflang-audit/pkg/retry"
	"github.com/rohmanhakim/hreflang-audit/pkg/timeutil"
	"github.com/rohmanhakim/hreflang-audit/pkg/urlutil"
)

/*
 Runner is the sole control-plane authority of an audit run.

 Guarantees:
 - Every input URL yields exactly one PageRecord in a completed run.
 - A URL's failure never aborts the batch; it becomes a Failed record.
 - Cancellation stops workers from claiming new URLs; URLs already
   claimed finish and their records are kept.
 - Workers share one rate limiter, so requests against the same host
   honor the polite delay regardless of which worker sends them.

 Metadata emission is observational only and MUST NOT influence
 scheduling, retries, or run termination.

 Pipeline stages may detect and classify failure, but must never
 decide retry, continuation, or abortion. The runner holds that
 authority alone.
*/

type Runner struct {
	cfg          config.Config
	htmlFetcher  *fetcher.Fetcher
	pageAnalyzer analyzer.Analyzer
	rateLimiter  *limiter.ConcurrentRateLimiter
	metadataSink metadata.MetadataSink
	runFinalizer metadata.RunFinalizer
	progressFn   ProgressFunc
}

func NewRunner(cfg config.Config) Runner {
	recorder := metadata.NewRecorder("audit-pool", nil)
	return NewRunnerWithDeps(cfg, &recorder, &recorder)
}

// NewRunnerWithDeps creates a Runner with injected metadata interfaces
// so tests can verify behavior without real infrastructure.
func NewRunnerWithDeps(
	cfg config.Config,
	runFinalizer metadata.RunFinalizer,
	metadataSink metadata.MetadataSink,
) Runner {
	htmlFetcher := fetcher.NewFetcher(cfg.Timeout(), cfg.UserAgent(), cfg.WarmUp(), metadataSink)
	parser := page.NewParser(metadataSink)
	pageAnalyzer := analyzer.NewAnalyzer(
		&parser,
		cfg.MaxAlternates(),
		cfg.StrictCanonical(),
		cfg.NoteMissingHreflang(),
		cfg.TruncateTitle(),
	)

	rateLimiter := limiter.NewConcurrentRateLimiter()
	rateLimiter.SetBaseDelay(cfg.BaseDelay())
	rateLimiter.SetJitter(cfg.Jitter())
	rateLimiter.SetRandomSeed(cfg.RandomSeed())

	return Runner{
		cfg:          cfg,
		htmlFetcher:  htmlFetcher,
		pageAnalyzer: pageAnalyzer,
		rateLimiter:  rateLimiter,
		metadataSink: metadataSink,
		runFinalizer: runFinalizer,
	}
}

// SetProgressFunc installs a per-URL completion callback. The callback
// is invoked from worker goroutines, one call per finished record.
func (r *Runner) SetProgressFunc(progressFn ProgressFunc) {
	r.progressFn = progressFn
}

// Fetcher exposes the underlying fetcher for test configuration.
func (r *Runner) Fetcher() *fetcher.Fetcher {
	return r.htmlFetcher
}

// Run audits every URL in rawURLs and returns the collected records.
// Record order follows completion, not input, when concurrency is
// above one.
func (r *Runner) Run(ctx context.Context, rawURLs []string) (RunResult, failure.ClassifiedError) {
	runStartTime := time.Now()

	if len(rawURLs) == 0 {
		runnerError := &RunnerError{
			Message:   "at least one URL is required",
			Retryable: false,
			Cause:     ErrCauseNoInput,
		}
		r.metadataSink.RecordError(
			time.Now(),
			"runner",
			"Runner.Run",
			metadata.CauseContentInvalid,
			runnerError.Error(),
			nil,
		)
		return RunResult{}, runnerError
	}

	total := len(rawURLs)
	runCtx := &runContext{}
	retryParam := r.retryParam()

	workQueue := make(chan string)
	workers := r.cfg.Concurrency()
	if workers > total {
		workers = total
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Cancellation gates claiming only. A claimed URL runs on a
			// detached context so its fetch completes naturally.
			fetchCtx := context.WithoutCancel(ctx)
			for rawURL := range workQueue {
				if ctx.Err() != nil {
					continue
				}
				record := r.processURL(fetchCtx, rawURL, retryParam)
				completed := runCtx.collect(record)
				if r.progressFn != nil {
					r.progressFn(completed, total, rawURL)
				}
			}
		}()
	}

feed:
	for _, rawURL := range rawURLs {
		select {
		case <-ctx.Done():
			break feed
		case workQueue <- rawURL:
		}
	}
	close(workQueue)
	wg.Wait()

	records := runCtx.snapshot()
	result := RunResult{
		Records:   records,
		Cancelled: ctx.Err() != nil,
		Duration:  time.Since(runStartTime),
	}
	for _, record := range records {
		if record.Status == analyzer.StatusFailed {
			result.TotalFailed++
		}
		result.TotalIssues += len(record.Issues)
	}

	r.runFinalizer.RecordFinalRunStats(
		len(records),
		result.TotalFailed,
		result.TotalIssues,
		result.Duration,
	)
	return result, nil
}

// processURL runs the fetch → parse → validate pipeline for one URL.
// It is total: every outcome is a record.
func (r *Runner) processURL(ctx context.Context, rawURL string, retryParam retry.RetryParam) analyzer.PageRecord {
	parsedURL, err := urlutil.NormalizeInput(rawURL)
	if err != nil {
		r.metadataSink.RecordError(
			time.Now(),
			"runner",
			"Runner.processURL",
			metadata.CauseContentInvalid,
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, rawURL),
			},
		)
		return analyzer.FailedRecord(rawURL, err.Error())
	}

	host := parsedURL.Host
	if !r.politeWait(ctx, host) {
		return analyzer.FailedRecord(rawURL, "cancelled before fetch")
	}
	r.rateLimiter.MarkLastFetchAsNow(host)

	fetchParam := fetcher.NewFetchParam(parsedURL, r.cfg.Method())
	fetchResult, fetchErr := r.htmlFetcher.Fetch(ctx, fetchParam, retryParam)
	if fetchErr != nil {
		r.rateLimiter.Backoff(host)
		return analyzer.FailedRecord(rawURL, fetchErr.Error())
	}
	r.rateLimiter.ResetBackoff(host)

	return r.pageAnalyzer.Analyze(rawURL, fetchResult)
}

// politeWait blocks for the host's resolved delay. Returns false when
// the run is cancelled before the delay elapses.
func (r *Runner) politeWait(ctx context.Context, host string) bool {
	delay := r.rateLimiter.ResolveDelay(host)
	if delay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (r *Runner) retryParam() retry.RetryParam {
	return retry.NewRetryParam(
		r.cfg.BaseDelay(),
		r.cfg.Jitter(),
		r.cfg.RandomSeed(),
		r.cfg.MaxAttempt(),
		timeutil.NewBackoffParam(
			r.cfg.BackoffInitialDuration(),
			r.cfg.BackoffMultiplier(),
			r.cfg.BackoffMaxDuration(),
		),
	)
}
