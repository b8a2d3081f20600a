package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/rohmanhakim/hreflang-audit/internal/metadata"
	"github.com/rohmanhakim/hreflang-audit/pkg/failure"
	"github.com/rohmanhakim/hreflang-audit/pkg/hashutil"
	"github.com/rohmanhakim/hreflang-audit/pkg/retry"
)

const maxRedirects = 10

// Fetcher retrieves pages, escalating through identities until one gets
// past the origin's defenses:
//
//  1. plain HTTP with a rotating browser identity
//  2. plain HTTP with a crawler identity
//  3. a headless browser render
//
// A blocked response or any hard failure advances the chain; the first
// strategy to produce a usable body wins.
type Fetcher struct {
	httpClient   *http.Client
	identities   *identityPool
	warmUp       bool
	warmUpTarget string
	renderWait   time.Duration
	metadataSink metadata.MetadataSink
}

func NewFetcher(
	timeout time.Duration,
	userAgentOverride string,
	warmUp bool,
	metadataSink metadata.MetadataSink,
) *Fetcher {
	// Cookie jar is shared across the warm-up and the real request so
	// session cookies set during warm-up are presented.
	jar, _ := cookiejar.New(nil)
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		identities:   newIdentityPool(userAgentOverride),
		warmUp:       warmUp,
		warmUpTarget: warmUpOrigin,
		renderWait:   defaultRenderWait,
		metadataSink: metadataSink,
	}
}

// fetchStrategy is one rung of the escalation ladder.
type fetchStrategy struct {
	name string
	run  func(ctx context.Context, param FetchParam, retryParam retry.RetryParam) (FetchResult, failure.ClassifiedError)
}

func (f *Fetcher) strategiesFor(method string) []fetchStrategy {
	directHTTP := fetchStrategy{
		name: "direct-http",
		run: func(ctx context.Context, param FetchParam, retryParam retry.RetryParam) (FetchResult, failure.ClassifiedError) {
			return f.fetchHTTP(ctx, param.URL(), f.identities.BrowserAgent(), retryParam)
		},
	}
	crawlerHTTP := fetchStrategy{
		name: "crawler-http",
		run: func(ctx context.Context, param FetchParam, retryParam retry.RetryParam) (FetchResult, failure.ClassifiedError) {
			return f.fetchHTTP(ctx, param.URL(), f.identities.CrawlerAgent(), retryParam)
		},
	}
	browser := fetchStrategy{
		name: "browser",
		run: func(ctx context.Context, param FetchParam, retryParam retry.RetryParam) (FetchResult, failure.ClassifiedError) {
			return f.fetchBrowser(ctx, param.URL())
		},
	}

	switch method {
	case "http":
		return []fetchStrategy{directHTTP, crawlerHTTP}
	case "browser":
		return []fetchStrategy{browser}
	default:
		return []fetchStrategy{directHTTP, crawlerHTTP, browser}
	}
}

// Fetch walks the strategy chain for the requested method until one
// strategy returns a usable body. Every attempt is recorded; only the
// terminal failure is returned.
func (f *Fetcher) Fetch(ctx context.Context, param FetchParam, retryParam retry.RetryParam) (FetchResult, failure.ClassifiedError) {
	strategies := f.strategiesFor(param.Method())
	fetchUrl := param.URL()

	var lastErr failure.ClassifiedError
	for _, strategy := range strategies {
		if ctx.Err() != nil {
			return FetchResult{}, &FetchError{
				Message:   fmt.Sprintf("fetch cancelled for %s: %v", fetchUrl.String(), ctx.Err()),
				Retryable: false,
				Cause:     ErrCauseTimeout,
			}
		}

		startedAt := time.Now()
		result, fetchErr := strategy.run(ctx, param, retryParam)
		if fetchErr == nil {
			f.recordFetch(param, result, strategy.name, time.Since(startedAt))
			return result, nil
		}

		lastErr = fetchErr
		f.recordFetchError(param, strategy.name, fetchErr)
	}

	return FetchResult{}, &FetchError{
		Message:   fmt.Sprintf("all fetch strategies failed for %s: %v", fetchUrl.String(), lastErr),
		Retryable: false,
		Cause:     ErrCauseAllStrategiesFailed,
	}
}

func (f *Fetcher) recordFetch(param FetchParam, result FetchResult, strategy string, duration time.Duration) {
	if f.metadataSink == nil {
		return
	}
	contentHash, err := hashutil.HashBytes(result.Body(), hashutil.HashAlgoBLAKE3)
	if err != nil {
		contentHash = ""
	}
	fetchUrl := param.URL()
	f.metadataSink.RecordFetch(
		fetchUrl.String(),
		result.Code(),
		duration,
		strategy,
		contentHash,
		0,
	)
}

func (f *Fetcher) recordFetchError(param FetchParam, strategy string, fetchErr failure.ClassifiedError) {
	if f.metadataSink == nil {
		return
	}
	fetchUrl := param.URL()
	f.metadataSink.RecordError(
		time.Now(),
		"fetcher",
		"fetch",
		metadataCause(fetchErr),
		fetchErr.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, fetchUrl.String()),
			metadata.NewAttr(metadata.AttrStrategy, strategy),
		},
	)
}

// SetHTTPClientForTest swaps the underlying HTTP client.
func (f *Fetcher) SetHTTPClientForTest(client *http.Client) {
	f.httpClient = client
}

// SetRenderWaitForTest shortens the browser settle delay.
func (f *Fetcher) SetRenderWaitForTest(wait time.Duration) {
	f.renderWait = wait
}

// SetWarmUpTargetForTest redirects the warm-up request to a local server.
func (f *Fetcher) SetWarmUpTargetForTest(target string) {
	f.warmUpTarget = target
}
