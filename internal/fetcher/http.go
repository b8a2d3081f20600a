package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rohmanhakim/hreflang-audit/pkg/failure"
	"github.com/rohmanhakim/hreflang-audit/pkg/retry"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 10 * 1024 * 1024

// fetchHTTP performs a plain HTTP fetch with the given identity,
// retrying transient failures.
func (f *Fetcher) fetchHTTP(
	ctx context.Context,
	fetchUrl url.URL,
	userAgent string,
	retryParam retry.RetryParam,
) (FetchResult, failure.ClassifiedError) {
	if f.warmUp {
		f.performWarmUp(ctx, userAgent)
	}

	fetchTask := func() (FetchResult, failure.ClassifiedError) {
		return f.performFetch(ctx, fetchUrl, userAgent)
	}

	result, retryErr := retry.Retry(retryParam, fetchTask)
	if retryErr != nil {
		return FetchResult{}, retryErr
	}

	// A served body can still be a challenge page.
	if blockedBody(result.Body()) {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("challenge page served for %s", fetchUrl.String()),
			Retryable: false,
			Cause:     ErrCauseRequestBlocked,
		}
	}

	return result, nil
}

// performWarmUp requests a neutral origin so the shared cookie jar picks
// up session cookies before the real request. Failures are ignored; the
// warm-up is best-effort.
func (f *Fetcher) performWarmUp(ctx context.Context, userAgent string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.warmUpTarget, nil)
	if err != nil {
		return
	}
	for key, value := range requestHeaders(userAgent) {
		req.Header.Set(key, value)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	resp.Body.Close()
}

func (f *Fetcher) performFetch(ctx context.Context, fetchUrl url.URL, userAgent string) (FetchResult, failure.ClassifiedError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchUrl.String(), nil)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("failed to create request: %v", err),
			Retryable: false,
			Cause:     ErrCauseNetworkFailure,
		}
	}

	// Apply browser-like headers
	for key, value := range requestHeaders(userAgent) {
		req.Header.Set(key, value)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		// Network/transport errors are retryable
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("request failed: %v", err),
			Retryable: true,
			Cause:     ErrCauseNetworkFailure,
		}
	}
	defer resp.Body.Close()

	// Handle HTTP status codes
	switch {
	case blockedStatus(resp.StatusCode):
		// 403/429/503 signal anti-bot pushback; the chain decides whether
		// another identity gets a shot. Retrying the same identity won't help.
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("blocked status: %d", resp.StatusCode),
			Retryable: false,
			Cause:     ErrCauseRequestBlocked,
		}

	case resp.StatusCode >= 500:
		// Server errors (5xx) are retryable
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("server error: %d", resp.StatusCode),
			Retryable: true,
			Cause:     ErrCauseRequest5xx,
		}

	case resp.StatusCode >= 400:
		// Other client errors are not retryable
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("client error: %d", resp.StatusCode),
			Retryable: false,
			Cause:     ErrCauseRequestClientError,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("failed to read response body: %v", err),
			Retryable: true,
			Cause:     ErrCauseReadResponseBodyError,
		}
	}

	// Build response headers map
	responseHeaders := make(map[string]string)
	for key, values := range resp.Header {
		if len(values) > 0 {
			responseHeaders[key] = values[0]
		}
	}

	// Redirects were followed by the client; report where we ended up.
	finalURL := fetchUrl
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = *resp.Request.URL
	}

	return FetchResult{
		url:       finalURL,
		body:      body,
		method:    FetchMethodHTTP,
		userAgent: userAgent,
		meta: ResponseMeta{
			statusCode:      resp.StatusCode,
			responseHeaders: responseHeaders,
		},
	}, nil
}
