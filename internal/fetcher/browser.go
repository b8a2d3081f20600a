package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/rohmanhakim/hreflang-audit/pkg/failure"
)

// fetchBrowser renders the page in a headless browser. This is the last
// resort for origins that serve challenge pages to plain HTTP clients;
// a real browser executes the JavaScript those challenges expect.
func (f *Fetcher) fetchBrowser(ctx context.Context, fetchUrl url.URL) (FetchResult, failure.ClassifiedError) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var html string
	var userAgent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(fetchUrl.String()),
		chromedp.WaitReady("body", chromedp.ByQuery),
		// Give client-side redirects and challenge scripts time to settle.
		chromedp.Sleep(f.renderWait),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Evaluate("navigator.userAgent", &userAgent),
	)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("browser render failed for %s: %v", fetchUrl.String(), err),
			Retryable: false,
			Cause:     ErrCauseBrowserFailure,
		}
	}

	body := []byte(html)
	if blockedBody(body) {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("challenge page rendered for %s", fetchUrl.String()),
			Retryable: false,
			Cause:     ErrCauseRequestBlocked,
		}
	}

	return FetchResult{
		url:       fetchUrl,
		body:      body,
		method:    FetchMethodBrowser,
		userAgent: userAgent,
		meta: ResponseMeta{
			// The devtools protocol does not surface the document status
			// here; a rendered page is treated as a 200.
			statusCode:      200,
			responseHeaders: map[string]string{},
		},
	}, nil
}

// defaultRenderWait is how long the browser strategy waits after the
// document is ready before snapshotting the DOM.
const defaultRenderWait = 3 * time.Second
