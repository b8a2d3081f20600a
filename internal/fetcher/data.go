package fetcher

import (
	"net/url"
)

// HTTP boundary

// FetchMethod identifies which transport produced a page body.
type FetchMethod string

const (
	FetchMethodHTTP    FetchMethod = "HTTP"
	FetchMethodBrowser FetchMethod = "Browser"
)

type FetchParam struct {
	fetchUrl url.URL
	method   string
}

func NewFetchParam(fetchUrl url.URL, method string) FetchParam {
	return FetchParam{
		fetchUrl: fetchUrl,
		method:   method,
	}
}

func (p *FetchParam) URL() url.URL {
	return p.fetchUrl
}

func (p *FetchParam) Method() string {
	return p.method
}

type FetchResult struct {
	url       url.URL
	body      []byte
	method    FetchMethod
	userAgent string
	meta      ResponseMeta
}

func (f *FetchResult) URL() url.URL {
	return f.url
}

func (f *FetchResult) Body() []byte {
	return f.body
}

func (f *FetchResult) Method() FetchMethod {
	return f.method
}

func (f *FetchResult) UserAgent() string {
	return f.userAgent
}

func (f *FetchResult) Code() int {
	return f.meta.statusCode
}

func (f *FetchResult) Headers() map[string]string {
	return f.meta.responseHeaders
}

type ResponseMeta struct {
	statusCode      int
	responseHeaders map[string]string
}

// NewFetchResultForTest creates a FetchResult for testing purposes.
// This allows test packages to construct FetchResult values without
// accessing unexported fields directly.
func NewFetchResultForTest(
	url url.URL,
	body []byte,
	method FetchMethod,
	userAgent string,
	statusCode int,
	responseHeaders map[string]string,
) FetchResult {
	return FetchResult{
		url:       url,
		body:      body,
		method:    method,
		userAgent: userAgent,
		meta: ResponseMeta{
			statusCode:      statusCode,
			responseHeaders: responseHeaders,
		},
	}
}
