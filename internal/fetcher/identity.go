package fetcher

import "sync/atomic"

// Browser identities rotated across requests. A page that blocks one of
// these sometimes serves another, and several anti-bot layers whitelist
// well-known crawler agents entirely.
var browserUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.6 Safari/605.1.15",
}

const crawlerUserAgent = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"

// warmUpOrigin is a neutral page requested before the real target to pick
// up cookies; some sites challenge cookie-less clients.
const warmUpOrigin = "https://www.google.com/"

// identityPool hands out browser user agents round-robin.
// Safe for concurrent use.
type identityPool struct {
	next     atomic.Uint64
	override string
}

func newIdentityPool(override string) *identityPool {
	return &identityPool{override: override}
}

func (p *identityPool) BrowserAgent() string {
	if p.override != "" {
		return p.override
	}
	n := p.next.Add(1)
	return browserUserAgents[int(n-1)%len(browserUserAgents)]
}

func (p *identityPool) CrawlerAgent() string {
	if p.override != "" {
		return p.override
	}
	return crawlerUserAgent
}

func requestHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":                userAgent,
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.5",
		"Upgrade-Insecure-Requests": "1",
		"Connection":                "keep-alive",
		"Referer":                   "https://www.google.com/",
		// Accept-Encoding is left to the transport so gzip bodies are
		// transparently decoded.
	}
}
