package fetcher

import (
	"bytes"
	"net/http"
)

// Markers that anti-bot interstitials and challenge pages tend to carry.
// Matched case-insensitively against the response body. Phrase-level
// markers only: single words like "bot" or "security" occur in ordinary
// page content ("robots" meta tags, privacy footers) and would classify
// almost everything as blocked.
var blockedBodyMarkers = [][]byte{
	[]byte("access denied"),
	[]byte("cloudflare"),
	[]byte("captcha"),
	[]byte("security check"),
	[]byte("bot detected"),
	[]byte("request blocked"),
	[]byte("access to this page has been denied"),
}

// blockedStatus reports whether an HTTP status code is treated as an
// anti-bot rejection rather than a genuine response.
func blockedStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusForbidden, http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true
	}
	return false
}

// blockedBody reports whether a successfully served body looks like a
// challenge page instead of real content.
func blockedBody(body []byte) bool {
	lower := bytes.ToLower(body)
	for _, marker := range blockedBodyMarkers {
		if bytes.Contains(lower, marker) {
			return true
		}
	}
	return false
}
