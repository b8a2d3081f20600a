package analyzer

import (
	"github.com/rohmanhakim/hreflang-audit/internal/page"
)

const (
	// StatusFailed marks a record whose URL could not be fetched.
	// Successful records carry the HTTP status line, e.g. "200 OK".
	StatusFailed = "Failed"

	// MethodFailed fills the method column when no strategy succeeded.
	MethodFailed = "Failed"

	// NoUserAgent fills the user agent column when no request was made.
	NoUserAgent = "N/A"
)

// titleLimit is where long titles are cut when truncation is enabled.
const titleLimit = 57

// PageRecord is one audit row. Alternates is capped at the configured
// maximum; HreflangCount carries the full declaration count.
type PageRecord struct {
	RequestedURL  string
	Status        string
	Title         string
	Language      string
	Indexable     bool
	Method        string
	UserAgent     string
	Alternates    []page.AlternateLink
	HreflangCount int
	Issues        []string
}
