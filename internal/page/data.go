package page

// Fallback values reported when a page omits the element.
const (
	NoTitle    = "No Title"
	NoLanguage = "-"
)

// AlternateLink is one <link rel="alternate" hreflang=...> declaration.
// HreflangCode is lowercased; TargetURL is absolute, resolved against
// the page URL.
type AlternateLink struct {
	HreflangCode string
	TargetURL    string
}

// ParsedPage holds everything the audit needs from a page's markup.
// Alternates preserve document order, duplicates included.
type ParsedPage struct {
	Title          string
	Lang           string
	RobotsContent  string
	CanonicalCount int
	Alternates     []AlternateLink
}
