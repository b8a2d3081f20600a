package analyzer

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rohmanhakim/hreflang-audit/internal/fetcher"
	"github.com/rohmanhakim/hreflang-audit/internal/hreflang"
	"github.com/rohmanhakim/hreflang-audit/internal/page"
)

/*
Responsibilities
- Turn a fetched page into a single audit record
- Validate every hreflang declaration:
    - the code must be well-formed
    - self-referencing targets must match the audited URL
- Derive indexability from robots directives and canonical tags

Analyze is total: any fetch result produces a record. Pages that fail
to parse still yield a row, with the failure surfaced as an issue.
*/

type Analyzer struct {
	parser              *page.Parser
	maxAlternates       int
	strictCanonical     bool
	noteMissingHreflang bool
	truncateTitle       bool
}

func NewAnalyzer(
	parser *page.Parser,
	maxAlternates int,
	strictCanonical bool,
	noteMissingHreflang bool,
	truncateTitle bool,
) Analyzer {
	return Analyzer{
		parser:              parser,
		maxAlternates:       maxAlternates,
		strictCanonical:     strictCanonical,
		noteMissingHreflang: noteMissingHreflang,
		truncateTitle:       truncateTitle,
	}
}

// Analyze builds the audit record for a successfully fetched page.
func (a *Analyzer) Analyze(requestedURL string, result fetcher.FetchResult) PageRecord {
	record := PageRecord{
		RequestedURL: requestedURL,
		Status:       statusLine(result.Code()),
		Method:       string(result.Method()),
		UserAgent:    result.UserAgent(),
	}

	fetchedURL := result.URL()
	parsed, parseErr := a.parser.Parse(fetchedURL, result.Body())
	if parseErr != nil {
		record.Title = page.NoTitle
		record.Language = page.NoLanguage
		record.Issues = append(record.Issues, unparsableContentIssue())
		return record
	}

	record.Title = a.renderTitle(parsed.Title)
	record.Language = parsed.Lang
	record.Indexable = indexable(parsed.RobotsContent)

	if a.strictCanonical && parsed.CanonicalCount > 1 {
		record.Indexable = false
		record.Issues = append(record.Issues, multipleCanonicalIssue(parsed.CanonicalCount))
	}

	for _, alt := range parsed.Alternates {
		if alt.HreflangCode == "" || alt.TargetURL == "" {
			continue
		}
		record.HreflangCount++
		if record.HreflangCount <= a.maxAlternates {
			record.Alternates = append(record.Alternates, alt)
		}

		if !hreflang.ValidCode(alt.HreflangCode) {
			record.Issues = append(record.Issues, invalidCodeIssue(alt.HreflangCode))
		}
		if !hreflang.URLsMatch(alt.TargetURL, fetchedURL.String()) {
			record.Issues = append(record.Issues, urlMismatchIssue(alt.TargetURL))
		}
	}

	if record.HreflangCount == 0 && a.noteMissingHreflang {
		record.Issues = append(record.Issues, missingHreflangIssue())
	}

	return record
}

// FailedRecord builds the audit record for a URL no fetch strategy
// could serve.
func FailedRecord(requestedURL string, detail string) PageRecord {
	issues := []string{FetchFailedIssue()}
	if detail != "" {
		issues = append(issues, detail)
	}
	return PageRecord{
		RequestedURL: requestedURL,
		Status:       StatusFailed,
		Method:       MethodFailed,
		UserAgent:    NoUserAgent,
		Issues:       issues,
	}
}

func (a *Analyzer) renderTitle(title string) string {
	if !a.truncateTitle {
		return title
	}
	runes := []rune(title)
	if len(runes) <= titleLimit {
		return title
	}
	return string(runes[:titleLimit]) + "..."
}

// indexable reports whether robots directives allow indexing.
// An absent robots meta tag means indexable.
func indexable(robotsContent string) bool {
	return !strings.Contains(strings.ToLower(robotsContent), "noindex")
}

func statusLine(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return fmt.Sprintf("%d", code)
	}
	return fmt.Sprintf("%d %s", code, text)
}
