package analyzer

import "fmt"

// Issue strings as they appear in the report's Issues column.

func invalidCodeIssue(code string) string {
	return fmt.Sprintf("Invalid hreflang: %s", code)
}

func urlMismatchIssue(href string) string {
	return fmt.Sprintf("URL mismatch: %s", href)
}

func multipleCanonicalIssue(count int) string {
	return fmt.Sprintf("Multiple canonical tags: %d", count)
}

func missingHreflangIssue() string {
	return "No hreflang tags found"
}

func unparsableContentIssue() string {
	return "Unparsable page content"
}

// FetchFailedIssue marks records for URLs no fetch strategy could serve.
func FetchFailedIssue() string {
	return "Failed to fetch URL"
}
