package analyzer_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohmanhakim/hreflang-audit/internal/analyzer"
	"github.com/rohmanhakim/hreflang-audit/internal/fetcher"
	"github.com/rohmanhakim/hreflang-audit/internal/metadata"
	"github.com/rohmanhakim/hreflang-audit/internal/page"
)

func setupAnalyzer(maxAlternates int) *analyzer.Analyzer {
	parser := page.NewParser(&metadata.NoopSink{})
	a := analyzer.NewAnalyzer(&parser, maxAlternates, true, true, true)
	return &a
}

func fetchedPage(t *testing.T, rawURL string, body string) fetcher.FetchResult {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return fetcher.NewFetchResultForTest(
		*u,
		[]byte(body),
		fetcher.FetchMethodHTTP,
		"test-agent",
		200,
		map[string]string{},
	)
}

func TestAnalyze_CleanPage(t *testing.T) {
	a := setupAnalyzer(3)

	body := `<html lang="en"><head>
<title>Example</title>
<link rel="alternate" hreflang="en" href="https://example.com/page">
<link rel="alternate" hreflang="de" href="https://example.com/de/page">
</head></html>`

	record := a.Analyze("https://example.com/page", fetchedPage(t, "https://example.com/page", body))

	assert.Equal(t, "https://example.com/page", record.RequestedURL)
	assert.Equal(t, "200 OK", record.Status)
	assert.Equal(t, "Example", record.Title)
	assert.Equal(t, "en", record.Language)
	assert.Equal(t, "HTTP", record.Method)
	assert.Equal(t, "test-agent", record.UserAgent)
	assert.True(t, record.Indexable)
	assert.Equal(t, 2, record.HreflangCount)
	require.Len(t, record.Alternates, 2)

	// The de alternate points away from the page, which the
	// self-consistency check flags.
	require.Len(t, record.Issues, 1)
	assert.Equal(t, "URL mismatch: https://example.com/de/page", record.Issues[0])
}

func TestAnalyze_InvalidCodeFlagged(t *testing.T) {
	a := setupAnalyzer(3)

	body := `<html><head>
<link rel="alternate" hreflang="english" href="https://example.com/page">
</head></html>`

	record := a.Analyze("https://example.com/page", fetchedPage(t, "https://example.com/page", body))

	require.Len(t, record.Issues, 1)
	assert.Equal(t, "Invalid hreflang: english", record.Issues[0])
}

func TestAnalyze_NoindexNotIndexable(t *testing.T) {
	a := setupAnalyzer(3)

	body := `<html><head>
<meta name="robots" content="NOINDEX, nofollow">
<link rel="alternate" hreflang="en" href="https://example.com/page">
</head></html>`

	record := a.Analyze("https://example.com/page", fetchedPage(t, "https://example.com/page", body))

	assert.False(t, record.Indexable)
}

func TestAnalyze_MultipleCanonicalsNotIndexable(t *testing.T) {
	a := setupAnalyzer(3)

	body := `<html><head>
<link rel="canonical" href="https://example.com/a">
<link rel="canonical" href="https://example.com/b">
<link rel="alternate" hreflang="en" href="https://example.com/page">
</head></html>`

	record := a.Analyze("https://example.com/page", fetchedPage(t, "https://example.com/page", body))

	assert.False(t, record.Indexable)
	require.Len(t, record.Issues, 1)
	assert.Equal(t, "Multiple canonical tags: 2", record.Issues[0])
}

func TestAnalyze_MissingHreflangNoted(t *testing.T) {
	a := setupAnalyzer(3)

	record := a.Analyze("https://example.com/", fetchedPage(t, "https://example.com/", "<html><head><title>Bare</title></head></html>"))

	assert.Equal(t, 0, record.HreflangCount)
	require.Len(t, record.Issues, 1)
	assert.Equal(t, "No hreflang tags found", record.Issues[0])
}

func TestAnalyze_AlternatesCappedCountFull(t *testing.T) {
	a := setupAnalyzer(3)

	var b strings.Builder
	b.WriteString(`<html><head>`)
	for _, code := range []string{"en", "de", "fr", "es", "it"} {
		b.WriteString(`<link rel="alternate" hreflang="` + code + `" href="https://example.com/` + code + `">`)
	}
	b.WriteString(`</head></html>`)

	record := a.Analyze("https://example.com/en", fetchedPage(t, "https://example.com/en", b.String()))

	assert.Equal(t, 5, record.HreflangCount)
	require.Len(t, record.Alternates, 3)
	assert.Equal(t, "en", record.Alternates[0].HreflangCode)
	assert.Equal(t, "fr", record.Alternates[2].HreflangCode)

	// Validation covers all five declarations, not just the stored ones.
	assert.Len(t, record.Issues, 4)
}

func TestAnalyze_TitleTruncated(t *testing.T) {
	a := setupAnalyzer(3)

	longTitle := strings.Repeat("a", 80)
	body := `<html><head><title>` + longTitle + `</title></head></html>`

	record := a.Analyze("https://example.com/", fetchedPage(t, "https://example.com/", body))

	assert.Equal(t, strings.Repeat("a", 57)+"...", record.Title)
}

func TestAnalyze_UnparsableContent(t *testing.T) {
	a := setupAnalyzer(3)

	record := a.Analyze("https://example.com/", fetchedPage(t, "https://example.com/", "   "))

	assert.Equal(t, "200 OK", record.Status)
	assert.Equal(t, page.NoTitle, record.Title)
	assert.Equal(t, page.NoLanguage, record.Language)
	assert.False(t, record.Indexable)
	require.Len(t, record.Issues, 1)
	assert.Equal(t, "Unparsable page content", record.Issues[0])
}

func TestFailedRecord(t *testing.T) {
	record := analyzer.FailedRecord("https://unreachable.example.com/", "")

	assert.Equal(t, "https://unreachable.example.com/", record.RequestedURL)
	assert.Equal(t, analyzer.StatusFailed, record.Status)
	assert.Equal(t, analyzer.MethodFailed, record.Method)
	assert.Equal(t, analyzer.NoUserAgent, record.UserAgent)
	assert.False(t, record.Indexable)
	require.Len(t, record.Issues, 1)
	assert.Equal(t, analyzer.FetchFailedIssue(), record.Issues[0])
}

func TestFailedRecord_DetailSurfacesInIssues(t *testing.T) {
	record := analyzer.FailedRecord(
		"https://unreachable.example.com/",
		"all fetch strategies failed: connection refused",
	)

	require.Len(t, record.Issues, 2)
	assert.Equal(t, analyzer.FetchFailedIssue(), record.Issues[0])
	assert.Equal(t, "all fetch strategies failed: connection refused", record.Issues[1])
}
