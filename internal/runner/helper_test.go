package runner_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rohmanhakim/hreflang-audit/internal/config"
	"github.com/rohmanhakim/hreflang-audit/internal/runner"
)

// testConfig builds a fast run configuration for local servers.
func testConfig(t *testing.T, concurrency int) config.Config {
	t.Helper()
	cfg, err := config.WithDefault().
		WithMethod(config.MethodHTTP).
		WithUserAgent("audit-test-agent").
		WithConcurrency(concurrency).
		WithTimeout(2 * time.Second).
		WithMaxAttempt(1).
		WithBaseDelay(0).
		WithJitter(0).
		Build()
	require.NoError(t, err)
	return cfg
}

func newTestRunner(t *testing.T, concurrency int) (*runner.Runner, *mockMetadataSink, *mockRunFinalizer) {
	t.Helper()
	sink := &mockMetadataSink{}
	finalizer := &mockRunFinalizer{}
	r := runner.NewRunnerWithDeps(testConfig(t, concurrency), finalizer, sink)
	return &r, sink, finalizer
}

// auditServer serves a minimal valid page on every path.
func auditServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html lang="en"><head>
<title>Page %s</title>
<link rel="alternate" hreflang="en" href="%s">
</head></html>`, r.URL.Path, "http://"+r.Host+r.URL.Path)
	}))
}

func serverURLs(server *httptest.Server, count int) []string {
	urls := make([]string, 0, count)
	for i := 0; i < count; i++ {
		urls = append(urls, fmt.Sprintf("%s/page-%d", server.URL, i))
	}
	return urls
}
