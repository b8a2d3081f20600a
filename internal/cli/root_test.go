package cmd_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	cmd "github.com/rohmanhakim/hreflang-audit/internal/cli"
	"github.com/rohmanhakim/hreflang-audit/internal/config"
)

// TestInitConfigNoFlags tests that InitConfigWithError returns a Config
// with default values when no flags are set
func TestInitConfigNoFlags(t *testing.T) {
	cmd.ResetFlags()

	cfg, err := cmd.InitConfigWithError()
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	defaultCfg, err := config.WithDefault().Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}

	if cfg.Method() != defaultCfg.Method() {
		t.Errorf("Expected Method %s, got %s", defaultCfg.Method(), cfg.Method())
	}
	if cfg.Concurrency() != defaultCfg.Concurrency() {
		t.Errorf("Expected Concurrency %d, got %d", defaultCfg.Concurrency(), cfg.Concurrency())
	}
	if cfg.Timeout() != defaultCfg.Timeout() {
		t.Errorf("Expected Timeout %v, got %v", defaultCfg.Timeout(), cfg.Timeout())
	}
	if cfg.MaxAlternates() != defaultCfg.MaxAlternates() {
		t.Errorf("Expected MaxAlternates %d, got %d", defaultCfg.MaxAlternates(), cfg.MaxAlternates())
	}
	if !cfg.StrictCanonical() {
		t.Error("Expected StrictCanonical to default to true")
	}
}

// TestInitConfigWithFlags tests that flag overrides are properly applied
func TestInitConfigWithFlags(t *testing.T) {
	cmd.ResetFlags()
	defer cmd.ResetFlags()

	cmd.SetMethodForTest("Browser")
	cmd.SetConcurrencyForTest(7)
	cmd.SetOutputPathForTest("report/audit.csv")
	cmd.SetMaxAlternatesForTest(10)
	cmd.SetUserAgentForTest("custom-agent/1.0")
	cmd.SetTimeoutForTest(30 * time.Second)
	cmd.SetBaseDelayForTest(2 * time.Second)

	cfg, err := cmd.InitConfigWithError()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Method() != config.MethodBrowser {
		t.Errorf("Expected method %s, got %s", config.MethodBrowser, cfg.Method())
	}
	if cfg.Concurrency() != 7 {
		t.Errorf("Expected Concurrency 7, got %d", cfg.Concurrency())
	}
	if cfg.OutputPath() != "report/audit.csv" {
		t.Errorf("Expected OutputPath report/audit.csv, got %s", cfg.OutputPath())
	}
	if cfg.MaxAlternates() != 10 {
		t.Errorf("Expected MaxAlternates 10, got %d", cfg.MaxAlternates())
	}
	if cfg.UserAgent() != "custom-agent/1.0" {
		t.Errorf("Expected UserAgent custom-agent/1.0, got %s", cfg.UserAgent())
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Expected Timeout 30s, got %v", cfg.Timeout())
	}
	if cfg.BaseDelay() != 2*time.Second {
		t.Errorf("Expected BaseDelay 2s, got %v", cfg.BaseDelay())
	}
}

// TestInitConfigInvalidMethod tests that an unknown method is rejected
func TestInitConfigInvalidMethod(t *testing.T) {
	cmd.ResetFlags()
	defer cmd.ResetFlags()

	cmd.SetMethodForTest("teleport")

	_, err := cmd.InitConfigWithError()
	if err == nil {
		t.Fatal("Expected error for invalid method, got nil")
	}
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got: %v", err)
	}
}

// TestInitConfigWithConfigFile tests loading configuration from a JSON file
func TestInitConfigWithConfigFile(t *testing.T) {
	cmd.ResetFlags()
	defer cmd.ResetFlags()

	configPath := filepath.Join(t.TempDir(), "config.json")
	configJSON := `{
		"method": "http",
		"concurrency": 5,
		"maxAlternates": 10,
		"outputPath": "audit.csv"
	}`
	if err := os.WriteFile(configPath, []byte(configJSON), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cmd.SetConfigFileForTest(configPath)

	cfg, err := cmd.InitConfigWithError()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Method() != config.MethodHTTP {
		t.Errorf("Expected method http, got %s", cfg.Method())
	}
	if cfg.Concurrency() != 5 {
		t.Errorf("Expected Concurrency 5, got %d", cfg.Concurrency())
	}
	if cfg.MaxAlternates() != 10 {
		t.Errorf("Expected MaxAlternates 10, got %d", cfg.MaxAlternates())
	}
}

// TestInitConfigWithMissingConfigFile tests the error path for a bad path
func TestInitConfigWithMissingConfigFile(t *testing.T) {
	cmd.ResetFlags()
	defer cmd.ResetFlags()

	cmd.SetConfigFileForTest(filepath.Join(t.TempDir(), "does-not-exist.json"))

	_, err := cmd.InitConfigWithError()
	if err == nil {
		t.Fatal("Expected error for missing config file, got nil")
	}
}

// TestCollectInputURLs_FlagsOnly tests --url collection
func TestCollectInputURLs_FlagsOnly(t *testing.T) {
	cmd.ResetFlags()
	defer cmd.ResetFlags()

	cmd.SetInputURLsForTest([]string{"https://example.com/a", " https://example.com/b ", ""})

	urls, err := cmd.CollectInputURLsForTest()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("Expected 2 URLs, got %d", len(urls))
	}
	if urls[1] != "https://example.com/b" {
		t.Errorf("Expected trimmed URL, got %q", urls[1])
	}
}

// TestCollectInputURLs_FromFile tests input file parsing: comments,
// blank lines, and first-column extraction
func TestCollectInputURLs_FromFile(t *testing.T) {
	cmd.ResetFlags()
	defer cmd.ResetFlags()

	inputPath := filepath.Join(t.TempDir(), "urls.txt")
	content := `# audit targets
https://example.com/a

https://example.com/b	ignored-note
https://example.com/c,comment,more
`
	if err := os.WriteFile(inputPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write input file: %v", err)
	}

	cmd.SetInputFileForTest(inputPath)

	urls, err := cmd.CollectInputURLsForTest()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expected := []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"}
	if len(urls) != len(expected) {
		t.Fatalf("Expected %d URLs, got %d: %v", len(expected), len(urls), urls)
	}
	for i := range expected {
		if urls[i] != expected[i] {
			t.Errorf("Expected %q at index %d, got %q", expected[i], i, urls[i])
		}
	}
}

// TestCollectInputURLs_FlagsAndFile tests merge order: flags first
func TestCollectInputURLs_FlagsAndFile(t *testing.T) {
	cmd.ResetFlags()
	defer cmd.ResetFlags()

	inputPath := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(inputPath, []byte("https://example.com/from-file\n"), 0o644); err != nil {
		t.Fatalf("failed to write input file: %v", err)
	}

	cmd.SetInputURLsForTest([]string{"https://example.com/from-flag"})
	cmd.SetInputFileForTest(inputPath)

	urls, err := cmd.CollectInputURLsForTest()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("Expected 2 URLs, got %d", len(urls))
	}
	if urls[0] != "https://example.com/from-flag" || urls[1] != "https://example.com/from-file" {
		t.Errorf("Unexpected merge order: %v", urls)
	}
}

// TestCollectInputURLs_MissingFile tests the error path
func TestCollectInputURLs_MissingFile(t *testing.T) {
	cmd.ResetFlags()
	defer cmd.ResetFlags()

	cmd.SetInputFileForTest(filepath.Join(t.TempDir(), "missing.txt"))

	_, err := cmd.CollectInputURLsForTest()
	if err == nil {
		t.Fatal("Expected error for missing input file, got nil")
	}
}
