package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rohmanhakim/hreflang-audit/internal/build"
	"github.com/rohmanhakim/hreflang-audit/internal/config"
	"github.com/rohmanhakim/hreflang-audit/internal/metadata"
	"github.com/rohmanhakim/hreflang-audit/internal/report"
	"github.com/rohmanhakim/hreflang-audit/internal/runner"
)

var (
	cfgFile             string
	inputURLs           []string
	inputFile           string
	method              string
	concurrency         int
	outputPath          string
	maxAlternates       int
	userAgent           string
	warmUp              bool
	timeout             time.Duration
	baseDelay           time.Duration
	jitter              time.Duration
	randomSeed          int64
	maxAttempt          int
	strictCanonical     bool
	noteMissingHreflang bool
	truncateTitle       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hreflang-audit",
	Short: "An hreflang annotation auditor for international SEO.",
	Long: `hreflang-audit fetches a set of pages and checks their hreflang
annotations: alternate-language link declarations, language/region code
well-formedness, self-referencing URL consistency, and page indexability.

Results are written as one CSV row per audited URL. Origins that block
plain HTTP clients are retried with a crawler identity and, when allowed,
a headless browser.`,
	Run: func(cmd *cobra.Command, args []string) {
		urls, err := collectInputURLs()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		if len(urls) == 0 {
			fmt.Fprintf(os.Stderr, "Error: no input URLs. Provide --url or --input-file.\n")
			cmd.Usage()
			os.Exit(1)
		}

		cfg, err := InitConfigWithError()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		auditRunner := runner.NewRunner(cfg)
		auditRunner.SetProgressFunc(func(completed int, total int, currentURL string) {
			fmt.Printf("Processing %d of %d: %s\n", completed, total, currentURL)
		})

		result, runErr := auditRunner.Run(ctx, urls)
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", runErr)
			os.Exit(1)
		}

		if err := writeReport(cfg, result); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}

		fmt.Printf("Completed %d of %d URLs (%d failed, %d issues) in %v\n",
			len(result.Records), len(urls), result.TotalFailed, result.TotalIssues,
			result.Duration.Round(time.Millisecond))
		if result.Cancelled {
			fmt.Println("Run cancelled; partial results written.")
		}
	},
}

func writeReport(cfg config.Config, result runner.RunResult) error {
	recorder := metadata.NewRecorder("report", nil)
	sink := report.NewCSVSink(&recorder)
	if cfg.OutputPath() == "" {
		if err := sink.WriteTo(os.Stdout, result.Records, cfg.MaxAlternates()); err != nil {
			return err
		}
		return nil
	}
	if err := sink.Write(cfg.OutputPath(), result.Records, cfg.MaxAlternates()); err != nil {
		return err
	}
	fmt.Printf("Report written to %s\n", cfg.OutputPath())
	return nil
}

// collectInputURLs merges --url values with the input file's contents,
// preserving order: flag URLs first, then file URLs.
func collectInputURLs() ([]string, error) {
	urls := make([]string, 0, len(inputURLs))
	for _, u := range inputURLs {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	if inputFile == "" {
		return urls, nil
	}

	file, err := os.Open(inputFile)
	if err != nil {
		return nil, fmt.Errorf("error reading input file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, firstColumn(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input file: %w", err)
	}
	return urls, nil
}

// firstColumn takes the first field of a tab- or comma-separated line.
func firstColumn(line string) string {
	if idx := strings.IndexAny(line, "\t,"); idx >= 0 {
		return strings.TrimSpace(line[:idx])
	}
	return line
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = build.FullVersion()
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().StringArrayVar(&inputURLs, "url", []string{}, "URL to audit (can be repeated)")
	rootCmd.PersistentFlags().StringVar(&inputFile, "input-file", "", "newline-delimited URL list; first column of tab/comma separated lines")
	rootCmd.PersistentFlags().StringVar(&method, "method", "", "fetch method: auto, http or browser")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 3, "number of concurrent audit workers (1-10)")
	rootCmd.PersistentFlags().StringVar(&outputPath, "output", "", "CSV report path (stdout when empty)")
	rootCmd.PersistentFlags().IntVar(&maxAlternates, "max-alternates", 0, "hreflang pairs per CSV row (above 3 adds a HreflangCount column)")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "fixed user agent (disables identity rotation)")
	rootCmd.PersistentFlags().BoolVar(&warmUp, "warm-up", false, "send a warm-up request before each HTTP fetch")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout for HTTP requests")
	rootCmd.PersistentFlags().DurationVar(&baseDelay, "base-delay", 0, "base delay between requests to the same host")
	rootCmd.PersistentFlags().DurationVar(&jitter, "jitter", 0, "random jitter added to base delay")
	rootCmd.PersistentFlags().Int64Var(&randomSeed, "random-seed", 0, "seed for random number generation (0 for current time)")
	rootCmd.PersistentFlags().IntVar(&maxAttempt, "max-attempt", 0, "HTTP attempts per identity before falling back")
	rootCmd.PersistentFlags().BoolVar(&strictCanonical, "strict-canonical", true, "treat multiple canonical tags as not indexable")
	rootCmd.PersistentFlags().BoolVar(&noteMissingHreflang, "note-missing-hreflang", true, "report pages without hreflang tags")
	rootCmd.PersistentFlags().BoolVar(&truncateTitle, "truncate-title", true, "shorten long titles in the report")
}

// InitConfigWithError builds the run configuration from the config file
// or CLI flags, returning any errors.
// This makes it easier to test error cases.
func InitConfigWithError() (config.Config, error) {
	if cfgFile != "" {
		fmt.Printf("Initializing config from file: %s\n", cfgFile)
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	// Start with default config and apply overrides using method chaining
	configBuilder := config.WithDefault()

	if method != "" {
		configBuilder = configBuilder.WithMethod(strings.ToLower(method))
	}

	if concurrency > 0 {
		configBuilder = configBuilder.WithConcurrency(concurrency)
	}

	if outputPath != "" {
		configBuilder = configBuilder.WithOutputPath(outputPath)
	}

	if maxAlternates > 0 {
		configBuilder = configBuilder.WithMaxAlternates(maxAlternates)
	}

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if warmUp {
		configBuilder = configBuilder.WithWarmUp(warmUp)
	}

	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}

	if baseDelay > 0 {
		configBuilder = configBuilder.WithBaseDelay(baseDelay)
	}

	if jitter > 0 {
		configBuilder = configBuilder.WithJitter(jitter)
	}

	if randomSeed != 0 {
		configBuilder = configBuilder.WithRandomSeed(randomSeed)
	}

	if maxAttempt > 0 {
		configBuilder = configBuilder.WithMaxAttempt(maxAttempt)
	}

	configBuilder = configBuilder.
		WithStrictCanonical(strictCanonical).
		WithNoteMissingHreflang(noteMissingHreflang).
		WithTruncateTitle(truncateTitle)

	cfg, err := configBuilder.Build()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func ResetFlags() {
	cfgFile = ""
	inputURLs = []string{}
	inputFile = ""
	method = ""
	concurrency = 0
	outputPath = ""
	maxAlternates = 0
	userAgent = ""
	warmUp = false
	timeout = 0
	baseDelay = 0
	jitter = 0
	randomSeed = 0
	maxAttempt = 0
	strictCanonical = true
	noteMissingHreflang = true
	truncateTitle = true
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetInputURLsForTest(urls []string) {
	inputURLs = urls
}

func SetInputFileForTest(path string) {
	inputFile = path
}

func SetMethodForTest(m string) {
	method = m
}

func SetConcurrencyForTest(conc int) {
	concurrency = conc
}

func SetOutputPathForTest(path string) {
	outputPath = path
}

func SetMaxAlternatesForTest(max int) {
	maxAlternates = max
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetTimeoutForTest(t time.Duration) {
	timeout = t
}

func SetBaseDelayForTest(delay time.Duration) {
	baseDelay = delay
}

func CollectInputURLsForTest() ([]string, error) {
	return collectInputURLs()
}
