package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Fetch method selection. "auto" runs the full strategy chain,
// "http" and "browser" pin a single strategy.
const (
	MethodAuto    = "auto"
	MethodHTTP    = "http"
	MethodBrowser = "browser"
)

type Config struct {
	//===============
	// Fetch
	//===============
	// Which fetch strategy to use: auto, http, or browser
	method string
	// Maximum time of a single fetch request
	timeout time.Duration
	// User agent override. Empty means rotate through the built-in pool
	userAgent string
	// Whether to issue a warm-up request to a neutral origin before the
	// real request, to acquire cookies first
	warmUp bool

	//===============
	// Politeness
	//===============
	// Maximum number of audit worker goroutines processing URLs concurrently;
	// it does not control OS threads or CPU parallelism.
	concurrency int
	// Minimum, fixed waiting time enforced between two HTTP requests to the same host.
	baseDelay time.Duration
	// Randomized variation added on top of the base delay.
	jitter time.Duration
	// Controls the random number generator
	randomSeed int64
	// maximum attempt during retry
	maxAttempt int
	// initial delay for backoff
	backoffInitialDuration time.Duration
	// multiplier during exponential backoff
	backoffMultiplier float64
	// capped maximum delay for backoff to stop exponential multiplication
	backoffMaxDuration time.Duration

	//===============
	// Analysis
	//===============
	// How many alternate-link pairs each record stores for display/export.
	// Validation always runs over every discovered alternate regardless.
	maxAlternates int
	// Whether more than one canonical link element makes a page non-indexable
	strictCanonical bool
	// Whether a page with zero hreflang annotations gets an informational issue
	noteMissingHreflang bool
	// Whether titles are shortened to a display-friendly length in records
	truncateTitle bool

	//===============
	// Output
	//===============
	// Path of the CSV report to write. Empty means no report file
	outputPath string
}

type configDTO struct {
	Method                 string        `json:"method,omitempty"`
	Timeout                time.Duration `json:"timeout,omitempty"`
	UserAgent              string        `json:"userAgent,omitempty"`
	WarmUp                 bool          `json:"warmUp,omitempty"`
	Concurrency            int           `json:"concurrency,omitempty"`
	BaseDelay              time.Duration `json:"baseDelay,omitempty"`
	Jitter                 time.Duration `json:"jitter,omitempty"`
	RandomSeed             int64         `json:"randomSeed,omitempty"`
	MaxAttempt             int           `json:"maxAttempt,omitempty"`
	BackoffInitialDuration time.Duration `json:"backoffInitialDuration,omitempty"`
	BackoffMultiplier      float64       `json:"backoffMultiplier,omitempty"`
	BackoffMaxDuration     time.Duration `json:"backoffMaxDuration,omitempty"`
	MaxAlternates          int           `json:"maxAlternates,omitempty"`
	StrictCanonical        *bool         `json:"strictCanonical,omitempty"`
	NoteMissingHreflang    *bool         `json:"noteMissingHreflang,omitempty"`
	TruncateTitle          *bool         `json:"truncateTitle,omitempty"`
	OutputPath             string        `json:"outputPath,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	cfg := *WithDefault()

	if dto.Method != "" {
		cfg.method = dto.Method
	}
	if dto.Timeout != 0 {
		cfg.timeout = dto.Timeout
	}
	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}
	cfg.warmUp = dto.WarmUp
	if dto.Concurrency != 0 {
		cfg.concurrency = dto.Concurrency
	}
	if dto.BaseDelay != 0 {
		cfg.baseDelay = dto.BaseDelay
	}
	if dto.Jitter != 0 {
		cfg.jitter = dto.Jitter
	}
	if dto.RandomSeed != 0 {
		cfg.randomSeed = dto.RandomSeed
	}
	if dto.MaxAttempt != 0 {
		cfg.maxAttempt = dto.MaxAttempt
	}
	if dto.BackoffInitialDuration != 0 {
		cfg.backoffInitialDuration = dto.BackoffInitialDuration
	}
	if dto.BackoffMultiplier != 0 {
		cfg.backoffMultiplier = dto.BackoffMultiplier
	}
	if dto.BackoffMaxDuration != 0 {
		cfg.backoffMaxDuration = dto.BackoffMaxDuration
	}
	if dto.MaxAlternates != 0 {
		cfg.maxAlternates = dto.MaxAlternates
	}
	// Policy toggles default to enabled; pointers distinguish "absent" from "false"
	if dto.StrictCanonical != nil {
		cfg.strictCanonical = *dto.StrictCanonical
	}
	if dto.NoteMissingHreflang != nil {
		cfg.noteMissingHreflang = *dto.NoteMissingHreflang
	}
	if dto.TruncateTitle != nil {
		cfg.truncateTitle = *dto.TruncateTitle
	}
	if dto.OutputPath != "" {
		cfg.outputPath = dto.OutputPath
	}

	return cfg.validated()
}

func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(cfgDTO)
}

// WithDefault creates a new Config with default values for all fields.
func WithDefault() *Config {
	defaultConfig := Config{
		method:                 MethodAuto,
		timeout:                15 * time.Second,
		userAgent:              "",
		warmUp:                 false,
		concurrency:            3,
		baseDelay:              750 * time.Millisecond,
		jitter:                 250 * time.Millisecond,
		randomSeed:             time.Now().UnixNano(),
		maxAttempt:             3,
		backoffInitialDuration: 500 * time.Millisecond,
		backoffMultiplier:      2.0,
		backoffMaxDuration:     10 * time.Second,
		maxAlternates:          3,
		strictCanonical:        true,
		noteMissingHreflang:    true,
		truncateTitle:          true,
		outputPath:             "",
	}
	return &defaultConfig
}

func (c *Config) WithMethod(method string) *Config {
	c.method = method
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithWarmUp(warmUp bool) *Config {
	c.warmUp = warmUp
	return c
}

func (c *Config) WithConcurrency(concurrency int) *Config {
	c.concurrency = concurrency
	return c
}

func (c *Config) WithBaseDelay(delay time.Duration) *Config {
	c.baseDelay = delay
	return c
}

func (c *Config) WithJitter(jitter time.Duration) *Config {
	c.jitter = jitter
	return c
}

func (c *Config) WithRandomSeed(seed int64) *Config {
	c.randomSeed = seed
	return c
}

func (c *Config) WithMaxAttempt(attempts int) *Config {
	c.maxAttempt = attempts
	return c
}

func (c *Config) WithBackoffInitialDuration(duration time.Duration) *Config {
	c.backoffInitialDuration = duration
	return c
}

func (c *Config) WithBackoffMultiplier(multiplier float64) *Config {
	c.backoffMultiplier = multiplier
	return c
}

func (c *Config) WithBackoffMaxDuration(duration time.Duration) *Config {
	c.backoffMaxDuration = duration
	return c
}

func (c *Config) WithMaxAlternates(max int) *Config {
	c.maxAlternates = max
	return c
}

func (c *Config) WithStrictCanonical(strict bool) *Config {
	c.strictCanonical = strict
	return c
}

func (c *Config) WithNoteMissingHreflang(note bool) *Config {
	c.noteMissingHreflang = note
	return c
}

func (c *Config) WithTruncateTitle(truncate bool) *Config {
	c.truncateTitle = truncate
	return c
}

func (c *Config) WithOutputPath(path string) *Config {
	c.outputPath = path
	return c
}

func (c *Config) Build() (Config, error) {
	return c.validated()
}

func (c *Config) validated() (Config, error) {
	switch c.method {
	case MethodAuto, MethodHTTP, MethodBrowser:
	default:
		return Config{}, fmt.Errorf("%w: unknown method %q", ErrInvalidConfig, c.method)
	}
	if c.concurrency < 1 {
		return Config{}, fmt.Errorf("%w: concurrency must be at least 1", ErrInvalidConfig)
	}
	if c.concurrency > 10 {
		return Config{}, fmt.Errorf("%w: concurrency must not exceed 10", ErrInvalidConfig)
	}
	if c.timeout <= 0 {
		return Config{}, fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if c.maxAttempt < 1 {
		return Config{}, fmt.Errorf("%w: maxAttempt must be at least 1", ErrInvalidConfig)
	}
	if c.maxAlternates < 1 {
		return Config{}, fmt.Errorf("%w: maxAlternates must be at least 1", ErrInvalidConfig)
	}
	return *c, nil
}

func (c *Config) Method() string {
	return c.method
}

func (c *Config) Timeout() time.Duration {
	return c.timeout
}

func (c *Config) UserAgent() string {
	return c.userAgent
}

func (c *Config) WarmUp() bool {
	return c.warmUp
}

func (c *Config) Concurrency() int {
	return c.concurrency
}

func (c *Config) BaseDelay() time.Duration {
	return c.baseDelay
}

func (c *Config) Jitter() time.Duration {
	return c.jitter
}

func (c *Config) RandomSeed() int64 {
	return c.randomSeed
}

func (c *Config) MaxAttempt() int {
	return c.maxAttempt
}

func (c *Config) BackoffInitialDuration() time.Duration {
	return c.backoffInitialDuration
}

func (c *Config) BackoffMultiplier() float64 {
	return c.backoffMultiplier
}

func (c *Config) BackoffMaxDuration() time.Duration {
	return c.backoffMaxDuration
}

func (c *Config) MaxAlternates() int {
	return c.maxAlternates
}

func (c *Config) StrictCanonical() bool {
	return c.strictCanonical
}

func (c *Config) NoteMissingHreflang() bool {
	return c.noteMissingHreflang
}

func (c *Config) TruncateTitle() bool {
	return c.truncateTitle
}

func (c *Config) OutputPath() string {
	return c.outputPath
}
