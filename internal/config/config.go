package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for Prowl.
type Config struct {
	Browser  BrowserConfig  `mapstructure:"browser"  yaml:"browser"`
	Navigate NavigateConfig `mapstructure:"navigate" yaml:"navigate"`
	Scraper  ScraperConfig  `mapstructure:"scraper"  yaml:"scraper"`
	Storage  StorageConfig  `mapstructure:"storage"  yaml:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// BrowserConfig controls browser launch and hardening.
type BrowserConfig struct {
	// Headless launches without a visible window. Headful mode enables
	// the manual challenge-solve wait.
	Headless bool `mapstructure:"headless" yaml:"headless"`

	// NoSandbox passes the sandbox-disabling flags needed in most
	// container deployments.
	NoSandbox bool `mapstructure:"no_sandbox" yaml:"no_sandbox"`

	// IgnoreCertErrors tolerates HTTPS certificate quirks (common
	// behind corporate proxies).
	IgnoreCertErrors bool `mapstructure:"ignore_cert_errors" yaml:"ignore_cert_errors"`

	// ViewportWidth/Height fix the viewport. Zero means a randomized
	// desktop viewport is picked per session.
	ViewportWidth  int `mapstructure:"viewport_width"  yaml:"viewport_width"`
	ViewportHeight int `mapstructure:"viewport_height" yaml:"viewport_height"`

	// UserDataDir enables a persistent browser profile.
	UserDataDir string `mapstructure:"user_data_dir" yaml:"user_data_dir"`

	// Screenshots enables debug screenshots after each page load and
	// after a detected challenge.
	Screenshots   bool   `mapstructure:"screenshots"    yaml:"screenshots"`
	ScreenshotDir string `mapstructure:"screenshot_dir" yaml:"screenshot_dir"`
}

// NavigateConfig controls per-attempt navigation and the fallback chain.
type NavigateConfig struct {
	// Timeout bounds a single navigation attempt.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// SettleDelay is the post-load wait for dynamic content.
	SettleDelay time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`

	// ChallengeWait is how long to pause for manual CAPTCHA solving.
	// Only applies in headful mode; zero disables the wait entirely.
	ChallengeWait time.Duration `mapstructure:"challenge_wait" yaml:"challenge_wait"`

	// CacheTemplate is the search-engine cache viewer URL; %s is
	// replaced with the escaped target URL.
	CacheTemplate string `mapstructure:"cache_template" yaml:"cache_template"`

	// MinCachedBytes is the content-length floor below which a cached
	// page is treated as an error stub rather than a real page.
	MinCachedBytes int `mapstructure:"min_cached_bytes" yaml:"min_cached_bytes"`

	// ReferrerURL is the referrer planted by the alt-referrer strategy.
	ReferrerURL string `mapstructure:"referrer_url" yaml:"referrer_url"`
}

// ScraperConfig controls extraction and the result contract.
type ScraperConfig struct {
	// StrictErrors makes total failure surface as an error instead of
	// a degraded record.
	StrictErrors bool `mapstructure:"strict_errors" yaml:"strict_errors"`

	// MaxReviews/MaxFeatures cap list fields to bound payload size.
	MaxReviews  int `mapstructure:"max_reviews"  yaml:"max_reviews"`
	MaxFeatures int `mapstructure:"max_features" yaml:"max_features"`

	// MinImagePixels is the size floor for the last-resort "any large
	// on-page image" fallback.
	MinImagePixels int `mapstructure:"min_image_pixels" yaml:"min_image_pixels"`
}

// Storage sink types.
const (
	StorageNone    = "none"
	StorageJSON    = "json"
	StorageMongoDB = "mongodb"
)

// StorageConfig controls optional persistence of extracted records.
type StorageConfig struct {
	Type            string `mapstructure:"type"             yaml:"type"` // none, json, mongodb
	OutputPath      string `mapstructure:"output_path"      yaml:"output_path"`
	MongoURI        string `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection" yaml:"mongo_collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:         true,
			NoSandbox:        true,
			IgnoreCertErrors: true,
			Screenshots:      true,
			ScreenshotDir:    "screenshots",
		},
		Navigate: NavigateConfig{
			Timeout:        60 * time.Second,
			SettleDelay:    3 * time.Second,
			ChallengeWait:  30 * time.Second,
			CacheTemplate:  "https://webcache.googleusercontent.com/search?q=cache:%s",
			MinCachedBytes: 5000,
			ReferrerURL:    "https://www.google.com/",
		},
		Scraper: ScraperConfig{
			StrictErrors:   false,
			MaxReviews:     10,
			MaxFeatures:    15,
			MinImagePixels: 200,
		},
		Storage: StorageConfig{
			Type:            "none",
			OutputPath:      "./output",
			MongoDatabase:   "prowl",
			MongoCollection: "products",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
