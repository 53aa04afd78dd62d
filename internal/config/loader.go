package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("PROWL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("prowl")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".prowl"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("browser.headless", cfg.Browser.Headless)
	v.SetDefault("browser.no_sandbox", cfg.Browser.NoSandbox)
	v.SetDefault("browser.ignore_cert_errors", cfg.Browser.IgnoreCertErrors)
	v.SetDefault("browser.viewport_width", cfg.Browser.ViewportWidth)
	v.SetDefault("browser.viewport_height", cfg.Browser.ViewportHeight)
	v.SetDefault("browser.user_data_dir", cfg.Browser.UserDataDir)
	v.SetDefault("browser.screenshots", cfg.Browser.Screenshots)
	v.SetDefault("browser.screenshot_dir", cfg.Browser.ScreenshotDir)

	v.SetDefault("navigate.timeout", cfg.Navigate.Timeout)
	v.SetDefault("navigate.settle_delay", cfg.Navigate.SettleDelay)
	v.SetDefault("navigate.challenge_wait", cfg.Navigate.ChallengeWait)
	v.SetDefault("navigate.cache_template", cfg.Navigate.CacheTemplate)
	v.SetDefault("navigate.min_cached_bytes", cfg.Navigate.MinCachedBytes)
	v.SetDefault("navigate.referrer_url", cfg.Navigate.ReferrerURL)

	v.SetDefault("scraper.strict_errors", cfg.Scraper.StrictErrors)
	v.SetDefault("scraper.max_reviews", cfg.Scraper.MaxReviews)
	v.SetDefault("scraper.max_features", cfg.Scraper.MaxFeatures)
	v.SetDefault("scraper.min_image_pixels", cfg.Scraper.MinImagePixels)

	v.SetDefault("storage.type", cfg.Storage.Type)
	v.SetDefault("storage.output_path", cfg.Storage.OutputPath)
	v.SetDefault("storage.mongo_uri", cfg.Storage.MongoURI)
	v.SetDefault("storage.mongo_database", cfg.Storage.MongoDatabase)
	v.SetDefault("storage.mongo_collection", cfg.Storage.MongoCollection)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)
}
