package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Navigate.Timeout <= 0 {
		return fmt.Errorf("navigate.timeout must be > 0")
	}
	if cfg.Navigate.SettleDelay < 0 {
		return fmt.Errorf("navigate.settle_delay must be >= 0")
	}
	if cfg.Navigate.ChallengeWait < 0 {
		return fmt.Errorf("navigate.challenge_wait must be >= 0")
	}
	if cfg.Navigate.MinCachedBytes < 0 {
		return fmt.Errorf("navigate.min_cached_bytes must be >= 0")
	}
	if cfg.Navigate.CacheTemplate != "" && !strings.Contains(cfg.Navigate.CacheTemplate, "%s") {
		return fmt.Errorf("navigate.cache_template must contain a %%s placeholder")
	}

	if cfg.Scraper.MaxReviews < 1 {
		return fmt.Errorf("scraper.max_reviews must be >= 1, got %d", cfg.Scraper.MaxReviews)
	}
	if cfg.Scraper.MaxFeatures < 1 {
		return fmt.Errorf("scraper.max_features must be >= 1, got %d", cfg.Scraper.MaxFeatures)
	}
	if cfg.Scraper.MinImagePixels < 0 {
		return fmt.Errorf("scraper.min_image_pixels must be >= 0")
	}

	switch cfg.Storage.Type {
	case "none", "json", "mongodb":
	default:
		return fmt.Errorf("storage.type %q is not supported (valid: none, json, mongodb)", cfg.Storage.Type)
	}
	if cfg.Storage.Type == "mongodb" && cfg.Storage.MongoURI == "" {
		return fmt.Errorf("storage.mongo_uri is required when storage.type is mongodb")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

// ValidateURL checks if a URL string is a valid extraction target.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
