package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrInvalidURL          = errors.New("invalid URL")
	ErrEmptyPage           = errors.New("empty page content")
	ErrAllStrategiesFailed = errors.New("all navigation strategies failed")
)

// EnvironmentError wraps a browser or process launch failure. It is
// fatal to the whole extraction and never retried internally.
type EnvironmentError struct {
	Err error
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("browser environment error: %v", e.Err)
}

func (e *EnvironmentError) Unwrap() error { return e.Err }

// NavigationError wraps a failure during a single strategy attempt.
// It is recovered locally by the fallback chain and never propagates
// past the chain driver.
type NavigationError struct {
	URL      string
	Strategy Strategy
	Err      error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation error for %s (strategy=%s): %v", e.URL, e.Strategy, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// ExtractionError wraps a failure while parsing page content.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error for %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
