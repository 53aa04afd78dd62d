package types

import "time"

// Strategy identifies one navigation approach in the fallback chain.
type Strategy string

const (
	StrategyDirect      Strategy = "direct"
	StrategyCached      Strategy = "cached"
	StrategyMobileUA    Strategy = "mobile-ua"
	StrategyAltReferrer Strategy = "alt-referrer"
	StrategyAltProfile  Strategy = "alt-profile"
	StrategyMinimal     Strategy = "minimal"
)

// Strategies returns the fallback chain in execution order. The chain
// tries each exactly once and stops at the first success.
func Strategies() []Strategy {
	return []Strategy{
		StrategyDirect,
		StrategyCached,
		StrategyMobileUA,
		StrategyAltReferrer,
		StrategyAltProfile,
		StrategyMinimal,
	}
}

// Outcome classifies the result of a single navigation attempt.
type Outcome string

const (
	// OutcomeSuccess means the page loaded and no challenge markers
	// were found in its content.
	OutcomeSuccess Outcome = "success"

	// OutcomeBlocked means the page loaded but substituted a CAPTCHA
	// or human-verification prompt for the real content.
	OutcomeBlocked Outcome = "soft-blocked"

	// OutcomeError means navigation itself failed (timeout, DNS, TLS).
	OutcomeError Outcome = "error"
)

// NavigationAttempt records one try of one strategy. The ordered
// sequence of attempts forms the chain's execution trace.
type NavigationAttempt struct {
	Strategy Strategy
	Outcome  Outcome
	HTML     string
	Elapsed  time.Duration
	Err      error
}

// Usable reports whether the attempt produced content worth parsing.
// Blocked pages still count: meta-level data can often be scraped off
// a challenge page.
func (a *NavigationAttempt) Usable() bool {
	return a.HTML != ""
}
