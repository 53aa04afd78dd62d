package navigate

import (
	"context"
	"log/slog"

	"github.com/sellermate/prowl/internal/types"
)

// ChainResult is the fallback chain's output: whatever HTML was last
// obtained plus the attempt trace. Succeeded reports whether any
// attempt was classified an unblocked success; extraction proceeds on
// the HTML either way to maximize partial data recovery.
type ChainResult struct {
	HTML      string
	Succeeded bool
	Attempts  []*types.NavigationAttempt
}

// RunChain tries each strategy exactly once, in order, stopping at the
// first success. Attempts are strictly sequential: parallel fallbacks
// would multiply resource usage and invite rate-limit blocking, which
// is the opposite of the goal.
func RunChain(ctx context.Context, nav Navigator, targetURL string, logger *slog.Logger) *ChainResult {
	res := &ChainResult{}

	for _, strategy := range types.Strategies() {
		att := nav.Navigate(ctx, targetURL, strategy)
		res.Attempts = append(res.Attempts, att)

		if att.Usable() {
			res.HTML = att.HTML
		}
		if att.Outcome == types.OutcomeSuccess {
			res.Succeeded = true
			break
		}

		logger.Info("strategy exhausted, falling back",
			"strategy", strategy,
			"outcome", att.Outcome,
		)

		if ctx.Err() != nil {
			break
		}
	}

	if !res.Succeeded {
		logger.Warn("fallback chain exhausted without a clean load",
			"attempts", len(res.Attempts),
			"content_size", len(res.HTML),
		)
	}
	return res
}
