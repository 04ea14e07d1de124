package retry

import (
	"context"
	"time"

	"github.com/narvas12/mercor-assessment/internal/utils"
)

// wait is swappable in tests to observe backoff durations without sleeping.
var wait = utils.WaitFor

// Policy controls how many times an operation is attempted and how long to
// back off between attempts.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first one.
	// Values below one are treated as a single attempt.
	MaxAttempts int
	// Base is the backoff before the second attempt. Each subsequent attempt
	// doubles it.
	Base time.Duration
	// Cap bounds a single backoff so the exponential growth never produces
	// unbounded sleeps.
	Cap time.Duration
}

// Delay returns the capped exponential backoff applied after the given
// zero-based failed attempt.
func (p Policy) Delay(attempt int) time.Duration {
	d := p.Base
	for i := 0; i < attempt; i++ {
		d *= 2
		if p.Cap > 0 && d >= p.Cap {
			return p.Cap
		}
	}
	if p.Cap > 0 && d > p.Cap {
		return p.Cap
	}
	return d
}

// Do runs fn until it succeeds or the attempt budget is exhausted. A failure
// for which retryable returns false is returned immediately without consuming
// the remaining budget. The last underlying error is returned when all
// attempts fail. Backoff sleeps respect context cancellation.
func Do(ctx context.Context, p Policy, retryable func(error) bool, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if werr := wait(ctx, p.Delay(attempt-1)); werr != nil {
				return werr
			}
		}

		if err = fn(); err == nil {
			return nil
		}

		if retryable != nil && !retryable(err) {
			return err
		}
	}

	return err
}
