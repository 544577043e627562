package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// verdict is what RetryProvider does after a failed attempt.
type verdict int

const (
	giveUp verdict = iota
	retry
	// retryOnce allows a single repeat per Generate call.
	retryOnce
)

// RetryProvider retries transient failures with exponential backoff and
// jitter. Rate limits, outages and network errors are retried; rejected
// requests, truncation and cancellation are final. A schema violation gets
// one more try since a fresh sample often conforms.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps p. MaxAttempts below one means a single attempt.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err     error
		usedOne bool
	)
	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(r.backoff(attempt-1, err))
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		var resp *Response
		if resp, err = r.inner.Generate(ctx, req); err == nil {
			return resp, nil
		}

		switch classify(err) {
		case giveUp:
			return nil, err
		case retryOnce:
			if usedOne {
				return nil, err
			}
			usedOne = true
		}
	}
	return nil, err
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

func classify(err error) verdict {
	var (
		rejected  *RejectedError
		truncated *TruncatedError
		invalid   *InvalidResponseError
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return giveUp
	case errors.As(err, &rejected), errors.As(err, &truncated):
		return giveUp
	case errors.As(err, &invalid):
		return retryOnce
	default:
		return retry
	}
}

// backoff is the wait after the given zero-based failed attempt. A
// provider's Retry-After wins over the schedule.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *RateLimitError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	wait := math.Min(
		float64(r.config.InitialWait)*math.Pow(r.config.Multiplier, float64(attempt)),
		float64(r.config.MaxWait),
	)
	// ±20% jitter
	wait *= 0.8 + 0.4*rand.Float64()
	return time.Duration(wait)
}
