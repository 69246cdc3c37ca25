package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/quorumkit/quorum/internal/llm"
)

const (
	// MaxRetries is the bounded attempt budget per stage invocation.
	MaxRetries = 5
	// BaseDelay is the first backoff delay; each retry doubles it.
	BaseDelay = 30 * time.Second
)

// Executor runs one agent invocation with bounded retry.
//
// Two conditions are retryable: rate limiting (typed by the llm adapter) and
// an empty payload on an otherwise successful call. Exhausting the budget on
// rate limits fails the call; exhausting it on empty payloads degrades to one
// unconditional final attempt whose result is returned as-is, even if still
// empty. Any other failure propagates immediately. No jitter, no shared rate
// budget: each invocation retries independently.
type Executor struct {
	logger zerolog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewExecutor creates an Executor.
func NewExecutor(logger zerolog.Logger) *Executor {
	return &Executor{logger: logger, sleep: sleepCtx}
}

// SetSleep overrides the backoff sleep (for testing).
func (e *Executor) SetSleep(fn func(ctx context.Context, d time.Duration) error) {
	e.sleep = fn
}

// Execute invokes inv with prompt, retrying per the policy above. label names
// the stage for logs and error messages.
func (e *Executor) Execute(ctx context.Context, inv llm.Invoker, prompt, label string) (*llm.Response, error) {
	for attempt := 1; attempt <= MaxRetries; attempt++ {
		resp, err := inv.Invoke(ctx, prompt)
		if err == nil {
			if !resp.Empty() {
				return resp, nil
			}
			// Empty payload: treat as transient, not success.
			if attempt < MaxRetries {
				delay := backoff(attempt)
				e.logger.Warn().
					Str("stage", label).
					Int("attempt", attempt).
					Int("max_attempts", MaxRetries).
					Dur("delay", delay).
					Msg("empty response, retrying")
				if sleepErr := e.sleep(ctx, delay); sleepErr != nil {
					return nil, sleepErr
				}
			}
			continue
		}

		if !llm.IsRateLimit(err) {
			return nil, fmt.Errorf("%s: %w", label, err)
		}
		if attempt == MaxRetries {
			return nil, fmt.Errorf("%s: rate limit retries exhausted: %w", label, err)
		}

		delay := backoff(attempt)
		e.logger.Warn().
			Str("stage", label).
			Int("attempt", attempt).
			Int("max_attempts", MaxRetries).
			Dur("delay", delay).
			Msg("rate limited, retrying")
		if sleepErr := e.sleep(ctx, delay); sleepErr != nil {
			return nil, sleepErr
		}
	}

	// Every bounded attempt came back empty. One last best-effort call;
	// whatever it yields is the result.
	e.logger.Warn().Str("stage", label).Msg("empty-response budget exhausted, final best-effort attempt")
	resp, err := inv.Invoke(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	return resp, nil
}

// backoff returns the delay before the retry following attempt (1-indexed):
// BaseDelay * 2^(attempt-1).
func backoff(attempt int) time.Duration {
	return BaseDelay * time.Duration(1<<(attempt-1))
}

// sleepCtx blocks for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
