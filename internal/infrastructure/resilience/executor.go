// Package resilience wraps outbound calls with bounded retries and a
// per-operation circuit breaker. The local model server and the message
// broker both degrade under load; the breaker keeps a struggling
// dependency from being hammered while it recovers.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Verdict tells the executor how to treat one failure: whether the call
// may be retried, and whether it should count against the breaker.
// Client-side mistakes (bad request, not found) are typically neither.
type Verdict struct {
	Retryable     bool
	RecordFailure bool
}

// Classifier maps an error to its Verdict.
type Classifier func(err error) Verdict

type Executor struct {
	cfg Config

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

func NewExecutor(cfg Config) *Executor {
	return &Executor{
		cfg:      cfg.normalize(),
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
}

// Do runs fn under the retry policy and the breaker registered for op.
// Each distinct op keeps its own breaker so one dead dependency cannot
// open the circuit of a healthy one.
func (e *Executor) Do(ctx context.Context, op string, classify Classifier, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("resilience: nil operation callback")
	}
	op = strings.TrimSpace(op)
	if op == "" {
		op = "unknown"
	}
	if classify == nil {
		classify = alwaysRecord
	}

	if !e.cfg.Breaker.Enabled {
		return e.retry(ctx, op, classify, fn)
	}

	_, err := e.breaker(op, classify).Execute(func() (any, error) {
		return nil, e.retry(ctx, op, classify, fn)
	})
	return err
}

func (e *Executor) retry(ctx context.Context, op string, classify Classifier, fn func(context.Context) error) error {
	delay := e.cfg.Retry.BaseDelay

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !classify(err).Retryable || attempt == e.cfg.Retry.Attempts {
			return err
		}

		wait := jitter(delay)
		slog.Warn("retry_attempt",
			"operation", op,
			"attempt", attempt,
			"max_attempts", e.cfg.Retry.Attempts,
			"wait_ms", wait.Milliseconds(),
			"error", err,
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * e.cfg.Retry.Multiplier)
		if delay > e.cfg.Retry.MaxDelay {
			delay = e.cfg.Retry.MaxDelay
		}
	}
}

func (e *Executor) breaker(op string, classify Classifier) *gobreaker.CircuitBreaker[any] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if cb, ok := e.breakers[op]; ok {
		return cb
	}

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        op,
		MaxRequests: e.cfg.Breaker.HalfOpenCalls,
		Timeout:     e.cfg.Breaker.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < e.cfg.Breaker.MinSamples {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= e.cfg.Breaker.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !classify(err).RecordFailure
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit_breaker_state_change", "operation", name, "from", from.String(), "to", to.String())
		},
	})
	e.breakers[op] = cb
	return cb
}

// jitter spreads retries of concurrent callers over [d/2, d).
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + time.Duration(rand.Int63n(int64(half)+1))
}

func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func alwaysRecord(error) Verdict {
	return Verdict{Retryable: false, RecordFailure: true}
}
