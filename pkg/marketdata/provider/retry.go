package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/rxtech-lab/argo-bars/pkg/errors"
)

// FailureKind classifies the outcome of a single attempt.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureClient
	FailureServer
	FailureTransport
	FailureDecode
	FailureCanceled
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "ok"
	case FailureClient:
		return "client_error"
	case FailureServer:
		return "server_error"
	case FailureTransport:
		return "transport_error"
	case FailureDecode:
		return "decode_error"
	case FailureCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Retryable reports whether another attempt may succeed.
func (k FailureKind) Retryable() bool {
	return k == FailureServer || k == FailureTransport
}

// HTTPStatusError carries a non-2xx response.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}

	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// attemptResult is the outcome of one attempt: a value, or a classified failure.
type attemptResult[T any] struct {
	value T
	kind  FailureKind
	err   error
}

func succeeded[T any](value T) attemptResult[T] {
	return attemptResult[T]{value: value, kind: FailureNone}
}

func failed[T any](kind FailureKind, err error) attemptResult[T] {
	return attemptResult[T]{kind: kind, err: err}
}

// RetryPolicy bounds the attempts made for one request.
type RetryPolicy struct {
	MaxAttempts int
	// BaseDelay is doubled for every server error attempt.
	BaseDelay time.Duration
	// TransportDelay is the fixed wait after a network failure.
	TransportDelay time.Duration
}

// DefaultRetryPolicy makes three attempts, backing off 1s then 2s on server
// errors and waiting 1s after network failures.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		BaseDelay:      time.Second,
		TransportDelay: time.Second,
	}
}

// Delay returns the wait after the given zero-based attempt failed with kind.
func (p RetryPolicy) Delay(kind FailureKind, attempt int) time.Duration {
	if kind == FailureServer {
		return p.BaseDelay * time.Duration(1<<attempt)
	}

	return p.TransportDelay
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts <= 0 {
		return 1
	}

	return p.MaxAttempts
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// withRetry runs attempt until it succeeds, fails terminally or the policy is exhausted.
func withRetry[T any](
	ctx context.Context,
	policy RetryPolicy,
	sleep SleepFunc,
	onRetry func(RetryEvent),
	attempt func(ctx context.Context, n int) attemptResult[T],
) (T, error) {
	var (
		zero T
		last attemptResult[T]
	)

	maxAttempts := policy.attempts()

	for n := 0; n < maxAttempts; n++ {
		last = attempt(ctx, n)
		if last.kind == FailureNone {
			return last.value, nil
		}

		if !last.kind.Retryable() {
			return zero, last.err
		}

		if n == maxAttempts-1 {
			break
		}

		delay := policy.Delay(last.kind, n)
		onRetry(RetryEvent{
			Attempt:     n + 1,
			MaxAttempts: maxAttempts,
			Kind:        last.kind,
			Delay:       delay,
			Err:         last.err,
		})

		if err := sleep(ctx, delay); err != nil {
			return zero, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "fetch canceled while waiting to retry", err)
		}
	}

	return zero, errors.Wrapf(errors.ErrCodeRetryExhausted, last.err, "retries exhausted after %d attempts", maxAttempts)
}
