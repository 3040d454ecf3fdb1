package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Policy bounds how an adapter call is attempted.
type Policy struct {
	// Attempts is the total number of tries, including the first. Values < 1 mean 1.
	Attempts int
	// Delay is multiplied by the attempt number before each retry.
	Delay time.Duration
	// Timeout bounds every single attempt. Zero disables the per-attempt deadline.
	Timeout time.Duration
}

// DefaultPolicy is used when no store settings are configured.
var DefaultPolicy = Policy{
	Attempts: 3,
	Delay:    200 * time.Millisecond,
	Timeout:  10 * time.Second,
}

// Once runs fn a single time under the per-attempt timeout.
func (p Policy) Once() Policy {
	p.Attempts = 1
	return p
}

// Do calls fn until it succeeds, returns a non-transient error, or attempts run out.
// The parent ctx ending stops the loop immediately.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * p.Delay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("retry aborted after %d attempt(s): %w", attempt, errors.Join(ctx.Err(), lastErr))
			}
		}

		lastErr = attemptOnce(ctx, p.Timeout, fn)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil || !IsTransient(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

func attemptOnce(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(attemptCtx)
}

type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// MarkTransient flags err as safe to retry. Backends use it for driver-specific
// network failures that the generic classification cannot see.
func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err is worth another attempt.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var marked *transientError
	if errors.As(err, &marked) {
		return true
	}

	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
			return true
		}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}
