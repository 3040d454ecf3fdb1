package retry_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"resale-inventory/pkg/retry"
)

var fastPolicy = retry.Policy{Attempts: 3, Delay: time.Millisecond, Timeout: 50 * time.Millisecond}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), fastPolicy, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return retry.MarkTransient(errors.New("flaky"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("permission denied")
	calls := 0
	err := retry.Do(context.Background(), fastPolicy, func(ctx context.Context) error {
		calls++
		return permanent
	})

	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDo_ReturnsLastErrorWhenExhausted(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), fastPolicy, func(ctx context.Context) error {
		calls++
		return status.Error(codes.Unavailable, "backend down")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestDo_PerAttemptTimeout(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), retry.Policy{Attempts: 2, Timeout: 10 * time.Millisecond}, func(ctx context.Context) error {
		calls++
		<-ctx.Done()
		return ctx.Err()
	})

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, calls)
}

func TestDo_ParentCancellationStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retry.Do(ctx, retry.Policy{Attempts: 5, Delay: time.Second}, func(ctx context.Context) error {
		calls++
		cancel()
		return retry.MarkTransient(errors.New("flaky"))
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"marked", retry.MarkTransient(errors.New("boom")), true},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"grpc unavailable", status.Error(codes.Unavailable, "x"), true},
		{"grpc not found", status.Error(codes.NotFound, "x"), false},
		{"grpc permission", status.Error(codes.PermissionDenied, "x"), false},
		{"googleapi 503", &googleapi.Error{Code: http.StatusServiceUnavailable}, true},
		{"googleapi 429", &googleapi.Error{Code: http.StatusTooManyRequests}, true},
		{"googleapi 403", &googleapi.Error{Code: http.StatusForbidden}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retry.IsTransient(tt.err))
		})
	}
}
