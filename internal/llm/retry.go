package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// withRetry runs call up to attempts times, retrying only transient failures:
// 408, 429, 5xx, empty content, and network timeouts. A Retry-After header
// overrides the exponential backoff.
func withRetry(ctx context.Context, s settings, attempts int, call func() (string, error)) (string, error) {
	if attempts <= 1 {
		return call()
	}
	return retry.DoWithData(call,
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(s.retryBaseDelay),
		retry.MaxDelay(s.retryMaxDelay),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && statusErr.RetryAfter > 0 {
				return statusErr.RetryAfter
			}
			return retry.BackOffDelay(n, err, config)
		}),
		retry.RetryIf(retryable),
		retry.LastErrorOnly(true),
	)
}

func retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	// A per-attempt client timeout also matches context.DeadlineExceeded;
	// only a timeout net.Error is worth another attempt. Caller deadlines
	// end the loop through retry.Context.
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var emptyErr *EmptyContentError
	if errors.As(err, &emptyErr) {
		return true
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusRequestTimeout ||
			statusErr.StatusCode == http.StatusTooManyRequests ||
			statusErr.StatusCode >= http.StatusInternalServerError
	}

	return false
}

func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if when, err := http.ParseTime(value); err == nil {
		if delay := time.Until(when); delay > 0 {
			return delay
		}
	}
	return 0
}
