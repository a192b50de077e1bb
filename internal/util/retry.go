package util

import (
	"context"
	"errors"
)

// Retry calls fn until it succeeds, at most maxTries times, and returns
// the result of the first successful call. A maxTries of zero or less is
// treated as a single attempt. On exhaustion the last error is returned.
func Retry[T any](maxTries int, fn func() (T, error)) (T, error) {
	var result T
	err := RetryErr(maxTries, func() error {
		v, err := fn()
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// RetryErr is Retry for functions that only report an error.
func RetryErr(maxTries int, fn func() error) error {
	if maxTries <= 0 {
		maxTries = 1
	}
	var lastErr error
	for try := 0; try < maxTries; try++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// RetryErrWithContext retries fn like RetryErr but gives up as soon as
// ctx is done or fn itself fails with a context error.
func RetryErrWithContext(ctx context.Context, maxTries int, fn func(context.Context) error) error {
	if maxTries <= 0 {
		maxTries = 1
	}
	var lastErr error
	for try := 0; try < maxTries; try++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
			return lastErr
		}
	}
	return lastErr
}
