package retry

import (
	"context"
	"math/rand"
	"time"
)

const (
	defaultMaxRetries = 3
	defaultBaseWait   = 1 * time.Second
	defaultMaxWait    = 30 * time.Second
)

type options struct {
	maxRetries int
	baseWait   time.Duration
	maxWait    time.Duration
}

// Option customizes retry behavior.
type Option func(*options)

// WithMaxRetries sets the number of retries after the first attempt.
func WithMaxRetries(n int) Option {
	return func(o *options) { o.maxRetries = n }
}

// WithBaseWait sets the wait before the first retry. Subsequent waits double.
func WithBaseWait(d time.Duration) Option {
	return func(o *options) { o.baseWait = d }
}

// WithMaxWait caps the wait between retries.
func WithMaxWait(d time.Duration) Option {
	return func(o *options) { o.maxWait = d }
}

// Do runs fn, retrying with jittered exponential backoff while it returns a
// recoverable error. The first non-recoverable error, or the last error once
// retries are exhausted, is returned. The function always runs at least once.
func Do(ctx context.Context, fn func() error, opts ...Option) error {
	o := &options{
		maxRetries: defaultMaxRetries,
		baseWait:   defaultBaseWait,
		maxWait:    defaultMaxWait,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.maxRetries < 0 {
		o.maxRetries = 0
	}

	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !IsRecoverable(err) || attempt >= o.maxRetries {
			return err
		}

		wait := o.baseWait << attempt
		if wait > o.maxWait {
			wait = o.maxWait
		}
		// Full jitter keeps concurrent retries from synchronizing.
		wait = time.Duration(rand.Int63n(int64(wait)) + int64(wait)/2)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
