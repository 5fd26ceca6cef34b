package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

var (
	ErrAttemptsExhausted = errors.New("retry attempts exhausted")
	ErrCanceled          = errors.New("canceled while waiting to retry")
)

// Policy describes an exponential backoff schedule
type Policy struct {
	// Attempts is the total number of tries, the first one included
	Attempts int
	// Base is the wait before the second try
	Base time.Duration
	// Cap bounds any single wait
	Cap time.Duration
	// Factor multiplies the wait after every failed try
	Factor float64
	// Jitter spreads each wait by ±Jitter of its value (0-1)
	Jitter float64
}

// DefaultPolicy is used for catalog loads and event publishing: 200ms, 400ms, 800ms
func DefaultPolicy() Policy {
	return Policy{
		Attempts: 4,
		Base:     200 * time.Millisecond,
		Cap:      5 * time.Second,
		Factor:   2,
		Jitter:   0.1,
	}
}

func (p Policy) normalized() Policy {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.Base <= 0 {
		p.Base = 200 * time.Millisecond
	}
	if p.Cap < p.Base {
		p.Cap = p.Base
	}
	if p.Factor < 1 {
		p.Factor = 2
	}
	p.Jitter = math.Max(0, math.Min(1, p.Jitter))
	return p
}

// Backoff returns the wait after the given failed try (0-based)
func (p Policy) Backoff(try int) time.Duration {
	p = p.normalized()

	wait := float64(p.Base) * math.Pow(p.Factor, float64(try))
	if p.Jitter > 0 {
		wait += (rand.Float64()*2 - 1) * wait * p.Jitter
	}
	if wait > float64(p.Cap) {
		wait = float64(p.Cap)
	}
	if wait <= 0 {
		wait = float64(p.Base)
	}
	return time.Duration(wait)
}

// permanent marks an error that must not be retried
type permanent struct{ err error }

func (e *permanent) Error() string { return e.err.Error() }
func (e *permanent) Unwrap() error { return e.err }

// Permanent stops the retry loop and surfaces err unchanged
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanent{err: err}
}

// Notify is called after a failed try, before waiting
type Notify func(try int, err error, wait time.Duration)

// Do runs op until it succeeds, returns a permanent error, runs out of
// attempts or ctx is done. The last error is joined onto ErrAttemptsExhausted.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error, notify Notify) error {
	p = p.normalized()

	var last error
	for try := 0; try < p.Attempts; try++ {
		if err := ctx.Err(); err != nil {
			return errors.Join(ErrCanceled, err)
		}

		last = op(ctx)
		if last == nil {
			return nil
		}

		var perm *permanent
		if errors.As(last, &perm) {
			return perm.err
		}

		if try == p.Attempts-1 {
			break
		}

		wait := p.Backoff(try)
		if notify != nil {
			notify(try+1, last, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(ErrCanceled, last)
		case <-timer.C:
		}
	}

	return errors.Join(ErrAttemptsExhausted, last)
}
