package store

import (
	"context"
	"time"
)

// RetryPolicy retries rate-limited operations with exponential backoff.
// Any other failure is returned to the caller on the first attempt.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
}

// Do runs fn, sleeping BaseDelay * Multiplier^attempt between attempts while
// the failure is classified as rate limiting. After MaxAttempts the last
// error is returned.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := float64(p.BaseDelay)
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		err = fn()
		if err == nil || !IsRateLimited(err) {
			return err
		}
		if attempt == attempts-1 {
			break
		}
		if sleepErr := sleep(ctx, time.Duration(delay)); sleepErr != nil {
			return sleepErr
		}
		delay *= p.Multiplier
	}
	return err
}

// Pacer spaces out store mutations: a short pause after every operation and a
// longer pause after every BatchSize-th one, keeping long batches under the
// store's rate limit.
type Pacer struct {
	OpPause    time.Duration
	BatchPause time.Duration
	BatchSize  int

	ops int
}

// Pause records one completed operation and sleeps the applicable interval.
func (p *Pacer) Pause(ctx context.Context) error {
	p.ops++
	if p.BatchSize > 0 && p.ops%p.BatchSize == 0 {
		return sleep(ctx, p.BatchPause)
	}
	return sleep(ctx, p.OpPause)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
