package timeutil

import (
	"math"
	"math/rand"
	"time"
)

// durationPtr is a helper function to create a pointer to a time.Duration
func DurationPtr(d time.Duration) *time.Duration {
	return &d
}

// MaxDuration returns the largest duration among the given values, or 0 if
// the slice is empty.
func MaxDuration(durations []time.Duration) time.Duration {
	var max time.Duration
	for _, d := range durations {
		if d > max {
			max = d
		}
	}
	return max
}

// ExponentialBackoffDelay computes the delay before the given attempt number
// (1-indexed) using the backoff parameters, then adds up to `jitter` of
// uniform random jitter. The result is capped at param.MaxDuration().
func ExponentialBackoffDelay(attempt int, jitter time.Duration, rng rand.Rand, param BackoffParam) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	raw := float64(param.InitialDuration()) * math.Pow(param.Multiplier(), float64(attempt-1))
	delay := time.Duration(raw)
	if max := param.MaxDuration(); max > 0 && delay > max {
		delay = max
	}
	if jitter > 0 {
		delay += time.Duration(rng.Int63n(int64(jitter) + 1))
	}
	return delay
}

// Sleeper abstracts time.Sleep so callers (the scheduler, worker loops) can
// be driven by a fake clock in tests.
type Sleeper interface {
	Sleep(d time.Duration)
}

type realSleeper struct{}

func NewRealSleeper() Sleeper {
	return realSleeper{}
}

func (realSleeper) Sleep(d time.Duration) {
	time.Sleep(d)
}
