package timeutil

import (
	"math"
	"math/rand"
	"time"
)

// DurationPtr is a helper function to create a pointer to a time.Duration
func DurationPtr(d time.Duration) *time.Duration {
	return &d
}

// MaxDuration returns the largest duration in the slice, or zero for an
// empty slice.
func MaxDuration(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	max := durations[0]
	for _, d := range durations[1:] {
		if d > max {
			max = d
		}
	}
	return max
}

// ExponentialBackoffDelay computes the delay before the given retry attempt.
// The delay grows geometrically from the initial duration, is capped at the
// configured maximum, and gets a pseudo-random jitter between 0 and
// maxJitter added on top.
//
// attempt is 1-based: the delay after the first failed attempt uses
// exponent 0, so it equals the initial duration plus jitter.
func ExponentialBackoffDelay(
	attempt int,
	maxJitter time.Duration,
	rng rand.Rand,
	param BackoffParam,
) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	exponent := float64(attempt - 1)
	delay := float64(param.InitialDuration()) * math.Pow(param.Multiplier(), exponent)
	if maxDelay := float64(param.MaxDuration()); delay > maxDelay {
		delay = maxDelay
	}

	if maxJitter > 0 {
		delay += float64(rng.Int63n(int64(maxJitter)))
	}

	return time.Duration(delay)
}
