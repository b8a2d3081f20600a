package limiter

import "time"

// timing-related data used to track when a host was last requested
type hostTiming struct {
	lastFetchAt  time.Time
	backoffDelay time.Duration
	backoffCount int
}

func (h hostTiming) GetBackOffDelay() time.Duration {
	return h.backoffDelay
}

func (h hostTiming) GetLastFetchAt() time.Time {
	return h.lastFetchAt
}

func (h hostTiming) GetBackoffCount() int {
	return h.backoffCount
}
