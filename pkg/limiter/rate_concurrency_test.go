package limiter

import (
	"sync"
	"testing"
	"time"
)

// Exercises the limiter from many goroutines; run with -race.
func TestConcurrentAccess(t *testing.T) {
	r := NewConcurrentRateLimiter()
	r.SetBaseDelay(time.Millisecond)
	r.SetJitter(time.Millisecond)

	hosts := []string{"a.example.com", "b.example.com", "c.example.com"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			host := hosts[n%len(hosts)]
			for j := 0; j < 50; j++ {
				r.MarkLastFetchAsNow(host)
				r.ResolveDelay(host)
				if j%10 == 0 {
					r.Backoff(host)
					r.ResetBackoff(host)
				}
			}
		}(i)
	}
	wg.Wait()

	if len(r.GetHostTimings()) != len(hosts) {
		t.Errorf("expected %d tracked hosts, got %d", len(hosts), len(r.GetHostTimings()))
	}
}
