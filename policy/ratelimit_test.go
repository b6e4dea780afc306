package policy

import (
	"testing"
	"time"
)

// TestRateLimiterSlidingWindowBoundsSustainedLoad implements spec.md §8
// universal invariant 6 under sustained load, not just an initial burst:
// across a continuously advancing clock, the count of admitted
// invocations within any trailing 60-second span never exceeds
// max_requests_per_minute. A token-bucket approximation lets a caller
// that waits out a partial refill keep drawing indefinitely; this test
// would catch that by driving the clock second by second across several
// minutes and checking every 60s span as it slides.
func TestRateLimiterSlidingWindowBoundsSustainedLoad(t *testing.T) {
	maxPerMinute := 5
	rl := newRateLimiter(RateLimitPolicy{MaxRequestsPerMinute: &maxPerMinute})

	clock := time.Unix(0, 0)
	rl.now = func() time.Time { return clock }

	var admitted []time.Time
	for second := 0; second < 180; second++ {
		clock = time.Unix(0, 0).Add(time.Duration(second) * time.Second)
		if rl.allow("echo").Allowed {
			admitted = append(admitted, clock)
		}
	}

	for _, t0 := range admitted {
		count := 0
		for _, ts := range admitted {
			if !ts.Before(t0) && ts.Before(t0.Add(time.Minute)) {
				count++
			}
		}
		if count > maxPerMinute {
			t.Fatalf("window starting at %s admitted %d invocations, want <= %d", t0, count, maxPerMinute)
		}
	}
}
