package ratelimit

import "testing"

func TestLimiterAllowsWithinBudget(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 3})

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d rejected within budget", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("request over budget allowed")
	}

	// A different client has its own budget.
	if !rl.Allow("10.0.0.2") {
		t.Fatal("unrelated client throttled")
	}
}
