package keypool

import (
	"testing"
	"time"
)

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(nil, 10); err == nil {
		t.Fatal("expected error for empty credential list")
	}
	if _, err := New([]string{"k1"}, 0); err == nil {
		t.Fatal("expected error for non-positive ceiling")
	}
}

func TestAcquireRoundRobin(t *testing.T) {
	pool, err := New([]string{"k1", "k2", "k3"}, 10)
	if err != nil {
		t.Fatal(err)
	}

	want := []int{0, 1, 2, 0, 1, 2}
	for i, w := range want {
		if got := pool.Acquire(); got != w {
			t.Fatalf("acquire %d: got key %d, want %d", i, got, w)
		}
	}
}

func TestAcquireSkipsSaturatedKey(t *testing.T) {
	pool, err := New([]string{"k1", "k2"}, 1)
	if err != nil {
		t.Fatal(err)
	}

	if got := pool.Acquire(); got != 0 {
		t.Fatalf("first acquire: got %d, want 0", got)
	}
	// k1 is at its ceiling, so the scan must land on k2.
	if got := pool.Acquire(); got != 1 {
		t.Fatalf("second acquire: got %d, want 1", got)
	}
}

func TestAcquireBlocksWhenAllSaturated(t *testing.T) {
	pool, err := New([]string{"k1", "k2"}, 2)
	if err != nil {
		t.Fatal(err)
	}

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pool.now = func() time.Time { return current }

	var slept time.Duration
	pool.sleep = func(d time.Duration) {
		slept += d
		current = current.Add(d)
	}

	// 4 rapid calls fill both windows (2 credentials x max 2/min).
	for i := 0; i < 4; i++ {
		pool.Acquire()
		if slept != 0 {
			t.Fatalf("acquire %d slept unexpectedly", i)
		}
	}

	// 5th call must wait rather than hand out another slot in-window.
	got := pool.Acquire()
	if slept < 60*time.Second {
		t.Fatalf("5th acquire slept %s, want at least 60s", slept)
	}
	if got != 0 {
		t.Fatalf("post-wait acquire: got %d, want 0", got)
	}
	if n := pool.CallsInWindow(0); n != 1 {
		t.Fatalf("window was not reset: %d calls recorded", n)
	}
}

func TestWindowExpiry(t *testing.T) {
	pool, err := New([]string{"k1"}, 1)
	if err != nil {
		t.Fatal(err)
	}

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pool.now = func() time.Time { return current }
	pool.sleep = func(d time.Duration) { current = current.Add(d) }

	pool.Acquire()
	current = current.Add(61 * time.Second)

	if n := pool.CallsInWindow(0); n != 0 {
		t.Fatalf("expected aged-out window, got %d calls", n)
	}
	if got := pool.Acquire(); got != 0 {
		t.Fatalf("acquire after expiry: got %d, want 0", got)
	}
}
