package session

import (
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move time by hand.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestStore() (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)}
	store := NewStore()
	store.Clock = clock.now
	return store, clock
}

func TestCreateAssignsUniqueHandles(t *testing.T) {
	store, clock := newTestStore()
	a := store.Create(&Session{Email: "a@x.com"})
	b := store.Create(&Session{Email: "b@x.com"})
	if a == "" || b == "" || a == b {
		t.Fatalf("expected distinct non-empty handles, got %q and %q", a, b)
	}
	sess := store.Get(a)
	if sess == nil || sess.Email != "a@x.com" {
		t.Fatalf("unexpected session %+v", sess)
	}
	if !sess.ExpiresAt.Equal(clock.now().Add(Timeout)) {
		t.Fatalf("expected expiry %v, got %v", clock.now().Add(Timeout), sess.ExpiresAt)
	}
}

func TestSlidingExpiration(t *testing.T) {
	store, clock := newTestStore()
	id := store.Create(&Session{Email: "a@x.com"})

	// Just inside the window: valid, and the expiry slides forward.
	clock.advance(time.Hour + 59*time.Minute)
	if store.Get(id) == nil {
		t.Fatalf("session should still be valid at T+1h59m")
	}

	// 1h59m after the refresh is still inside the extended window.
	clock.advance(time.Hour + 59*time.Minute)
	if store.Get(id) == nil {
		t.Fatalf("session should still be valid at T+3h58m")
	}

	// More than the full TTL after the last refresh: evicted.
	clock.advance(2*time.Hour + time.Second)
	if store.Get(id) != nil {
		t.Fatalf("session should have expired")
	}
	if store.Len() != 0 {
		t.Fatalf("expired session should be evicted on lookup, %d records left", store.Len())
	}
}

func TestGetAfterTimeoutEvicts(t *testing.T) {
	store, clock := newTestStore()
	id := store.Create(&Session{Email: "a@x.com"})
	clock.advance(Timeout + time.Minute)
	if store.Get(id) != nil {
		t.Fatalf("expected nil for expired session")
	}
	if store.Len() != 0 {
		t.Fatalf("expected eviction, %d records left", store.Len())
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	store, _ := newTestStore()
	id := store.Create(&Session{Email: "a@x.com"})
	store.Remove(id)
	store.Remove(id)
	store.Remove("never-existed")
	if store.Get(id) != nil {
		t.Fatalf("expected removed session to be gone")
	}
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	store, clock := newTestStore()
	stale := store.Create(&Session{Email: "stale@x.com"})
	clock.advance(Timeout + time.Minute)
	fresh := store.Create(&Session{Email: "fresh@x.com"})

	if removed := store.Sweep(); removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	if store.Get(stale) != nil {
		t.Fatalf("stale session survived sweep")
	}
	if store.Get(fresh) == nil {
		t.Fatalf("fresh session removed by sweep")
	}
}

func TestConcurrentGetAndSweep(t *testing.T) {
	store, _ := newTestStore()
	id := store.Create(&Session{Email: "a@x.com"})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				store.Get(id)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 200 {
			store.Sweep()
		}
	}()
	wg.Wait()

	// A live session being refreshed must never be swept.
	if store.Get(id) == nil {
		t.Fatalf("live session lost during concurrent access")
	}
}
