package cache

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 22, 12, 0, 0, 0, time.UTC)}
}

func TestLRUCapacityEvictsOldest(t *testing.T) {
	var evicted []string
	c := NewLRUCache[int](2, time.Minute, WithEvict(func(k string, _ int) { evicted = append(evicted, k) }))

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted as least recently used")
	}
	if len(evicted) != 1 || evicted[0] != "b" {
		t.Fatalf("unexpected evictions %v", evicted)
	}
	if c.Size() != 2 {
		t.Fatalf("expected size 2, got %d", c.Size())
	}
}

func TestLRUExpiryRefreshedByGet(t *testing.T) {
	clock := newClock()
	c := NewLRUCache[string](10, time.Minute, WithNow[string](clock.Now))
	c.Set("s", "v")

	clock.Advance(50 * time.Second)
	if _, ok := c.Get("s"); !ok {
		t.Fatalf("entry expired too early")
	}
	clock.Advance(50 * time.Second)
	if _, ok := c.Get("s"); !ok {
		t.Fatalf("Get should have refreshed the expiry")
	}
	clock.Advance(61 * time.Second)
	if _, ok := c.Get("s"); ok {
		t.Fatalf("entry should have expired")
	}
}

func TestLRUCleanExpiredRunsHook(t *testing.T) {
	clock := newClock()
	closed := map[string]bool{}
	c := NewLRUCache[int](10, time.Minute,
		WithNow[int](clock.Now),
		WithEvict(func(k string, _ int) { closed[k] = true }))
	c.Set("old", 1)
	clock.Advance(30 * time.Second)
	c.Set("new", 2)
	clock.Advance(45 * time.Second)

	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("expected 1 expired entry, got %d", n)
	}
	if !closed["old"] || closed["new"] {
		t.Fatalf("unexpected hook calls %v", closed)
	}
}

func TestLRUReplaceDoesNotEvict(t *testing.T) {
	calls := 0
	c := NewLRUCache[int](2, time.Minute, WithEvict(func(string, int) { calls++ }))
	c.Set("a", 1)
	c.Set("a", 2)
	if v, _ := c.Get("a"); v != 2 || calls != 0 {
		t.Fatalf("expected replaced value without eviction, got v=%d calls=%d", v, calls)
	}
	c.Delete("a")
	if calls != 1 {
		t.Fatalf("Delete should run the hook")
	}
}

func TestGetOrCreate(t *testing.T) {
	c := NewLRUCache[*int](4, time.Minute)
	created := 0
	mk := func() *int { created++; v := created; return &v }

	first := c.GetOrCreate("k", mk)
	second := c.GetOrCreate("k", mk)
	if first != second || created != 1 {
		t.Fatalf("expected one creation, got %d", created)
	}
}

func TestPurge(t *testing.T) {
	calls := 0
	c := NewLRUCache[int](4, time.Minute, WithEvict(func(string, int) { calls++ }))
	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()
	if c.Size() != 0 || calls != 2 {
		t.Fatalf("expected empty cache and 2 hook calls, got size=%d calls=%d", c.Size(), calls)
	}
}

func TestManagerSweep(t *testing.T) {
	clock := newClock()
	c := NewLRUCache[int](4, time.Second, WithNow[int](clock.Now))
	c.Set("a", 1)
	m := NewManager(nil)
	m.Register(c)
	clock.Advance(2 * time.Second)
	if n := m.Sweep(); n != 1 {
		t.Fatalf("expected one swept entry, got %d", n)
	}
	m.StartCleanup(time.Hour)
	m.Stop()
	m.Stop()
}
