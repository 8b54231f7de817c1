package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
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

func TestNew(t *testing.T) {
	c := New[string, []byte](100)
	if c == nil {
		t.Fatal("expected non-nil cache")
	}
	if c.maxEntries != 100 {
		t.Errorf("expected maxEntries 100, got %d", c.maxEntries)
	}

	c = New[string, []byte](0)
	if c.maxEntries != 1 {
		t.Errorf("expected maxEntries 1 (minimum), got %d", c.maxEntries)
	}
}

func TestSetGet(t *testing.T) {
	c := New[string, string](10)

	c.Set("alice", "bafy123", time.Hour)
	val, found := c.Get("alice")
	if !found {
		t.Fatal("expected to find alice")
	}
	if val != "bafy123" {
		t.Errorf("expected bafy123, got %s", val)
	}

	if _, found = c.Get("bob"); found {
		t.Error("expected not found for bob")
	}

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Entries != 1 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestExpiration(t *testing.T) {
	clk := newFakeClock()
	c := New[string, string](10, WithClock(clk.Now))

	c.Set("alice", "bafy123", time.Minute)
	clk.Advance(59 * time.Second)
	if _, found := c.Get("alice"); !found {
		t.Fatal("expected entry to be live before its TTL")
	}

	clk.Advance(time.Second)
	if _, found := c.Get("alice"); found {
		t.Error("expected entry to be expired at its TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry to be removed on read, len=%d", c.Len())
	}
}

func TestGetWithTime(t *testing.T) {
	clk := newFakeClock()
	c := New[string, string](10, WithClock(clk.Now))
	stored := clk.Now()

	c.Set("alice", "bafy123", time.Hour)
	clk.Advance(time.Minute)

	_, at, found := c.GetWithTime("alice")
	if !found {
		t.Fatal("expected to find alice")
	}
	if !at.Equal(stored) {
		t.Errorf("expected stored time %v, got %v", stored, at)
	}
}

func TestZeroTTL(t *testing.T) {
	c := New[string, string](10)

	c.Set("key1", "value1", 0)
	if _, found := c.Get("key1"); found {
		t.Error("expected zero TTL entry to not be stored")
	}

	c.Set("key2", "value2", -time.Second)
	if _, found := c.Get("key2"); found {
		t.Error("expected negative TTL entry to not be stored")
	}
}

func TestReplaceExtendsTTL(t *testing.T) {
	clk := newFakeClock()
	c := New[string, string](10, WithClock(clk.Now))

	c.Set("alice", "old", time.Minute)
	clk.Advance(50 * time.Second)
	c.Set("alice", "new", time.Minute)
	clk.Advance(50 * time.Second)

	val, found := c.Get("alice")
	if !found || val != "new" {
		t.Errorf("expected replaced value to be live, got %q found=%v", val, found)
	}
}

func TestLRUEviction(t *testing.T) {
	c := New[string, string](3)

	c.Set("key1", "value1", time.Hour)
	c.Set("key2", "value2", time.Hour)
	c.Set("key3", "value3", time.Hour)

	// Touch key1 so key2 becomes the oldest.
	c.Get("key1")
	c.Set("key4", "value4", time.Hour)

	if _, found := c.Get("key1"); !found {
		t.Error("expected key1 to still exist (recently used)")
	}
	if _, found := c.Get("key2"); found {
		t.Error("expected key2 to be evicted")
	}
	if _, found := c.Get("key4"); !found {
		t.Error("expected key4 to exist")
	}
	if ev := c.Stats().Evictions; ev != 1 {
		t.Errorf("expected 1 eviction, got %d", ev)
	}
}

type blob []byte

func (b blob) Size() int64 { return int64(len(b)) }

func TestByteBudgetEviction(t *testing.T) {
	c := New[string, blob](100, WithMaxBytes(10))

	c.Set("a", make(blob, 4), time.Hour)
	c.Set("b", make(blob, 4), time.Hour)
	if got := c.Stats().Bytes; got != 8 {
		t.Fatalf("expected 8 bytes, got %d", got)
	}

	// Touch a so b is the oldest when c overflows the budget.
	c.Get("a")
	c.Set("c", make(blob, 4), time.Hour)

	if _, found := c.Get("b"); found {
		t.Error("expected b to be evicted")
	}
	if _, found := c.Get("a"); !found {
		t.Error("expected a to survive")
	}
	st := c.Stats()
	if st.Bytes != 8 || st.Entries != 2 || st.Evictions != 1 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestByteBudgetRejectsOversizedValue(t *testing.T) {
	c := New[string, blob](100, WithMaxBytes(10))

	c.Set("big", make(blob, 11), time.Hour)
	if _, found := c.Get("big"); found {
		t.Error("expected oversized value not to be stored")
	}

	c.Set("k", make(blob, 5), time.Hour)
	c.Set("k", make(blob, 20), time.Hour)
	if _, found := c.Get("k"); found {
		t.Error("expected oversized replacement to drop the old entry")
	}
	if got := c.Stats().Bytes; got != 0 {
		t.Errorf("expected 0 bytes, got %d", got)
	}
}

func TestByteAccountingOnReplaceDeleteClear(t *testing.T) {
	c := New[string, blob](100, WithMaxBytes(100))

	c.Set("k", make(blob, 5), time.Hour)
	c.Set("k", make(blob, 7), time.Hour)
	if got := c.Stats().Bytes; got != 7 {
		t.Errorf("expected 7 bytes after replace, got %d", got)
	}

	c.Set("j", make(blob, 3), time.Hour)
	c.Delete("k")
	if got := c.Stats().Bytes; got != 3 {
		t.Errorf("expected 3 bytes after delete, got %d", got)
	}

	c.Clear()
	if got := c.Stats().Bytes; got != 0 {
		t.Errorf("expected 0 bytes after clear, got %d", got)
	}
}

func TestUnsizedValuesIgnoreByteBudget(t *testing.T) {
	c := New[string, string](100, WithMaxBytes(1))
	c.Set("a", "a long string value", time.Hour)
	if _, found := c.Get("a"); !found {
		t.Error("expected value without Size to be stored")
	}
}

func TestDelete(t *testing.T) {
	c := New[string, string](10)
	c.Set("alice", "bafy123", time.Hour)

	if !c.Delete("alice") {
		t.Error("expected Delete to report a removed entry")
	}
	if c.Delete("alice") {
		t.Error("expected second Delete to report nothing removed")
	}
	if _, found := c.Get("alice"); found {
		t.Error("expected alice to be gone")
	}
}

func TestDeleteFunc(t *testing.T) {
	c := New[string, int](10)
	c.Set("a/1", 1, time.Hour)
	c.Set("a/2", 2, time.Hour)
	c.Set("b/1", 3, time.Hour)

	n := c.DeleteFunc(func(k string, _ int) bool { return k[0] == 'a' })
	if n != 2 {
		t.Errorf("expected 2 removed, got %d", n)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 remaining, got %d", c.Len())
	}

	// LRU list must stay consistent with the map after bulk removal.
	c.Set("c/1", 4, time.Hour)
	if c.lru.Len() != len(c.data) {
		t.Errorf("lru has %d elements, map has %d", c.lru.Len(), len(c.data))
	}
}

func TestSweep(t *testing.T) {
	clk := newFakeClock()
	c := New[string, string](10, WithClock(clk.Now))

	c.Set("short", "x", time.Second)
	c.Set("long", "y", time.Hour)
	clk.Advance(2 * time.Second)

	if n := c.Sweep(); n != 1 {
		t.Errorf("expected 1 swept, got %d", n)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 remaining, got %d", c.Len())
	}
	if st := c.Stats(); st.Expired != 1 {
		t.Errorf("expected expired counter 1, got %d", st.Expired)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	c := New[string, string](10)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		c.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_Sweeps(t *testing.T) {
	c := New[string, string](10)
	c.Set("short", "x", time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx, 5*time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for c.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected the sweeper to remove the expired entry")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestClear(t *testing.T) {
	c := New[string, string](10)
	c.Set("a", "1", time.Hour)
	c.Set("b", "2", time.Hour)
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d", c.Len())
	}
}

func TestSweepInterval(t *testing.T) {
	if got := SweepInterval(time.Hour); got != 12*time.Minute {
		t.Errorf("expected 12m, got %v", got)
	}
	if got := SweepInterval(2 * time.Second); got != time.Second {
		t.Errorf("expected 1s floor, got %v", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int, int](64)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 500 {
				c.Set(g*1000+i, i, time.Minute)
				c.Get(g*1000 + i/2)
				if i%50 == 0 {
					c.Sweep()
				}
			}
		}()
	}
	wg.Wait()
	if c.Len() > 64 {
		t.Errorf("cache exceeded bound: %d", c.Len())
	}
}
