package nutrition

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestCacheTTL(t *testing.T) {
	clock := newFakeClock()
	cache := NewCache(time.Minute).WithClock(clock.Now)

	cache.Put("apple", []Result{{Name: "Apple", AvailableUnits: []string{"g"}}})

	got, ok := cache.Get("apple")
	require.True(t, ok)
	assert.Equal(t, "Apple", got[0].Name)

	clock.Advance(time.Minute)
	_, ok = cache.Get("apple")
	assert.True(t, ok, "entry exactly ttl old is still fresh")

	clock.Advance(time.Nanosecond)
	_, ok = cache.Get("apple")
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len(), "stale entries are not purged")

	_, ok = cache.Get("pear")
	assert.False(t, ok)
}

func TestCacheReturnsCopies(t *testing.T) {
	cache := NewCache(time.Minute)
	original := []Result{{Name: "Apple", AvailableUnits: []string{"g", "oz"}}}
	cache.Put("apple", original)

	original[0].Name = "mutated"
	got, _ := cache.Get("apple")
	got[0].AvailableUnits[0] = "mutated"

	again, ok := cache.Get("apple")
	require.True(t, ok)
	assert.Equal(t, "Apple", again[0].Name)
	assert.Equal(t, []string{"g", "oz"}, again[0].AvailableUnits)
}

func TestCacheGetOrCompute(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	cache := NewCache(time.Minute).WithClock(clock.Now)

	calls := 0
	compute := func(context.Context) ([]Result, error) {
		calls++
		return []Result{{Name: "Banana"}}, nil
	}

	results, hit, err := cache.GetOrCompute(ctx, "banana", compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "Banana", results[0].Name)

	_, hit, err = cache.GetOrCompute(ctx, "banana", compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, calls)

	clock.Advance(2 * time.Minute)
	_, hit, err = cache.GetOrCompute(ctx, "banana", compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, calls)
}

func TestCacheGetOrComputeDoesNotStoreErrors(t *testing.T) {
	cache := NewCache(time.Minute)
	boom := errors.New("boom")

	_, _, err := cache.GetOrCompute(context.Background(), "kiwi", func(context.Context) ([]Result, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, cache.Len())
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache := NewCache(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := []string{"apple", "pear", "plum"}[i%3]
			_, _, err := cache.GetOrCompute(context.Background(), key, func(context.Context) ([]Result, error) {
				return []Result{{Name: key}}, nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 3, cache.Len())
}
