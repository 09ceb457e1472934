package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRemember(t *testing.T) {
	c := New(time.Minute, time.Minute)
	calls := 0
	compute := func() []string {
		calls++
		return []string{"P001"}
	}

	assert.Equal(t, []string{"P001"}, Remember(c, Key("records", "sales", "1"), compute))
	assert.Equal(t, []string{"P001"}, Remember(c, Key("records", "sales", "1"), compute))
	assert.Equal(t, 1, calls)

	stats := c.GetStats()
	assert.Equal(t, 1, stats.ItemCount)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestRememberTypeMismatchRecomputes(t *testing.T) {
	c := New(time.Minute, time.Minute)
	c.Set("k", "string")
	assert.Equal(t, 42, Remember(c, "k", func() int { return 42 }))
}

func TestExpiry(t *testing.T) {
	c := New(20*time.Millisecond, time.Hour)
	c.Set("k", 1)
	_, ok := c.Get("k")
	assert.True(t, ok)
	assert.Eventually(t, func() bool {
		_, ok := c.Get("k")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestDeletePrefixAndClear(t *testing.T) {
	c := New(time.Minute, time.Minute)
	c.Set(Key("records", "a"), 1)
	c.Set(Key("records", "b"), 2)
	c.Set(Key("summary", "a"), 3)

	assert.Equal(t, 2, c.DeletePrefix("records|"))
	assert.Equal(t, 1, c.ItemCount())

	c.Delete(Key("summary", "a"))
	assert.Zero(t, c.ItemCount())

	c.Set("x", 1)
	c.Clear()
	assert.Zero(t, c.ItemCount())
}

func TestConcurrentAccess(t *testing.T) {
	c := New(time.Minute, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := Key("k", string(rune('a'+i%5)))
			Remember(c, key, func() int { return i % 5 })
			c.Get(key)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 5, c.ItemCount())
}
