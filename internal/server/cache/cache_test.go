package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_BasicOperations(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)

	t.Run("Set and Get", func(t *testing.T) {
		c.Set("key1", "value1")
		val, found := c.Get("key1")
		require.True(t, found)
		assert.Equal(t, "value1", val)
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		_, found := c.Get("nonexistent")
		assert.False(t, found)
	})

	t.Run("Set and Delete", func(t *testing.T) {
		c.Set("key2", "value2")
		c.Delete("key2")
		_, found := c.Get("key2")
		assert.False(t, found)
	})

	t.Run("Clear", func(t *testing.T) {
		c.Set("key3", 3)
		c.Clear()
		assert.Zero(t, c.ItemCount())
	})
}

func TestCache_SetWithTTL(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)
	c.SetWithTTL("expiring", "value", 50*time.Millisecond)

	_, found := c.Get("expiring")
	require.True(t, found)

	time.Sleep(100 * time.Millisecond)
	_, found = c.Get("expiring")
	assert.False(t, found)
}

func TestCache_Stats(t *testing.T) {
	c := New(time.Minute, time.Minute)
	c.Set("a", 1)

	c.Get("a")
	c.Get("a")
	c.Get("b")

	assert.Equal(t, Stats{ItemCount: 1, Hits: 2, Misses: 1}, c.GetStats())
}

func TestKey(t *testing.T) {
	a := Key("inventory", []byte(`{"bundles":{"Core Set":1}}`))
	b := Key("inventory", []byte(`{"bundles":{"Core Set":1}}`))
	c := Key("inventory", []byte(`{"bundles":{"Core Set":2}}`))
	d := Key("resolve", []byte(`{"bundles":{"Core Set":1}}`))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.Len(t, a, len("inventory:")+64)
}

func TestCache_Concurrent(t *testing.T) {
	c := New(time.Minute, time.Minute)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := Key("k", []byte{byte(i % 5)})
			c.Set(key, i)
			c.Get(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, c.ItemCount())
	assert.Equal(t, int64(50), c.GetStats().Hits)
}
