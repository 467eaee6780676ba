package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTL_GetBeforeExpiry(t *testing.T) {
	now := time.Now()
	c := NewWithClock[string](time.Minute, func() time.Time { return now })

	c.Set("k", "v")

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestTTL_ExpiredEntryEvicted(t *testing.T) {
	now := time.Now()
	c := NewWithClock[string](time.Minute, func() time.Time { return now })

	c.Set("k", "v")
	now = now.Add(time.Minute + time.Second)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry should be removed on read")
}

func TestTTL_SetRefreshesExpiry(t *testing.T) {
	now := time.Now()
	c := NewWithClock[int](time.Minute, func() time.Time { return now })

	c.Set("k", 1)
	now = now.Add(45 * time.Second)
	c.Set("k", 2)
	now = now.Add(45 * time.Second)

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestTTL_Delete(t *testing.T) {
	c := New[bool](time.Minute)
	c.Set("k", true)
	c.Delete("k")

	_, ok := c.Get("k")
	assert.False(t, ok)
}
