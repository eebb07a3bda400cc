package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSetHit(t *testing.T) {
	c := New(true)
	etag := c.Set("rankings:lifetime", []byte(`[{"name":"Anna"}]`), time.Minute)

	data, gotTag, ok := c.Get("rankings:lifetime")
	require.True(t, ok)
	assert.Equal(t, []byte(`[{"name":"Anna"}]`), data)
	assert.Equal(t, etag, gotTag)
}

func TestGetMissUnknownKey(t *testing.T) {
	c := New(true)
	_, _, ok := c.Get("rankings:season:1")
	assert.False(t, ok)
}

func TestGetMissAfterExpiry(t *testing.T) {
	c := New(true)
	c.Set("rankings:lifetime", []byte("[]"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	_, _, ok := c.Get("rankings:lifetime")
	assert.False(t, ok)
}

func TestConsecutiveGetsIdentical(t *testing.T) {
	c := New(true)
	c.Set("rankings:lifetime", []byte(`[1,2,3]`), time.Minute)

	first, tag1, ok1 := c.Get("rankings:lifetime")
	second, tag2, ok2 := c.Get("rankings:lifetime")
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second)
	assert.Equal(t, tag1, tag2)
}

func TestClearEmptiesEverything(t *testing.T) {
	c := New(true)
	c.Set("rankings:lifetime", []byte("[]"), time.Minute)
	c.Set("rankings:season:1", []byte("[]"), time.Minute)

	c.Clear()

	_, _, ok := c.Get("rankings:lifetime")
	assert.False(t, ok)
	_, _, ok = c.Get("rankings:season:1")
	assert.False(t, ok)
}

func TestSetOverwrites(t *testing.T) {
	c := New(true)
	c.Set("rankings:lifetime", []byte("old"), time.Minute)
	c.Set("rankings:lifetime", []byte("new"), time.Minute)

	data, _, ok := c.Get("rankings:lifetime")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), data)
}

func TestDisabledCacheAlwaysMisses(t *testing.T) {
	c := New(false)
	etag := c.Set("rankings:lifetime", []byte("[]"), time.Minute)
	assert.NotEmpty(t, etag) // still computes an ETag for the response

	_, _, ok := c.Get("rankings:lifetime")
	assert.False(t, ok)
}

func TestEvictRemovesExpired(t *testing.T) {
	c := New(true)
	c.Set("stale", []byte("[]"), time.Millisecond)
	c.Set("fresh", []byte("[]"), time.Minute)
	time.Sleep(5 * time.Millisecond)

	c.evict()

	stats := c.Stats()
	assert.Equal(t, 1, stats["total_keys"])
	assert.Equal(t, 1, stats["active_keys"])
}

func TestETagMatch(t *testing.T) {
	etag := ComputeETag([]byte("payload"))
	assert.True(t, CheckETagMatch(etag, etag))
	assert.True(t, CheckETagMatch("*", etag))
	assert.False(t, CheckETagMatch("", etag))
	assert.False(t, CheckETagMatch(`W/"other"`, etag))
}

func TestETagStableForSameBytes(t *testing.T) {
	assert.Equal(t, ComputeETag([]byte("abc")), ComputeETag([]byte("abc")))
	assert.NotEqual(t, ComputeETag([]byte("abc")), ComputeETag([]byte("abd")))
}
