package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCacheSetGet(t *testing.T) {
	c := NewTTLCache()

	_, ok, err := c.GetBytes("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetBytes("k", []byte("v"), time.Minute))
	b, ok, err := c.GetBytes("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), b)
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache()
	require.NoError(t, c.SetBytes("k", []byte("v"), time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := c.GetBytes("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTTLCacheZeroTTLNeverExpires(t *testing.T) {
	c := NewTTLCache()
	require.NoError(t, c.SetBytes("k", []byte("v"), 0))

	_, ok, err := c.GetBytes("k")
	require.NoError(t, err)
	assert.True(t, ok)
}

type failingCache struct{ err error }

func (f *failingCache) GetBytes(string) ([]byte, bool, error)        { return nil, false, f.err }
func (f *failingCache) SetBytes(string, []byte, time.Duration) error { return f.err }

func TestLayeredBackfill(t *testing.T) {
	l1 := NewTTLCache()
	l2 := NewTTLCache()
	layered := NewLayered(l1, l2)

	require.NoError(t, l2.SetBytes("k", []byte("v"), time.Minute))

	b, ok, err := layered.GetBytes("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), b)

	// hit should have been copied into the faster layer
	b, ok, err = l1.GetBytes("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), b)
}

func TestLayeredWritesAllLayers(t *testing.T) {
	l1 := NewTTLCache()
	l2 := NewTTLCache()
	layered := NewLayered(l1, l2)

	require.NoError(t, layered.SetBytes("k", []byte("v"), time.Minute))

	_, ok, _ := l1.GetBytes("k")
	assert.True(t, ok)
	_, ok, _ = l2.GetBytes("k")
	assert.True(t, ok)
}

func TestLayeredFallsPastFailingLayer(t *testing.T) {
	bad := &failingCache{err: errors.New("down")}
	good := NewTTLCache()
	require.NoError(t, good.SetBytes("k", []byte("v"), time.Minute))

	layered := NewLayered(bad, good)
	b, ok, err := layered.GetBytes("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), b)
}
