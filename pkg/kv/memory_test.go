package kv

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, found, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 0))
	v, found, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("v"), v)

	require.NoError(t, m.Delete(ctx, "k"))
	_, found, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryAbsoluteExpiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.Now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "tok", []byte("payload"), 30*time.Minute))

	now = now.Add(30*time.Minute - time.Second)
	_, found, err := m.Get(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, found, "still valid just before the deadline")

	// Reads must not slide the deadline.
	now = now.Add(2 * time.Second)
	_, found, err = m.Get(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, found, "expired key behaves like an unknown key")
}

func TestMemoryConcurrentReads(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Hour))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, found, err := m.Get(ctx, "k")
			assert.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, []byte("v"), v)
		}()
	}
	wg.Wait()
}
