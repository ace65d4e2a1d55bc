package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryCache_PutGet(t *testing.T) {
	c, err := createMemoryCache(Args{Size: 16})
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "질문")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Put(ctx, "질문", "답변"))
	answer, ok, err := c.Get(ctx, "질문")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "답변", answer)
}

func TestMemoryCache_OverwriteSameKey(t *testing.T) {
	c, err := createMemoryCache(Args{Size: 16})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "q", "first"))
	require.NoError(t, c.Put(ctx, "q", "second"))
	answer, ok, _ := c.Get(ctx, "q")
	require.True(t, ok)
	require.Equal(t, "second", answer)
}

func TestMemoryCache_KeysAreExact(t *testing.T) {
	c, err := createMemoryCache(Args{Size: 16})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "What projects?", "a"))
	// No normalization: case and whitespace variants are different keys.
	_, ok, _ := c.Get(ctx, "what projects?")
	require.False(t, ok)
	_, ok, _ = c.Get(ctx, " What projects? ")
	require.False(t, ok)
}

func TestNoneCache_AlwaysMisses(t *testing.T) {
	c, err := createNoneCache(Args{})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "q", "a"))
	_, ok, err := c.Get(ctx, "q")
	require.NoError(t, err)
	require.False(t, ok)
}
