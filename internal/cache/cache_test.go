// ABOUTME: Tests for the response cache implementations
// ABOUTME: Covers the no-op cache and interface compliance

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Both implementations must satisfy the interface.
var (
	_ Cache = Noop{}
	_ Cache = (*Redis)(nil)
)

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var c Noop

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))

	val, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, val)

	require.NoError(t, c.Delete(ctx, "k", "other"))
}

func TestNewRedis_Unreachable(t *testing.T) {
	_, err := NewRedis("127.0.0.1:1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connecting to redis")
}
