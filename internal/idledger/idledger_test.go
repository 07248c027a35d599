package idledger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T) *Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger")
	l, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestCountersStartAtOne(t *testing.T) {
	l := open(t)
	assert.Equal(t, uint64(1), uint64(l.NextSurfaceId()))
	assert.Equal(t, uint64(1), uint64(l.NextMemoryPoolId()))
	assert.Equal(t, uint64(1), uint64(l.NextMemoryViewId()))
}

func TestCountersAreIndependentAndMonotonic(t *testing.T) {
	l := open(t)
	assert.Equal(t, uint64(1), uint64(l.NextSurfaceId()))
	assert.Equal(t, uint64(2), uint64(l.NextSurfaceId()))
	assert.Equal(t, uint64(1), uint64(l.NextMemoryPoolId()))
	assert.Equal(t, uint64(3), uint64(l.NextSurfaceId()))
}

func TestCountersSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger")

	l1, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), uint64(l1.NextSurfaceId()))
	assert.Equal(t, uint64(2), uint64(l1.NextSurfaceId()))
	require.NoError(t, l1.Close())

	l2, err := Open(path)
	require.NoError(t, err)
	defer l2.Close()
	assert.Equal(t, uint64(3), uint64(l2.NextSurfaceId()))
}
