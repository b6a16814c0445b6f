package pool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenilsonani/adump/internal/core/kind"
	"github.com/fenilsonani/adump/internal/core/pool"
	"github.com/fenilsonani/adump/internal/testutil"
)

func TestRamPoolRoundTrip(t *testing.T) {
	p := pool.NewRamPool()
	require.NoError(t, p.BeginWriting())

	for _, size := range testutil.BoundarySizes() {
		ch := testutil.MakeRandomChunk(size, size)
		ok, err := p.ContainsKey(ch.Oid())
		require.NoError(t, err)
		require.False(t, ok)
		require.NoError(t, p.Add(ch))
	}
	require.NoError(t, p.Flush())

	for _, size := range testutil.BoundarySizes() {
		want := testutil.MakeRandomChunk(size, size)
		got, err := p.Find(want.Oid())
		require.NoError(t, err)
		assert.Equal(t, want.Kind(), got.Kind())

		wd, err := want.Data()
		require.NoError(t, err)
		gd, err := got.Data()
		require.NoError(t, err)
		assert.Equal(t, wd, gd)
	}
}

func TestRamPoolMissing(t *testing.T) {
	p := pool.NewRamPool()
	ch := testutil.MakeRandomChunk(64, 1)
	_, err := p.Find(ch.Oid())
	assert.ErrorIs(t, err, pool.ErrMissingChunk)

	ok, err := p.ContainsKey(ch.Oid())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRamPoolBackups(t *testing.T) {
	p := pool.NewRamPool()

	want := testutil.MakeKindedRandomChunk(kind.Back, 64, 1)
	require.NoError(t, p.Add(want))
	require.NoError(t, p.Add(testutil.MakeRandomChunk(64, 2)))

	backs, err := p.Backups()
	require.NoError(t, err)
	require.Len(t, backs, 1)
	assert.Equal(t, want.Oid(), backs[0])
}

func TestRamPoolDedupe(t *testing.T) {
	p := pool.NewRamPool()
	ch := testutil.MakeRandomChunk(64, 1)
	require.NoError(t, p.Add(ch))
	require.NoError(t, p.Add(testutil.MakeRandomChunk(64, 1)))

	got, err := p.Find(ch.Oid())
	require.NoError(t, err)
	assert.Equal(t, ch.Oid(), got.Oid())
}
