package cas_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenilsonani/adump/internal/testutil"
	"github.com/fenilsonani/adump/pkg/cas"
)

func TestOpenSelectsAdump(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pool")
	require.NoError(t, cas.Create(dir, false, 1<<20))

	p, err := cas.Open(dir)
	require.NoError(t, err)

	ch := testutil.MakeRandomChunk(128, 1)
	require.NoError(t, p.BeginWriting())
	require.NoError(t, p.Add(ch))
	require.NoError(t, p.Flush())

	got, err := p.Find(ch.Oid())
	require.NoError(t, err)
	assert.Equal(t, ch.Oid(), got.Oid())
}

func TestOpenRejectsNonPool(t *testing.T) {
	_, err := cas.Open(t.TempDir())
	assert.ErrorIs(t, err, cas.ErrNotAPool)
}

func TestOpenRejectsLegacyPool(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.db"), []byte("SQLite"), 0644))

	_, err := cas.Open(dir)
	assert.ErrorIs(t, err, cas.ErrLegacyPool)
}

func TestFindMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pool")
	require.NoError(t, cas.Create(dir, false, 1<<20))

	p, err := cas.Open(dir)
	require.NoError(t, err)

	_, err = p.Find(testutil.MakeRandomChunk(16, 9).Oid())
	assert.ErrorIs(t, err, cas.ErrMissingChunk)
}
