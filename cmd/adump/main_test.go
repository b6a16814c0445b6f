package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenilsonani/adump/internal/core/kind"
	"github.com/fenilsonani/adump/internal/testutil"
	"github.com/fenilsonani/adump/pkg/cas"
)

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pool")

	out, err := runCommand(t, newInitCommand(), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized empty pool")
	assert.FileExists(t, filepath.Join(dir, "metadata", "props.txt"))

	// A second init on the now-populated directory must fail.
	_, err = runCommand(t, newInitCommand(), dir)
	assert.Error(t, err)
}

func TestStoreAndInfo(t *testing.T) {
	tmp := t.TempDir()
	pool := filepath.Join(tmp, "pool")
	tree := filepath.Join(tmp, "tree")

	_, err := runCommand(t, newInitCommand(), pool)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(tree, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tree, "a.txt"),
		[]byte(testutil.MakeRandomString(1024, 1)), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tree, "sub", "b.txt"),
		[]byte(testutil.MakeRandomString(2048, 2)), 0644))

	out, err := runCommand(t, newStoreCommand(), pool, tree)
	require.NoError(t, err)
	assert.Contains(t, out, "stored 2 files")

	// Storing the same tree again finds only duplicates.
	out, err = runCommand(t, newStoreCommand(), pool, tree)
	require.NoError(t, err)
	assert.Contains(t, out, "2 duplicate chunks")

	out, err = runCommand(t, newInfoCommand(), pool)
	require.NoError(t, err)
	assert.Contains(t, out, "uuid:")
	assert.Contains(t, out, "pool-data-0000.data")
}

func TestCatCommand(t *testing.T) {
	pool := filepath.Join(t.TempDir(), "pool")
	require.NoError(t, cas.Create(pool, false, 1<<20))

	p, err := cas.Open(pool)
	require.NoError(t, err)
	ch := testutil.MakeRandomChunk(512, 3)
	require.NoError(t, p.Add(ch))
	require.NoError(t, p.Flush())

	out, err := runCommand(t, newCatCommand(), pool, ch.Oid().Hex())
	require.NoError(t, err)
	assert.Equal(t, testutil.MakeRandomString(512, 3), out)

	_, err = runCommand(t, newCatCommand(), pool, strings.Repeat("0", 40))
	assert.Error(t, err)
}

func TestBackupsCommand(t *testing.T) {
	pool := filepath.Join(t.TempDir(), "pool")
	require.NoError(t, cas.Create(pool, false, 1<<20))

	p, err := cas.Open(pool)
	require.NoError(t, err)
	back := testutil.MakeKindedRandomChunk(kind.Back, 64, 1)
	require.NoError(t, p.Add(back))
	require.NoError(t, p.Flush())

	out, err := runCommand(t, newBackupsCommand(), pool)
	require.NoError(t, err)
	assert.Contains(t, out, back.Oid().Hex())
}
