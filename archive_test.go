// Copyright (c) 2025 halvorsen
// SPDX-License-Identifier: MIT

package imgarc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateVer2ThenOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gta3.img")

	created, err := Create(path, VER2)
	require.NoError(t, err)
	require.NoError(t, created.Sync())
	require.NoError(t, created.CloseWithoutSync())

	opened, err := Open(path, ReadOnly)
	require.NoError(t, err)
	defer opened.CloseWithoutSync()

	assert.Equal(t, VER2, opened.Version())
	assert.Equal(t, 0, opened.EntryCount())
}

func TestCreateVer1ThenOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gta3.img")

	created, err := Create(path, VER1)
	require.NoError(t, err)
	require.NoError(t, created.Sync())
	require.NoError(t, created.CloseWithoutSync())

	_, err = os.Stat(filepath.Join(dir, "gta3.dir"))
	require.NoError(t, err)

	opened, err := Open(path, ReadOnly)
	require.NoError(t, err)
	defer opened.CloseWithoutSync()

	assert.Equal(t, VER1, opened.Version())
	assert.Equal(t, 0, opened.EntryCount())
}

func TestOpenReadOnlyRejectsMutation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gta3.img")

	created, err := Create(path, VER2)
	require.NoError(t, err)
	require.NoError(t, created.Sync())
	require.NoError(t, created.CloseWithoutSync())

	a, err := Open(path, ReadOnly)
	require.NoError(t, err)
	defer a.CloseWithoutSync()

	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("hi"), 0o644))

	err = a.Import(src, "hi.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAccess)
}

// TestImportPlacementMatchesAppendAtEndPolicy exercises the first scenario
// from the format's documented lifecycle: a fresh VER2 archive imports a
// 3000-byte file and the entry lands at block 1 (past the one-block
// directory region) with a size of 2 blocks.
func TestImportPlacementMatchesAppendAtEndPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gta3.img")

	a, err := Create(path, VER2)
	require.NoError(t, err)
	defer a.CloseWithoutSync()

	src := filepath.Join(dir, "player.dff")
	require.NoError(t, os.WriteFile(src, make([]byte, 3000), 0o644))

	require.NoError(t, a.Import(src, "player.dff"))

	e, ok := a.Lookup("player.dff")
	require.True(t, ok)
	assert.Equal(t, uint32(1), e.Offset)
	assert.Equal(t, uint32(2), e.Size)
}

func TestReadEntryDataIncludesZeroPadding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gta3.img")

	a, err := Create(path, VER2)
	require.NoError(t, err)
	defer a.CloseWithoutSync()

	content := []byte("hello world")
	src := filepath.Join(dir, "small.txt")
	require.NoError(t, os.WriteFile(src, content, 0o644))
	require.NoError(t, a.Import(src, "small.txt"))

	data, err := a.ReadEntryData("small.txt")
	require.NoError(t, err)
	assert.Equal(t, BlockSize, len(data))
	assert.Equal(t, content, data[:len(content)])
	for _, b := range data[len(content):] {
		assert.Equal(t, byte(0), b)
	}
}

func TestOpenEntryReaderBoundedReadAndSeek(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gta3.img")

	a, err := Create(path, VER2)
	require.NoError(t, err)
	defer a.CloseWithoutSync()

	content := []byte("0123456789")
	src := filepath.Join(dir, "digits.txt")
	require.NoError(t, os.WriteFile(src, content, 0o644))
	require.NoError(t, a.Import(src, "digits.txt"))

	r, err := a.OpenEntry("digits.txt")
	require.NoError(t, err)

	buf := make([]byte, 10)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, content, buf[:n])

	pos, err := r.Seek(0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)

	assert.Equal(t, int64(BlockSize), r.Size())
}

func TestContainsIsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gta3.img")

	a, err := Create(path, VER2)
	require.NoError(t, err)
	defer a.CloseWithoutSync()

	src := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	require.NoError(t, a.Import(src, "Data/File.txt"))

	assert.True(t, a.Contains("DATA/FILE.TXT"))
	assert.True(t, a.Contains("data/file.txt"))
}

func TestOpenUnrecognizableFileReturnsFormatError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "junk.img")
	require.NoError(t, os.WriteFile(path, []byte("definitely not an archive"), 0o644))

	_, err := Open(path, ReadOnly)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormat)
}
