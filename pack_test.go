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

// blocksOf returns a byte slice whose length is an exact multiple of
// BlockSize, so Import's block count is unambiguous for these tests.
func blocksOf(n int) []byte {
	return make([]byte, n*BlockSize)
}

func TestPackReclaimsHoleLeftByRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gta3.img")
	a, err := Create(path, VER1)
	require.NoError(t, err)
	defer a.CloseWithoutSync()

	srcA := writeTempFile(t, dir, "a.bin", blocksOf(10))
	srcB := writeTempFile(t, dir, "b.bin", blocksOf(5))
	srcC := writeTempFile(t, dir, "c.bin", blocksOf(7))

	require.NoError(t, a.Import(srcA, "a.bin"))
	require.NoError(t, a.Import(srcB, "b.bin"))
	require.NoError(t, a.Import(srcC, "c.bin"))

	eA, _ := a.Lookup("a.bin")
	eB, _ := a.Lookup("b.bin")
	eC, _ := a.Lookup("c.bin")
	require.Equal(t, uint32(0), eA.Offset)
	require.Equal(t, uint32(10), eB.Offset)
	require.Equal(t, uint32(15), eC.Offset)

	require.NoError(t, a.Remove("b.bin"))

	newSize, err := a.Pack()
	require.NoError(t, err)
	assert.Equal(t, uint32(17), newSize) // 10 (A) + 7 (C), contiguous

	eA, _ = a.Lookup("a.bin")
	eC, _ = a.Lookup("c.bin")
	assert.Equal(t, uint32(0), eA.Offset)
	assert.Equal(t, uint32(10), eC.Offset)
}

func TestPackPreservesPayloadBytesAfterSlide(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gta3.img")
	a, err := Create(path, VER1)
	require.NoError(t, err)
	defer a.CloseWithoutSync()

	aContent := blocksOf(3)
	aContent[0] = 0xAA
	bContent := blocksOf(2)
	cContent := blocksOf(2)
	cContent[0] = 0xCC

	srcA := writeTempFile(t, dir, "a.bin", aContent)
	srcB := writeTempFile(t, dir, "b.bin", bContent)
	srcC := writeTempFile(t, dir, "c.bin", cContent)

	require.NoError(t, a.Import(srcA, "a.bin"))
	require.NoError(t, a.Import(srcB, "b.bin"))
	require.NoError(t, a.Import(srcC, "c.bin"))
	require.NoError(t, a.Remove("b.bin"))

	_, err = a.Pack()
	require.NoError(t, err)

	gotA, err := a.ReadEntryData("a.bin")
	require.NoError(t, err)
	assert.Equal(t, byte(0xAA), gotA[0])

	gotC, err := a.ReadEntryData("c.bin")
	require.NoError(t, err)
	assert.Equal(t, byte(0xCC), gotC[0])
}

func TestPackIsIdempotentWhenAlreadyContiguous(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gta3.img")
	a, err := Create(path, VER1)
	require.NoError(t, err)
	defer a.CloseWithoutSync()

	src := writeTempFile(t, dir, "a.bin", blocksOf(4))
	require.NoError(t, a.Import(src, "a.bin"))

	first, err := a.Pack()
	require.NoError(t, err)
	second, err := a.Pack()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPackTruncatesPayloadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gta3.img")
	a, err := Create(path, VER1)
	require.NoError(t, err)
	defer a.CloseWithoutSync()

	srcA := writeTempFile(t, dir, "a.bin", blocksOf(10))
	srcB := writeTempFile(t, dir, "b.bin", blocksOf(5))
	require.NoError(t, a.Import(srcA, "a.bin"))
	require.NoError(t, a.Import(srcB, "b.bin"))
	require.NoError(t, a.Remove("b.bin"))

	newSize, err := a.Pack()
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, blocksToBytes(newSize), info.Size())
}
