// Copyright (c) 2025 halvorsen
// SPDX-License-Identifier: MIT

package imgarc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesToBlocksRoundsUp(t *testing.T) {
	cases := []struct {
		bytes int64
		want  uint32
	}{
		{0, 0},
		{1, 1},
		{BlockSize - 1, 1},
		{BlockSize, 1},
		{BlockSize + 1, 2},
		{3000, 2},
	}
	for _, c := range cases {
		got, err := bytesToBlocks(c.bytes)
		require.NoError(t, err)
		assert.Equalf(t, c.want, got, "bytesToBlocks(%d)", c.bytes)
	}
}

func TestBytesToBlocksRejectsNegative(t *testing.T) {
	_, err := bytesToBlocks(-1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestBlocksToBytes(t *testing.T) {
	assert.Equal(t, int64(0), blocksToBytes(0))
	assert.Equal(t, int64(BlockSize), blocksToBytes(1))
	assert.Equal(t, int64(BlockSize*5), blocksToBytes(5))
}
