// Copyright (c) 2025 halvorsen
// SPDX-License-Identifier: MIT

package imgarc

// BlockSize is the archive's native allocation granularity, in bytes. Every
// payload occupies a whole number of blocks; the trailing partial block (if
// any) is zero-padded.
const BlockSize = 2048

// maxBlocks is the largest block count representable in the 32-bit on-disk
// offset/size fields (~8 TiB of addressable payload).
const maxBlocks = 1<<32 - 1

// blocksToBytes converts a block count to a byte count.
func blocksToBytes(blocks uint32) int64 {
	return int64(blocks) * BlockSize
}

// bytesToBlocks converts a byte count to the number of blocks needed to hold
// it, rounding up so any partial trailing block is claimed by the entry.
// It returns an error if the result would overflow a uint32.
func bytesToBlocks(n int64) (uint32, error) {
	if n < 0 {
		return 0, newError(KindInvariant, "bytesToBlocks", "", errNegativeSize)
	}
	blocks := (n + BlockSize - 1) / BlockSize
	if blocks > maxBlocks {
		return 0, newError(KindIO, "bytesToBlocks", "", errBlockOverflow)
	}
	return uint32(blocks), nil
}

var (
	errNegativeSize  = errString("negative byte count")
	errBlockOverflow = errString("size exceeds maximum addressable block count")
)

type errString string

func (e errString) Error() string { return string(e) }
