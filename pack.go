// Copyright (c) 2025 halvorsen
// SPDX-License-Identifier: MIT

package imgarc

import "sort"

// packCopyBufferSize is the streaming copy buffer used to slide payloads
// down during Pack, rather than loading whole payloads into memory.
const packCopyBufferSize = 1 << 20 // 1 MiB

// Pack compacts the archive: payloads are slid down to remove the holes
// left by Remove/Replace, so that after Pack the entries in offset-sorted
// order are contiguous with no gaps and no overlaps. It returns the new
// archive size in blocks (including the header/directory region). Pack
// preserves the directory's user-visible insertion order; only offsets
// change.
func (a *Archive) Pack() (uint32, error) {
	if err := a.requireWritable("Pack"); err != nil {
		return 0, err
	}

	sorted := a.dir.all()
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	cursor := a.firstUsableDataBlock(0)
	buf := make([]byte, packCopyBufferSize)

	for _, e := range sorted {
		if e.Offset == cursor {
			cursor += e.Size
			continue
		}
		if err := a.slidePayload(e, cursor, buf); err != nil {
			return 0, err
		}
		a.dir.setOffset(e.Name, cursor)
		cursor += e.Size
	}

	newSize := blocksToBytes(cursor)
	if err := a.payload.Truncate(newSize); err != nil {
		return 0, newError(KindIO, "Pack", a.path, err)
	}
	a.dir.dirty = true

	return cursor, nil
}

// slidePayload copies e's payload from its current offset to destBlock
// using a fixed-size streaming buffer. destBlock is always <= e.Offset
// (every earlier record in offset order has already moved down or stayed
// put), so the forward, non-overlapping copy never reads data it already
// overwrote.
func (a *Archive) slidePayload(e Entry, destBlock uint32, buf []byte) error {
	src := e.OffsetBytes()
	dst := blocksToBytes(destBlock)
	remaining := e.SizeBytes()

	for remaining > 0 {
		n := int64(len(buf))
		if n > remaining {
			n = remaining
		}
		chunk := buf[:n]
		if _, err := a.payload.ReadAt(chunk, src); err != nil {
			return newError(KindIO, "Pack", e.Name, err)
		}
		if _, err := a.payload.WriteAt(chunk, dst); err != nil {
			return newError(KindIO, "Pack", e.Name, err)
		}
		src += n
		dst += n
		remaining -= n
	}
	return nil
}
