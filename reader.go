// Copyright (c) 2025 halvorsen
// SPDX-License-Identifier: MIT

package imgarc

import (
	"io"
	"os"
)

// EntryReader is a read-only, bounded view over an entry's payload range in
// the archive's payload file. It supports both sequential reads (Read) and
// random access (Seek), and never exposes bytes outside its bound.
type EntryReader struct {
	file *os.File
	base int64 // absolute offset of the entry's first byte in the payload file
	size int64 // length of the entry's payload range, in bytes
	pos  int64 // current read position, relative to base
}

// Read implements io.Reader, returning io.EOF once pos reaches the entry's
// size rather than reading past the bound into the next entry's payload.
func (r *EntryReader) Read(p []byte) (int, error) {
	if r.pos >= r.size {
		return 0, io.EOF
	}
	remaining := r.size - r.pos
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := r.file.ReadAt(p, r.base+r.pos)
	r.pos += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

// Seek implements io.Seeker relative to the start of the entry's range.
func (r *EntryReader) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = r.pos + offset
	case io.SeekEnd:
		newPos = r.size + offset
	default:
		return 0, newError(KindInvariant, "Seek", "", errString("invalid whence"))
	}
	if newPos < 0 {
		return 0, newError(KindInvariant, "Seek", "", errString("negative position"))
	}
	r.pos = newPos
	return r.pos, nil
}

// Size returns the entry's payload length in bytes.
func (r *EntryReader) Size() int64 { return r.size }
