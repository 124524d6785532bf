// Copyright (c) 2025 halvorsen
// SPDX-License-Identifier: MIT

package imgarc

import (
	"encoding/binary"
)

// nameFieldWidth is the fixed width of the name field: 23 ASCII characters
// plus a mandatory trailing NUL.
const nameFieldWidth = 24

// recordSize is the true on-disk size of one entry record (40 bytes).
const recordSize = 4 + 4 + nameFieldWidth

// maxNameLen is the longest name the 24-byte field can hold (23 chars, since
// byte 24 is a mandatory terminating NUL).
const maxNameLen = nameFieldWidth - 1

// Entry is a directory record: a name and the block range of its payload.
// Entries are value types; callers receive copies, never pointers into the
// directory's internal storage.
type Entry struct {
	// Offset is the payload's start, in blocks, from the start of the
	// payload file (the "*.img" file for both VER1 and VER2).
	Offset uint32
	// Size is the payload's length, in blocks (trailing padding included).
	Size uint32
	// Name is the entry's logical name, decoded up to the first NUL.
	Name string
}

// OffsetBytes returns the payload's start offset in bytes.
func (e Entry) OffsetBytes() int64 { return blocksToBytes(e.Offset) }

// SizeBytes returns the payload's length in bytes, including any trailing
// zero padding within the last block.
func (e Entry) SizeBytes() int64 { return blocksToBytes(e.Size) }

// foldedName returns the ASCII case-folded form used for uniqueness and
// lookup comparisons.
func (e Entry) foldedName() string {
	b := []byte(e.Name)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

// isASCII reports whether s contains only bytes in the 7-bit ASCII range.
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}

// validateName checks a name against the entry-name invariants: nonempty,
// at most 23 characters, ASCII.
func validateName(name string) error {
	if name == "" {
		return newError(KindInvalidName, "validateName", name, errString("name is empty"))
	}
	if len(name) > maxNameLen {
		return newError(KindInvalidName, "validateName", name, errString("name exceeds 23 characters"))
	}
	if !isASCII(name) {
		return newError(KindInvalidName, "validateName", name, errString("name contains non-ASCII bytes"))
	}
	return nil
}

// decodeRecord parses a 40-byte on-disk record. The name is decoded by
// truncating at the first NUL; if no NUL is present within the 24-byte
// field, all 24 bytes are taken (and nameFieldWidth-1 used as a bound, since
// byte 24 cannot hold a visible character if there's no NUL — in practice
// malformed external files may still produce a 24-char name here).
func decodeRecord(b []byte) Entry {
	off := binary.LittleEndian.Uint32(b[0:4])
	size := binary.LittleEndian.Uint32(b[4:8])
	nameBytes := b[8:recordSize]
	n := len(nameBytes)
	for i, c := range nameBytes {
		if c == 0 {
			n = i
			break
		}
	}
	return Entry{Offset: off, Size: size, Name: string(nameBytes[:n])}
}

// encodeRecord serializes e into a 40-byte on-disk record. The caller must
// have already validated e.Name (validateName); encodeRecord clears all 24
// name bytes then copies up to 23 ASCII bytes, matching the spec's
// "SetName clears all 24 bytes then copies" semantics.
func encodeRecord(e Entry) [recordSize]byte {
	var b [recordSize]byte
	binary.LittleEndian.PutUint32(b[0:4], e.Offset)
	binary.LittleEndian.PutUint32(b[4:8], e.Size)
	copy(b[8:recordSize], e.Name)
	return b
}
