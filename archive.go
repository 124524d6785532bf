// Copyright (c) 2025 halvorsen
// SPDX-License-Identifier: MIT

package imgarc

import (
	"io"
	"os"
)

// Mode selects whether an archive is opened for read-only or read-write
// access.
type Mode int

const (
	// ReadOnly opens an archive for lookup/extract only; mutations fail.
	ReadOnly Mode = iota
	// ReadWrite opens an archive for both lookup and mutation.
	ReadWrite
)

// Archive is an open IMG archive: its file handle(s), directory, and format.
//
// An *Archive is not safe for concurrent use from multiple goroutines. The
// engine is single-threaded and blocking: every method performs synchronous
// I/O and returns only once the operation has completed or failed. If a
// caller wants background I/O, it must serialize calls itself, e.g. by
// routing all operations on one Archive through a single worker goroutine.
type Archive struct {
	path    string
	dirPath string // VER1 only

	payload *os.File
	dirFile *os.File // VER1 only, nil for VER2

	version Version
	mode    Mode
	dir     *directory
	locked  bool
}

// Version returns the archive's on-disk format.
func (a *Archive) Version() Version { return a.version }

// EntryCount returns the number of entries currently in the directory.
func (a *Archive) EntryCount() int { return a.dir.count() }

// SizeInBlocks returns the payload file's current size in blocks.
func (a *Archive) SizeInBlocks() (uint32, error) {
	info, err := a.payload.Stat()
	if err != nil {
		return 0, newError(KindIO, "SizeInBlocks", a.path, err)
	}
	return bytesToBlocks(info.Size())
}

// All returns every entry in insertion order.
func (a *Archive) All() []Entry { return a.dir.all() }

// Contains reports whether name is present, case-insensitively.
func (a *Archive) Contains(name string) bool { return a.dir.contains(name) }

// Lookup returns the entry for name and whether it exists.
func (a *Archive) Lookup(name string) (Entry, bool) { return a.dir.lookup(name) }

// firstUsableDataBlock returns the first block a new or grown payload may
// occupy without clobbering the embedded directory (VER2) or, for VER1,
// simply 0 since the directory lives in a sibling file. additionalEntries
// accounts for directory growth not yet committed (e.g. the entry about to
// be inserted by Import), per spec's placement policy.
func (a *Archive) firstUsableDataBlock(additionalEntries int) uint32 {
	if a.version == VER1 {
		return 0
	}
	return ver2DirectoryBlocks(a.dir.count() + additionalEntries)
}

// nextPlacementOffset returns the block offset at which a new or replacement
// payload should be written, per the append-at-end policy: the first block
// past every live entry's range, or the first usable data block if the
// directory is empty.
func (a *Archive) nextPlacementOffset(additionalEntries int) uint32 {
	max := a.firstUsableDataBlock(additionalEntries)
	for _, e := range a.dir.all() {
		end := e.Offset + e.Size
		if end > max {
			max = end
		}
	}
	return max
}

// Create produces an empty archive of the requested version at path, opened
// in ReadWrite mode. For VER2 this writes an 8-byte header (count = 0). For
// VER1 this creates an empty sibling ".dir" and an empty payload file.
func Create(path string, version Version) (*Archive, error) {
	switch version {
	case VER2:
		return createVer2(path)
	case VER1:
		return createVer1(path)
	default:
		return nil, newError(KindInvariant, "Create", path, errString("unknown version"))
	}
}

func createVer2(path string) (*Archive, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, newError(KindIO, "Create", path, err)
	}
	if err := lockPayloadFile(f); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeVer2Header(f, 0); err != nil {
		f.Close()
		return nil, newError(KindIO, "Create", path, err)
	}
	return &Archive{
		path:    path,
		payload: f,
		version: VER2,
		mode:    ReadWrite,
		dir:     newDirectory(0),
		locked:  true,
	}, nil
}

func createVer1(path string) (*Archive, error) {
	dirPath := siblingDirPath(path)
	dirFile, err := os.OpenFile(dirPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, newError(KindIO, "Create", dirPath, err)
	}
	payload, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		dirFile.Close()
		return nil, newError(KindIO, "Create", path, err)
	}
	if err := lockPayloadFile(payload); err != nil {
		dirFile.Close()
		payload.Close()
		return nil, err
	}
	return &Archive{
		path:    path,
		dirPath: dirPath,
		payload: payload,
		dirFile: dirFile,
		version: VER1,
		mode:    ReadWrite,
		dir:     newDirectory(0),
		locked:  true,
	}, nil
}

// Open opens an existing archive at path, auto-detecting VER1 vs VER2.
func Open(path string, mode Mode) (*Archive, error) {
	version, err := GuessVersion(path)
	if err != nil {
		return nil, err
	}
	switch version {
	case VER2:
		return openVer2(path, mode)
	default:
		return openVer1(path, mode)
	}
}

func openFlags(mode Mode) int {
	if mode == ReadWrite {
		return os.O_RDWR
	}
	return os.O_RDONLY
}

func openVer2(path string, mode Mode) (*Archive, error) {
	f, err := os.OpenFile(path, openFlags(mode), 0)
	if err != nil {
		return nil, newError(KindIO, "Open", path, err)
	}

	locked := false
	if mode == ReadWrite {
		if err := lockPayloadFile(f); err != nil {
			f.Close()
			return nil, err
		}
		locked = true
	}

	header, err := readVer2Header(f)
	if err != nil {
		f.Close()
		return nil, newError(KindFormat, "Open", path, err)
	}
	if header.Magic != ver2Magic {
		f.Close()
		return nil, newError(KindFormat, "Open", path, errString("bad VER2 magic"))
	}

	buf := make([]byte, int(header.Count)*recordSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		f.Close()
		return nil, newError(KindFormat, "Open", path, err)
	}

	dir := newDirectory(int(header.Count))
	for i := 0; i < int(header.Count); i++ {
		rec := decodeRecord(buf[i*recordSize : (i+1)*recordSize])
		if err := dir.insert(rec); err != nil {
			f.Close()
			return nil, newError(KindFormat, "Open", path, err)
		}
	}
	dir.dirty = false

	return &Archive{
		path:    path,
		payload: f,
		version: VER2,
		mode:    mode,
		dir:     dir,
		locked:  locked,
	}, nil
}

func openVer1(path string, mode Mode) (*Archive, error) {
	dirPath := siblingDirPath(path)
	dirFile, err := os.OpenFile(dirPath, openFlags(mode), 0)
	if err != nil {
		return nil, newError(KindIO, "Open", dirPath, err)
	}

	info, err := dirFile.Stat()
	if err != nil {
		dirFile.Close()
		return nil, newError(KindIO, "Open", dirPath, err)
	}
	if info.Size()%recordSize != 0 {
		dirFile.Close()
		return nil, newError(KindFormat, "Open", dirPath, errString("directory length not a multiple of 40"))
	}
	count := int(info.Size() / recordSize)

	buf := make([]byte, info.Size())
	if _, err := io.ReadFull(dirFile, buf); err != nil {
		dirFile.Close()
		return nil, newError(KindFormat, "Open", dirPath, err)
	}

	dir := newDirectory(count)
	for i := 0; i < count; i++ {
		rec := decodeRecord(buf[i*recordSize : (i+1)*recordSize])
		if err := dir.insert(rec); err != nil {
			dirFile.Close()
			return nil, newError(KindFormat, "Open", dirPath, err)
		}
	}
	dir.dirty = false

	payload, err := os.OpenFile(path, openFlags(mode), 0)
	if err != nil {
		dirFile.Close()
		return nil, newError(KindIO, "Open", path, err)
	}

	locked := false
	if mode == ReadWrite {
		if err := lockPayloadFile(payload); err != nil {
			dirFile.Close()
			payload.Close()
			return nil, err
		}
		locked = true
	}

	return &Archive{
		path:    path,
		dirPath: dirPath,
		payload: payload,
		dirFile: dirFile,
		version: VER1,
		mode:    mode,
		dir:     dir,
		locked:  locked,
	}, nil
}

// ReadEntryData returns the full size×2048-byte payload for name, including
// any trailing zero padding.
func (a *Archive) ReadEntryData(name string) ([]byte, error) {
	e, ok := a.dir.lookup(name)
	if !ok {
		return nil, newError(KindNotFound, "ReadEntryData", name, errString("no such entry"))
	}
	buf := make([]byte, e.SizeBytes())
	if _, err := a.payload.ReadAt(buf, e.OffsetBytes()); err != nil {
		return nil, newError(KindIO, "ReadEntryData", name, err)
	}
	return buf, nil
}

// OpenEntry returns a bounded, read-only view over name's payload range,
// supporting sequential and random reads within the range. Reads past the
// bound return io.EOF.
func (a *Archive) OpenEntry(name string) (*EntryReader, error) {
	e, ok := a.dir.lookup(name)
	if !ok {
		return nil, newError(KindNotFound, "OpenEntry", name, errString("no such entry"))
	}
	return &EntryReader{file: a.payload, base: e.OffsetBytes(), size: e.SizeBytes()}, nil
}

// writePayload writes the full contents of src (padded to a whole number of
// blocks with zero bytes) to the payload file at the given block offset.
func (a *Archive) writePayload(offset uint32, src io.Reader, length int64) error {
	blocks, err := bytesToBlocks(length)
	if err != nil {
		return err
	}
	w := io.NewOffsetWriter(a.payload, blocksToBytes(offset))
	if _, err := io.CopyN(w, src, length); err != nil {
		return newError(KindIO, "writePayload", a.path, err)
	}
	padding := blocksToBytes(blocks) - length
	if padding > 0 {
		zeros := make([]byte, padding)
		if _, err := w.Write(zeros); err != nil {
			return newError(KindIO, "writePayload", a.path, err)
		}
	}
	return nil
}
