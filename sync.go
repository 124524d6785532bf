// Copyright (c) 2025 halvorsen
// SPDX-License-Identifier: MIT

package imgarc

import "encoding/binary"

// Sync persists the in-memory directory to disk and clears the dirty flag.
// It is the only operation that persists structural changes; a crash before
// Sync discards all mutations made since the last successful Sync. Sync on
// an unmodified archive is a no-op beyond clearing dirty.
func (a *Archive) Sync() error {
	if err := a.requireWritable("Sync"); err != nil {
		return err
	}
	if !a.dir.dirty {
		return nil
	}
	if a.version == VER2 {
		return a.syncVer2()
	}
	return a.syncVer1()
}

func (a *Archive) syncVer2() error {
	entries := a.dir.all()
	n := len(entries)
	required := ver2DirectoryBlocks(n)
	for _, e := range entries {
		if e.Offset < required {
			return newError(KindInvariant, "Sync", e.Name, errString(
				"entry offset falls within the directory region"))
		}
	}

	buf := make([]byte, ver2HeaderSize+n*recordSize)
	copy(buf[0:4], ver2Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], uint32(n))
	for i, e := range entries {
		rec := encodeRecord(e)
		copy(buf[ver2HeaderSize+i*recordSize:], rec[:])
	}

	if _, err := a.payload.WriteAt(buf, 0); err != nil {
		return newError(KindIO, "Sync", a.path, err)
	}
	if err := a.payload.Sync(); err != nil {
		return newError(KindIO, "Sync", a.path, err)
	}
	a.dir.dirty = false
	return nil
}

func (a *Archive) syncVer1() error {
	entries := a.dir.all()
	buf := make([]byte, len(entries)*recordSize)
	for i, e := range entries {
		rec := encodeRecord(e)
		copy(buf[i*recordSize:], rec[:])
	}

	if _, err := a.dirFile.WriteAt(buf, 0); err != nil {
		return newError(KindIO, "Sync", a.dirPath, err)
	}
	if err := a.dirFile.Truncate(int64(len(buf))); err != nil {
		return newError(KindIO, "Sync", a.dirPath, err)
	}
	if err := a.dirFile.Sync(); err != nil {
		return newError(KindIO, "Sync", a.dirPath, err)
	}
	if err := a.payload.Sync(); err != nil {
		return newError(KindIO, "Sync", a.path, err)
	}
	a.dir.dirty = false
	return nil
}

// CloseWithoutSync releases the archive's file handles and discards any
// dirty in-memory state without persisting it.
func (a *Archive) CloseWithoutSync() error {
	var firstErr error
	if a.locked {
		unlockPayloadFile(a.payload)
	}
	if a.dirFile != nil {
		if err := a.dirFile.Close(); err != nil && firstErr == nil {
			firstErr = newError(KindIO, "CloseWithoutSync", a.dirPath, err)
		}
	}
	if err := a.payload.Close(); err != nil && firstErr == nil {
		firstErr = newError(KindIO, "CloseWithoutSync", a.path, err)
	}
	return firstErr
}
