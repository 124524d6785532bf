// Copyright (c) 2025 halvorsen
// SPDX-License-Identifier: MIT

package imgarc

import (
	"os"
)

// Import validates entryName, reads sourcePath, places its bytes at the end
// of the payload region per the append-at-end policy, and inserts a new
// directory record. On any failure, no change is made: the directory is
// left exactly as it was and any bytes written to the payload file are
// simply an unreferenced hole (reclaimed by the next Pack).
func (a *Archive) Import(sourcePath, entryName string) error {
	if err := a.requireWritable("Import"); err != nil {
		return err
	}
	entryName = normalizeEntryName(entryName)
	if err := validateName(entryName); err != nil {
		return err
	}
	if a.dir.contains(entryName) {
		return newError(KindDuplicateName, "Import", entryName, errString("name already present"))
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		return newError(KindIO, "Import", entryName, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return newError(KindIO, "Import", entryName, err)
	}
	length := info.Size()
	if length == 0 {
		return newError(KindIO, "Import", entryName, errString("zero-length payload not supported"))
	}

	blocks, err := bytesToBlocks(length)
	if err != nil {
		return err
	}

	offset := a.nextPlacementOffset(1)
	if err := a.writePayload(offset, src, length); err != nil {
		return err
	}

	return a.dir.insert(Entry{Offset: offset, Size: blocks, Name: entryName})
}

// Extract looks up name, reads its full size×2048-byte payload (including
// trailing zero padding), and writes it verbatim to destPath.
func (a *Archive) Extract(name, destPath string) error {
	data, err := a.ReadEntryData(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return newError(KindIO, "Extract", name, err)
	}
	return nil
}

// Remove deletes name from the directory. The payload blocks are not zeroed
// and not reclaimed until Pack.
func (a *Archive) Remove(name string) error {
	if err := a.requireWritable("Remove"); err != nil {
		return err
	}
	return a.dir.remove(name)
}

// Rename validates newName as Import does, then updates the directory only;
// no payload bytes move.
func (a *Archive) Rename(oldName, newName string) error {
	if err := a.requireWritable("Rename"); err != nil {
		return err
	}
	return a.dir.rename(oldName, normalizeEntryName(newName))
}

// Replace is semantically RemoveEntry(name) followed by ImportFile(source,
// name), exposed as one call so presentation layers can treat it atomically.
// The old blocks become a hole reclaimed by the next Pack, except when no
// other entry ends past them: the new payload is then placed where the other
// entries end and may be written over the old blocks.
func (a *Archive) Replace(name, sourcePath string) error {
	if err := a.requireWritable("Replace"); err != nil {
		return err
	}
	if !a.dir.contains(name) {
		return newError(KindNotFound, "Replace", name, errString("no such entry"))
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		return newError(KindIO, "Replace", name, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return newError(KindIO, "Replace", name, err)
	}
	length := info.Size()
	if length == 0 {
		return newError(KindIO, "Replace", name, errString("zero-length payload not supported"))
	}

	blocks, err := bytesToBlocks(length)
	if err != nil {
		return err
	}

	// Compute placement as if the old entry were already gone, matching
	// Remove+Import: the new copy always lands past every *other* live
	// entry, since Remove drops the old record before Import places the
	// new one.
	offset := a.placementExcluding(name)
	if err := a.writePayload(offset, src, length); err != nil {
		return err
	}

	if err := a.dir.remove(name); err != nil {
		return err
	}
	return a.dir.insert(Entry{Offset: offset, Size: blocks, Name: name})
}

// placementExcluding computes the append-at-end offset as if name were
// already removed from the directory, for Replace's remove-then-import
// semantics.
func (a *Archive) placementExcluding(name string) uint32 {
	max := a.firstUsableDataBlock(0)
	excluded := foldName(name)
	for _, e := range a.dir.all() {
		if e.foldedName() == excluded {
			continue
		}
		if end := e.Offset + e.Size; end > max {
			max = end
		}
	}
	return max
}

func (a *Archive) requireWritable(op string) error {
	if a.mode != ReadWrite {
		return newError(KindAccess, op, a.path, errString("archive not opened for writing"))
	}
	return nil
}
