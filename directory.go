// Copyright (c) 2025 halvorsen
// SPDX-License-Identifier: MIT

package imgarc

// directory is the in-memory ordered set of entry records plus a
// case-insensitive name index. It is purely in-memory; persistence is the
// archive's responsibility (see sync.go).
type directory struct {
	entries []Entry
	index   map[string]int // folded name -> index into entries
	dirty   bool
}

func newDirectory(capacity int) *directory {
	return &directory{
		entries: make([]Entry, 0, capacity),
		index:   make(map[string]int, capacity),
	}
}

// insert appends a new record, rejecting a collision on the folded name.
func (d *directory) insert(e Entry) error {
	folded := e.foldedName()
	if _, exists := d.index[folded]; exists {
		return newError(KindDuplicateName, "insert", e.Name, errString("name already present"))
	}
	d.index[folded] = len(d.entries)
	d.entries = append(d.entries, e)
	d.dirty = true
	return nil
}

// remove deletes the record with the given name (case-insensitive).
// Subsequent index positions shift down by one.
func (d *directory) remove(name string) error {
	folded := foldName(name)
	idx, ok := d.index[folded]
	if !ok {
		return newError(KindNotFound, "remove", name, errString("no such entry"))
	}
	d.entries = append(d.entries[:idx], d.entries[idx+1:]...)
	delete(d.index, folded)
	for n, i := range d.index {
		if i > idx {
			d.index[n] = i - 1
		}
	}
	d.dirty = true
	return nil
}

// rename validates new as unused and well-formed, then updates the record
// and index atomically: no intermediate state is visible to lookups between
// the old name disappearing and the new name appearing.
func (d *directory) rename(oldName, newName string) error {
	if err := validateName(newName); err != nil {
		return err
	}
	oldFolded := foldName(oldName)
	idx, ok := d.index[oldFolded]
	if !ok {
		return newError(KindNotFound, "rename", oldName, errString("no such entry"))
	}
	newFolded := foldName(newName)
	if newFolded != oldFolded {
		if _, exists := d.index[newFolded]; exists {
			return newError(KindDuplicateName, "rename", newName, errString("name already present"))
		}
	}
	d.entries[idx].Name = newName
	delete(d.index, oldFolded)
	d.index[newFolded] = idx
	d.dirty = true
	return nil
}

// lookup returns the record for name and whether it was found.
func (d *directory) lookup(name string) (Entry, bool) {
	idx, ok := d.index[foldName(name)]
	if !ok {
		return Entry{}, false
	}
	return d.entries[idx], true
}

// contains reports whether name is present (case-insensitive).
func (d *directory) contains(name string) bool {
	_, ok := d.index[foldName(name)]
	return ok
}

// setOffset updates the payload offset of the entry named name in place,
// used by pack() after moving payload bytes.
func (d *directory) setOffset(name string, offset uint32) {
	idx := d.index[foldName(name)]
	d.entries[idx].Offset = offset
}

// all returns the records in insertion order. The returned slice is a copy;
// mutating it does not affect the directory.
func (d *directory) all() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

func (d *directory) count() int { return len(d.entries) }

func foldName(name string) string { return Entry{Name: name}.foldedName() }
