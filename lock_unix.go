// Copyright (c) 2025 halvorsen
// SPDX-License-Identifier: MIT

//go:build unix

package imgarc

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockPayloadFile takes a non-blocking advisory exclusive lock on f, so a
// second writer opening the same archive fails fast instead of racing the
// first writer's in-place mutations. Best-effort only: see the package
// concurrency notes.
func lockPayloadFile(f *os.File) error {
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		return newError(KindAccess, "lock", f.Name(), err)
	}
	return nil
}

// unlockPayloadFile releases a lock taken by lockPayloadFile. Errors are not
// actionable at close time, so callers ignore the return value.
func unlockPayloadFile(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
