// Copyright (c) 2025 halvorsen
// SPDX-License-Identifier: MIT

//go:build !unix

package imgarc

import "os"

// lockPayloadFile is a no-op on non-Unix platforms; advisory locking here is
// a best-effort guard rail, not a correctness requirement (see §5 of the
// design notes).
func lockPayloadFile(f *os.File) error { return nil }

func unlockPayloadFile(f *os.File) error { return nil }
