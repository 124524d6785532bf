// Copyright (c) 2025 halvorsen
// SPDX-License-Identifier: MIT

/*
Package imgarc provides pure Go support for reading and writing IMG archives,
the block-addressed asset containers used by the classic Grand Theft Auto
titles (III, Vice City, San Andreas).

An IMG archive stores a flat namespace of named binary payloads (models,
textures, collisions, animations, scripts) in fixed 2048-byte blocks. Two
on-disk formats exist:

  - VER1: a directory file ("*.dir") paired with a payload file ("*.img").
  - VER2: a single "*.img" file with the directory embedded after a "VER2"
    magic header.

# Basic Usage

Creating an archive:

	a, err := imgarc.Create("new.img", imgarc.VER2)
	if err != nil {
		log.Fatal(err)
	}
	defer a.CloseWithoutSync()

	if err := a.Import("local/player.dff", "player.dff"); err != nil {
		log.Fatal(err)
	}
	if err := a.Sync(); err != nil {
		log.Fatal(err)
	}

Reading an archive:

	a, err := imgarc.Open("gta3.img", imgarc.ReadOnly)
	if err != nil {
		log.Fatal(err)
	}
	defer a.CloseWithoutSync()

	if a.Contains("player.dff") {
		if err := a.Extract("player.dff", "out/player.dff"); err != nil {
			log.Fatal(err)
		}
	}

# Format Versions

Use [GuessVersion] to probe an existing archive's format without holding it
open, or pass [VER1]/[VER2] explicitly to [Create].

# Concurrency

An *Archive is not safe for concurrent use from multiple goroutines; the
engine is single-threaded and blocking by design (see the package-level
concurrency notes on [Archive]). On Unix, opening an archive for writing takes
a best-effort advisory lock on the payload file so a second writer fails fast
instead of corrupting the archive.

# Limitations

This package focuses on the directory/allocator engine, not asset formats:

  - No compression, encryption, or deduplication of payload bytes.
  - No transactional guarantees across a crash mid-write; only [Archive.Sync]
    persists structural changes, and a crash before Sync discards mutations
    made since the last successful Sync.
  - No multi-writer coordination beyond the best-effort Unix lock above.
*/
package imgarc
