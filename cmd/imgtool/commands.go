// Copyright (c) 2025 halvorsen
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/halvorsen/go-imgarc"
)

func runCreate(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: imgtool create <path> [--v1|--v2]")
	}
	path := args[0]
	version := imgarc.VER2
	for _, flag := range args[1:] {
		switch strings.ToLower(flag) {
		case "--v1":
			version = imgarc.VER1
		case "--v2":
			version = imgarc.VER2
		default:
			return fmt.Errorf("unknown flag: %s", flag)
		}
	}

	a, err := imgarc.Create(path, version)
	if err != nil {
		return err
	}
	defer a.CloseWithoutSync()
	return a.Sync()
}

func runList(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: imgtool list <path>")
	}
	a, err := imgarc.Open(args[0], imgarc.ReadOnly)
	if err != nil {
		return err
	}
	defer a.CloseWithoutSync()

	for _, e := range a.All() {
		fmt.Printf("%-23s  offset=%-10d size=%-10d bytes=%d\n", e.Name, e.Offset, e.Size, e.SizeBytes())
	}
	return nil
}

func runImport(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: imgtool import <path> <src> <name>")
	}
	return withWritableArchive(args[0], func(a *imgarc.Archive) error {
		return a.Import(args[1], args[2])
	})
}

func runExtract(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: imgtool extract <path> <name> <dst>")
	}
	a, err := imgarc.Open(args[0], imgarc.ReadOnly)
	if err != nil {
		return err
	}
	defer a.CloseWithoutSync()
	return a.Extract(args[1], args[2])
}

func runRemove(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: imgtool remove <path> <name>")
	}
	return withWritableArchive(args[0], func(a *imgarc.Archive) error {
		return a.Remove(args[1])
	})
}

func runRename(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: imgtool rename <path> <old> <new>")
	}
	return withWritableArchive(args[0], func(a *imgarc.Archive) error {
		return a.Rename(args[1], args[2])
	})
}

func runReplace(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: imgtool replace <path> <name> <src>")
	}
	return withWritableArchive(args[0], func(a *imgarc.Archive) error {
		return a.Replace(args[1], args[2])
	})
}

func runPack(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: imgtool pack <path>")
	}
	return withWritableArchive(args[0], func(a *imgarc.Archive) error {
		newSize, err := a.Pack()
		if err != nil {
			return err
		}
		fmt.Printf("packed to %d blocks\n", newSize)
		return nil
	})
}

// withWritableArchive opens path for writing, runs fn, and syncs on success
// before closing — the same open/mutate/sync/close shape every mutating
// subcommand follows.
func withWritableArchive(path string, fn func(*imgarc.Archive) error) error {
	a, err := imgarc.Open(path, imgarc.ReadWrite)
	if err != nil {
		return err
	}
	defer a.CloseWithoutSync()

	if err := fn(a); err != nil {
		return err
	}
	return a.Sync()
}
