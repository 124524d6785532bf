// Copyright (c) 2025 halvorsen
// SPDX-License-Identifier: MIT

// Command imgtool is a thin CLI driver over the imgarc library. It has no
// business logic beyond argument parsing and mapping an imgarc.ErrorKind to
// an exit code — the engine (github.com/halvorsen/go-imgarc) does the work.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/halvorsen/go-imgarc"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "create":
		err = runCreate(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	case "import":
		err = runImport(os.Args[2:])
	case "extract":
		err = runExtract(os.Args[2:])
	case "remove":
		err = runRemove(os.Args[2:])
	case "rename":
		err = runRename(os.Args[2:])
	case "replace":
		err = runReplace(os.Args[2:])
	case "pack":
		err = runPack(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an imgarc.ErrorKind to a process exit status, so scripts can
// branch on failure class without parsing the message.
func exitCode(err error) int {
	var ierr *imgarc.Error
	if !errors.As(err, &ierr) {
		return 1
	}
	switch ierr.Kind {
	case imgarc.KindNotFound:
		return 3
	case imgarc.KindDuplicateName, imgarc.KindInvalidName:
		return 4
	case imgarc.KindFormat:
		return 5
	case imgarc.KindAccess:
		return 6
	default:
		return 1
	}
}

func printUsage() {
	fmt.Println(`imgtool - inspect and edit GTA IMG archives

Usage:
  imgtool create   <path> [--v1|--v2]    create an empty archive
  imgtool list     <path>                list entries
  imgtool import   <path> <src> <name>   add a file under name
  imgtool extract  <path> <name> <dst>   extract an entry to dst
  imgtool remove   <path> <name>         delete an entry
  imgtool rename   <path> <old> <new>    rename an entry
  imgtool replace  <path> <name> <src>   replace an entry's payload
  imgtool pack     <path>                compact the archive

Every mutating subcommand opens the archive read-write, performs one
library call, syncs, and closes.`)
}
