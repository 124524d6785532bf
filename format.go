// Copyright (c) 2025 halvorsen
// SPDX-License-Identifier: MIT

package imgarc

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
)

// Version identifies which on-disk IMG layout an archive uses.
type Version int

const (
	// VER1 is the paired-file format: a "*.dir" directory file alongside
	// a "*.img" payload file, no header.
	VER1 Version = iota
	// VER2 is the single-file format: a "*.img" file whose directory is
	// embedded after a 4-byte "VER2" magic and a 4-byte entry count.
	VER2
)

func (v Version) String() string {
	if v == VER2 {
		return "VER2"
	}
	return "VER1"
}

// ver2Magic is the four ASCII bytes identifying a VER2 archive.
var ver2Magic = [4]byte{'V', 'E', 'R', '2'}

// ver2HeaderSize is the size, in bytes, of the VER2 header (magic + count).
const ver2HeaderSize = 8

// dirFileExt and imgFileExt are the conventional VER1 sibling extensions.
const (
	dirFileExt = ".dir"
	imgFileExt = ".img"
)

// siblingDirPath returns the expected ".dir" path for a VER1 payload path.
func siblingDirPath(imgPath string) string {
	if ext := pathExt(imgPath); ext != "" {
		return imgPath[:len(imgPath)-len(ext)] + dirFileExt
	}
	return imgPath + dirFileExt
}

func pathExt(p string) string {
	for i := len(p) - 1; i >= 0 && p[i] != '/' && p[i] != '\\'; i-- {
		if p[i] == '.' {
			return p[i:]
		}
	}
	return ""
}

// GuessVersion probes path and reports which IMG format it uses, without
// leaving any file handle open. It is a pure function: open, probe, close.
func GuessVersion(path string) (Version, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, newError(KindIO, "GuessVersion", path, err)
	}
	defer f.Close()

	var magic [4]byte
	n, err := io.ReadFull(f, magic[:])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return 0, newError(KindIO, "GuessVersion", path, err)
	}
	if n == 4 && magic == ver2Magic {
		return VER2, nil
	}

	dirPath := siblingDirPath(path)
	info, err := os.Stat(dirPath)
	if err == nil && info.Size()%recordSize == 0 {
		return VER1, nil
	}

	return 0, newError(KindFormat, "GuessVersion", path, errString(
		fmt.Sprintf("no VER2 magic and no valid sibling %s", dirPath)))
}

// ver2Header is the 8-byte VER2 header: magic + entry count.
type ver2Header struct {
	Magic [4]byte
	Count uint32
}

func readVer2Header(r io.Reader) (ver2Header, error) {
	var h ver2Header
	if err := binary.Read(r, binary.LittleEndian, &h.Magic); err != nil {
		return h, err
	}
	if err := binary.Read(r, binary.LittleEndian, &h.Count); err != nil {
		return h, err
	}
	return h, nil
}

func writeVer2Header(w io.Writer, count uint32) error {
	if err := binary.Write(w, binary.LittleEndian, ver2Magic); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, count)
}

// ver2DirectoryBlocks returns the number of blocks needed to hold a VER2
// header plus n directory records, i.e. ceil((8 + 40*n) / 2048).
func ver2DirectoryBlocks(n int) uint32 {
	bytes := int64(ver2HeaderSize) + int64(n)*recordSize
	blocks, err := bytesToBlocks(bytes)
	if err != nil {
		// n is bounded by realistic archive sizes; this would require
		// billions of entries.
		return maxBlocks
	}
	return blocks
}

// normalizeEntryName converts path separators to the archive's convention
// (forward slash) so names round-trip the same regardless of how a caller
// spelled a path component.
func normalizeEntryName(name string) string {
	return strings.ReplaceAll(name, "\\", "/")
}
