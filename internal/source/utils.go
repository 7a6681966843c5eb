package source

import (
	"fmt"
	"path/filepath"
	"slices"

	"fortio.org/safecast"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, 16)
	for i, b := range content {
		if b != '\n' {
			continue
		}
		off, err := safecast.Conv[uint32](i)
		if err != nil {
			panic(fmt.Errorf("line offset overflow: %w", err))
		}
		out = append(out, off)
	}
	return out
}

// toLineCol maps a byte offset to its position. A '\n' belongs to the line
// it terminates.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	before, _ := slices.BinarySearch(lineIdx, off)
	if before == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	line, err := safecast.Conv[uint32](before + 1)
	if err != nil {
		panic(fmt.Errorf("line number overflow: %w", err))
	}
	return LineCol{Line: line, Col: off - lineIdx[before-1]}
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
