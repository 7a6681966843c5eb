package source

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"fortio.org/safecast"
)

// FileSet holds the source text that came with the trees being lowered.
// Lowering only needs it for comment skipping and diagnostics, so a FileSet
// may legitimately be empty when trees arrive without their sources.
//
// Text is stored exactly as the parser saw it: spans are byte offsets into
// it, so BOMs and CRLF line ends are recorded in Flags but never rewritten.
type FileSet struct {
	files []File
	index map[string]FileID // path -> latest id
}

func NewFileSet() *FileSet {
	return &FileSet{index: make(map[string]FileID)}
}

// Add stores text under path and returns its id. Adding the same text under
// the same path again returns the existing id, so snapshots that share a
// source share its FileID. Different text under a known path gets a new id
// and becomes the latest version of that path.
func (fileSet *FileSet) Add(path string, text []byte) FileID {
	hash := sha256.Sum256(text)
	path = normalizePath(path)
	if id, ok := fileSet.index[path]; ok && fileSet.files[id].Hash == hash {
		return id
	}

	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("too many source files: %w", err))
	}
	id := FileID(n)
	var flags FileFlags
	if bytes.HasPrefix(text, bom) {
		flags |= FileHasBOM
	}
	if bytes.Contains(text, []byte("\r\n")) {
		flags |= FileHasCRLF
	}
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    path,
		Content: text,
		LineIdx: buildLineIndex(text),
		Hash:    hash,
		Flags:   flags,
	})
	fileSet.index[path] = id
	return id
}

// Get returns the file for id, or nil when unknown.
func (fileSet *FileSet) Get(id FileID) *File {
	if fileSet == nil || int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// Lookup returns the latest id stored under path.
func (fileSet *FileSet) Lookup(path string) (FileID, bool) {
	if fileSet == nil {
		return 0, false
	}
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

func (fileSet *FileSet) Len() int {
	if fileSet == nil {
		return 0
	}
	return len(fileSet.files)
}

// Resolve converts a span into 1-based line and byte column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// GetLine returns the 1-based line lineNum for display: without its line
// terminator, and without the BOM on line 1.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 || int64(lineNum) > int64(len(f.LineIdx))+1 {
		return ""
	}
	start := 0
	if lineNum > 1 {
		start = int(f.LineIdx[lineNum-2]) + 1
	}
	end := len(f.Content)
	if int(lineNum) <= len(f.LineIdx) {
		end = int(f.LineIdx[lineNum-1])
	}
	if start > end {
		return ""
	}
	line := f.Content[start:end]
	if lineNum == 1 && f.Flags&FileHasBOM != 0 {
		line = bytes.TrimPrefix(line, bom)
	}
	if f.Flags&FileHasCRLF != 0 {
		line = bytes.TrimSuffix(line, []byte{'\r'})
	}
	return string(line)
}
