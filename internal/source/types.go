package source

type (
	// FileID identifies a source file within a FileSet. Ids start at 0.
	FileID uint32
	// FileFlags records properties of the stored text.
	FileFlags uint8
)

const (
	// FileHasBOM marks text starting with a UTF-8 byte order mark.
	FileHasBOM FileFlags = 1 << iota
	// FileHasCRLF marks text containing at least one \r\n line end.
	FileHasCRLF
)

// File is one stored source text.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a human-readable position.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}
