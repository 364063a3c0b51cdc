package source

type (
	// FileID identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

// NoFile marks spans of session-level issues that belong to no file.
const NoFile FileID = 1<<32 - 1

const (
	// FileVirtual marks a file that did not come from disk (stdin, tests, envelopes without a path).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File holds the text of one Objective-J source file.
// Content is the text the parser saw; every node offset points into it.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a human-readable position.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// LineCol converts a byte offset into a 1-based line/column pair.
func (f *File) LineCol(off uint32) LineCol {
	if f == nil {
		return LineCol{Line: 1, Col: off + 1}
	}
	return toLineCol(f.LineIdx, off)
}
