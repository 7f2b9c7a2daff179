package gob

// Signature identifies valid GOB archives ("GOB ").
var Signature = [4]byte{'G', 'O', 'B', ' '}

// Layout constants for GOB version 0x14 archives.
const (
	// Version is the only supported format revision.
	Version uint32 = 0x14

	// HeaderSize is the size of signature + version + body offset.
	// The Builder always writes this as the body offset.
	HeaderSize = 12

	// FileCountSize is the size of the u32 file count at the start of the body.
	FileCountSize = 4

	// PathFieldSize is the fixed size of the null-terminated path field.
	PathFieldSize = 128

	// MaxPathLen is the longest encodable path; one byte is kept for the terminator.
	MaxPathLen = PathFieldSize - 1

	// EntrySize is the size of one file table entry (offset, size, path).
	EntrySize = 4 + 4 + PathFieldSize
)
