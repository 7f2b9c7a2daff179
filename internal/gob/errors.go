package gob

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSignature is returned when the header does not start with "GOB ".
	ErrInvalidSignature = errors.New("invalid GOB signature")

	// ErrUnsupportedVersion is returned when the header version is not Version.
	ErrUnsupportedVersion = errors.New("unsupported GOB version")

	// ErrTruncatedBuffer is returned when the buffer is shorter than the header or file table requires.
	ErrTruncatedBuffer = errors.New("truncated GOB buffer")

	// ErrOffsetOutOfBounds is returned when an entry's offset+size is past the end of the buffer.
	ErrOffsetOutOfBounds = errors.New("file data out of bounds")

	// ErrInvalidPath is returned when a path is not valid UTF-8, is empty, or contains a NUL byte.
	ErrInvalidPath = errors.New("invalid path")

	// ErrPathTooLong is returned when a path does not fit in the path field.
	ErrPathTooLong = errors.New("path too long")

	// ErrArchiveTooLarge is returned when an offset or size does not fit in a u32.
	ErrArchiveTooLarge = errors.New("archive too large")
)

// ImportError records a filesystem failure while importing from or exporting
// to a directory tree, together with the path that caused it.
type ImportError struct {
	Op   string // "walk", "read", "mkdir", "write"
	Path string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }
