package gob

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Header is the 12-byte header at the start of every GOB archive.
type Header struct {
	Signature  [4]byte // "GOB " for valid archives
	Version    uint32  // must equal Version
	BodyOffset uint32  // where the file count and file table start
}

// FileEntry is a single record of the file table.
type FileEntry struct {
	Offset uint32 // absolute offset of the file data
	Size   uint32 // length of the file data
	Path   string // decoded and normalized path
}

// End returns the offset one past the last byte of the entry's data.
func (e FileEntry) End() uint64 {
	return uint64(e.Offset) + uint64(e.Size)
}

// Archive is the in-memory form of a GOB archive: a set of files keyed by
// their slash-separated path inside the archive.
type Archive struct {
	Files map[string][]byte
}

// New returns an empty archive.
func New() *Archive {
	return &Archive{Files: make(map[string][]byte)}
}

// Add normalizes path, checks that it can be encoded and stores a copy of data.
// An existing file with the same path is replaced.
func (a *Archive) Add(path string, data []byte) error {
	path = NormalizePath(path)
	if err := ValidatePath(path); err != nil {
		return err
	}

	if a.Files == nil {
		a.Files = make(map[string][]byte)
	}
	a.Files[path] = bytes.Clone(data)
	return nil
}

// Get returns the contents stored under path.
func (a *Archive) Get(path string) ([]byte, bool) {
	data, ok := a.Files[NormalizePath(path)]
	return data, ok
}

// Len returns the number of files in the archive.
func (a *Archive) Len() int {
	return len(a.Files)
}

// Paths returns every path in the archive sorted lexicographically by byte
// value. This is the order the Builder lays files out in.
func (a *Archive) Paths() []string {
	paths := lo.Keys(a.Files)
	slices.Sort(paths)
	return paths
}

// Size returns the total number of content bytes held by the archive.
func (a *Archive) Size() uint64 {
	return lo.SumBy(lo.Values(a.Files), func(data []byte) uint64 {
		return uint64(len(data))
	})
}

func (a *Archive) String() string {
	return fmt.Sprintf("gob.Archive{files: %d, bytes: %d}", a.Len(), a.Size())
}
