package builder

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	"github.com/spf13/afero"

	"github.com/ossyrian/gobparse/internal/gob"
)

type options struct {
	separator byte
	logger    *slog.Logger
}

// Option configures Build and WriteFile.
type Option func(*options)

// WithBackslashPaths writes path separators as '\', the form the original
// engines expect. Parsing normalizes them back to '/'.
func WithBackslashPaths() Option {
	return func(o *options) {
		o.separator = '\\'
	}
}

// WithLogger sets the logger used while building.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		separator: '/',
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Layout is the file table an archive will be written with. Entries are in
// path order and their offsets are contiguous from DataOffset.
type Layout struct {
	Header     gob.Header
	Entries    []gob.FileEntry
	DataOffset uint32 // first byte after the file table
	TotalSize  uint32 // length of the encoded archive
}

// ComputeLayout validates every path in archive and assigns offsets. No offset
// is assigned unless every path is valid.
func ComputeLayout(archive *gob.Archive) (*Layout, error) {
	paths := archive.Paths()

	for _, path := range paths {
		if err := gob.ValidatePath(path); err != nil {
			return nil, err
		}
	}

	tableEnd := uint64(gob.HeaderSize) + gob.FileCountSize + uint64(len(paths))*gob.EntrySize
	if tableEnd > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d files", gob.ErrArchiveTooLarge, len(paths))
	}

	layout := &Layout{
		Header: gob.Header{
			Signature:  gob.Signature,
			Version:    gob.Version,
			BodyOffset: gob.HeaderSize,
		},
		Entries:    make([]gob.FileEntry, 0, len(paths)),
		DataOffset: uint32(tableEnd),
	}

	offset := tableEnd
	for _, path := range paths {
		size := uint64(len(archive.Files[path]))
		if offset+size > math.MaxUint32 {
			return nil, fmt.Errorf("%w: %s would end at byte %d", gob.ErrArchiveTooLarge, path, offset+size)
		}

		layout.Entries = append(layout.Entries, gob.FileEntry{
			Offset: uint32(offset),
			Size:   uint32(size),
			Path:   path,
		})
		offset += size
	}
	layout.TotalSize = uint32(offset)

	return layout, nil
}

// Build encodes archive as a GOB file. Files are laid out in path order, so
// the same archive always produces the same bytes.
func Build(archive *gob.Archive, opts ...Option) ([]byte, error) {
	o := newOptions(opts)

	layout, err := ComputeLayout(archive)
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(make([]byte, 0, layout.TotalSize))

	buf.Write(layout.Header.Signature[:])
	binary.Write(buf, binary.LittleEndian, layout.Header.Version)
	binary.Write(buf, binary.LittleEndian, layout.Header.BodyOffset)
	binary.Write(buf, binary.LittleEndian, uint32(len(layout.Entries)))

	for _, entry := range layout.Entries {
		field, err := gob.EncodePath(entry.Path, o.separator)
		if err != nil {
			return nil, err
		}

		binary.Write(buf, binary.LittleEndian, entry.Offset)
		binary.Write(buf, binary.LittleEndian, entry.Size)
		buf.Write(field[:])
	}

	for _, entry := range layout.Entries {
		buf.Write(archive.Files[entry.Path])
	}

	o.logger.Debug("built archive",
		"file_count", len(layout.Entries),
		"data_offset", layout.DataOffset,
		"bytes", buf.Len(),
	)

	return buf.Bytes(), nil
}

// WriteFile builds archive and writes it to path on fsys.
func WriteFile(fsys afero.Fs, path string, archive *gob.Archive, opts ...Option) error {
	o := newOptions(opts)

	data, err := Build(archive, opts...)
	if err != nil {
		return fmt.Errorf("failed to build %s: %w", path, err)
	}

	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return &gob.ImportError{Op: "write", Path: path, Err: err}
	}

	o.logger.Info("wrote archive",
		"file", path,
		"file_count", archive.Len(),
		"bytes", len(data),
	)

	return nil
}
