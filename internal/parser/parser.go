package parser

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/ossyrian/gobparse/internal/gob"
)

// GobReader reads the header, file table and file data of a GOB archive
// held fully in memory.
type GobReader struct {
	data   []byte
	file   *bytes.Reader
	logger *slog.Logger
	header *gob.Header
}

// NewGobReader returns a reader over data. A nil logger uses slog.Default().
func NewGobReader(data []byte, logger *slog.Logger) *GobReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &GobReader{
		data:   data,
		file:   bytes.NewReader(data),
		logger: logger,
	}
}

// ReadHeader reads the 12-byte header and checks the signature and version.
func (r *GobReader) ReadHeader() (*gob.Header, error) {
	if r.file.Len() < gob.HeaderSize {
		return nil, fmt.Errorf("%w: need %d header bytes, have %d",
			gob.ErrTruncatedBuffer, gob.HeaderSize, r.file.Len())
	}

	h := &gob.Header{}

	if _, err := io.ReadFull(r.file, h.Signature[:]); err != nil {
		return nil, fmt.Errorf("failed to read signature: %w", err)
	}
	if h.Signature != gob.Signature {
		return nil, fmt.Errorf("%w: expected %q, got %q",
			gob.ErrInvalidSignature, gob.Signature, h.Signature)
	}

	if err := binary.Read(r.file, binary.LittleEndian, &h.Version); err != nil {
		return nil, fmt.Errorf("failed to read version: %w", err)
	}
	if h.Version != gob.Version {
		return nil, fmt.Errorf("%w: expected %#x, got %#x",
			gob.ErrUnsupportedVersion, gob.Version, h.Version)
	}

	if err := binary.Read(r.file, binary.LittleEndian, &h.BodyOffset); err != nil {
		return nil, fmt.Errorf("failed to read body offset: %w", err)
	}

	r.logger.Info("header is valid",
		"signature", string(h.Signature[:]),
		"version", h.Version,
		"body_offset", h.BodyOffset,
	)

	r.header = h
	return h, nil
}

// ReadFileTable seeks to the body offset and decodes every file table entry.
// ReadHeader must be called first.
func (r *GobReader) ReadFileTable() ([]gob.FileEntry, error) {
	if r.header == nil {
		return nil, fmt.Errorf("file table read before header")
	}

	bodyOffset := int64(r.header.BodyOffset)
	if bodyOffset+gob.FileCountSize > int64(len(r.data)) {
		return nil, fmt.Errorf("%w: body offset %d leaves no room for the file count in %d bytes",
			gob.ErrTruncatedBuffer, bodyOffset, len(r.data))
	}
	if _, err := r.file.Seek(bodyOffset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to body offset %d: %w", bodyOffset, err)
	}

	var fileCount uint32
	if err := binary.Read(r.file, binary.LittleEndian, &fileCount); err != nil {
		return nil, fmt.Errorf("failed to read file count: %w", err)
	}

	tableSize := uint64(fileCount) * gob.EntrySize
	if remaining := uint64(r.file.Len()); remaining < tableSize {
		return nil, fmt.Errorf("%w: %d entries need %d bytes, have %d",
			gob.ErrTruncatedBuffer, fileCount, tableSize, remaining)
	}

	r.logger.Debug("reading file table",
		"file_count", fileCount,
	)

	entries := make([]gob.FileEntry, 0, fileCount)
	for i := 0; i < int(fileCount); i++ {
		entry, err := r.readFileEntry()
		if err != nil {
			return nil, fmt.Errorf("failed to read entry %d: %w", i, err)
		}

		r.logger.Debug("read file entry",
			"index", i,
			"path", entry.Path,
			"offset", entry.Offset,
			"size", entry.Size,
		)

		entries = append(entries, *entry)
	}

	r.logger.Info("read file table",
		"file_count", fileCount,
	)

	return entries, nil
}

func (r *GobReader) readFileEntry() (*gob.FileEntry, error) {
	entry := &gob.FileEntry{}

	if err := binary.Read(r.file, binary.LittleEndian, &entry.Offset); err != nil {
		return nil, fmt.Errorf("failed to read offset: %w", err)
	}
	if err := binary.Read(r.file, binary.LittleEndian, &entry.Size); err != nil {
		return nil, fmt.Errorf("failed to read size: %w", err)
	}

	var field [gob.PathFieldSize]byte
	if _, err := io.ReadFull(r.file, field[:]); err != nil {
		return nil, fmt.Errorf("failed to read path: %w", err)
	}

	var err error
	entry.Path, err = gob.DecodePath(field)
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// ReadFiles copies the data addressed by each entry into a new archive.
// When two entries share a path the later one wins. An entry whose path field
// starts with NUL is kept under "", which Build and Export reject.
func (r *GobReader) ReadFiles(entries []gob.FileEntry) (*gob.Archive, error) {
	archive := gob.New()

	for _, entry := range entries {
		if entry.End() > uint64(len(r.data)) {
			return nil, fmt.Errorf("%w: %s spans [%d, %d) in %d bytes",
				gob.ErrOffsetOutOfBounds, entry.Path, entry.Offset, entry.End(), len(r.data))
		}

		if _, dup := archive.Files[entry.Path]; dup {
			r.logger.Warn("duplicate path in file table, keeping last entry",
				"path", entry.Path,
				"offset", entry.Offset,
			)
		}

		archive.Files[entry.Path] = bytes.Clone(r.data[entry.Offset:entry.End()])
	}

	return archive, nil
}

// Parse decodes a complete GOB archive held in data.
func Parse(data []byte, logger *slog.Logger) (*gob.Archive, error) {
	reader := NewGobReader(data, logger)

	if _, err := reader.ReadHeader(); err != nil {
		return nil, err
	}

	entries, err := reader.ReadFileTable()
	if err != nil {
		return nil, err
	}

	return reader.ReadFiles(entries)
}

// ParseFile reads the archive at path from fsys and parses it.
func ParseFile(fsys afero.Fs, path string, logger *slog.Logger) (*gob.Archive, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("file", path)

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, &gob.ImportError{Op: "read", Path: path, Err: err}
	}

	logger.Info("starting", "bytes", len(data))

	return Parse(data, logger)
}
