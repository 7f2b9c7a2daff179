// Package tree maps between GOB archives and directory trees.
package tree

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/ossyrian/gobparse/internal/gob"
)

// ErrNotDirectory is returned when the import root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

type options struct {
	workers  int
	logger   *slog.Logger
	progress func(done, total int)
}

// Option configures Import and Export.
type Option func(*options)

// WithWorkers sets how many files are read or written at once.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithLogger sets the logger used for per-file messages.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProgress registers fn to be called after each file is handled.
// Calls are serialized.
func WithProgress(fn func(done, total int)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		workers: runtime.NumCPU(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// File pairs a path inside the archive with its location on the filesystem.
type File struct {
	Rel string // slash-separated path relative to the root
	Abs string // path on the filesystem
}

// Walk lists every regular file under root. Paths that cannot be stored in
// an archive are rejected here, before any file is read. Backslashes in file
// names count as separators, so two files that map to the same archive path
// fail with gob.ErrInvalidPath. Every error is a *gob.ImportError.
func Walk(fsys afero.Fs, root string, logger *slog.Logger) ([]File, error) {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := fsys.Stat(root)
	if err != nil {
		return nil, &gob.ImportError{Op: "walk", Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &gob.ImportError{Op: "walk", Path: root, Err: ErrNotDirectory}
	}

	var files []File
	seen := make(map[string]string)
	err = afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return &gob.ImportError{Op: "walk", Path: path, Err: err}
		}
		if info.IsDir() {
			return nil
		}
		if !info.Mode().IsRegular() {
			logger.Debug("skipping non-regular file", "path", path, "mode", info.Mode())
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return &gob.ImportError{Op: "walk", Path: path, Err: err}
		}
		rel = gob.NormalizePath(filepath.ToSlash(rel))

		if err := gob.ValidatePath(rel); err != nil {
			return &gob.ImportError{Op: "walk", Path: path, Err: err}
		}
		if prev, dup := seen[rel]; dup {
			return &gob.ImportError{Op: "walk", Path: path,
				Err: fmt.Errorf("%w: %q is also stored as %q", gob.ErrInvalidPath, prev, rel)}
		}
		seen[rel] = path

		files = append(files, File{Rel: rel, Abs: path})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// Import builds an archive from every regular file under root, keyed by its
// slash-separated path relative to root. Any unreadable file fails the whole
// import.
func Import(ctx context.Context, fsys afero.Fs, root string, opts ...Option) (*gob.Archive, error) {
	o := newOptions(opts)

	files, err := Walk(fsys, root, o.logger)
	if err != nil {
		return nil, err
	}

	o.logger.Info("importing directory",
		"root", root,
		"file_count", len(files),
	)

	archive := gob.New()
	var (
		mu   sync.Mutex
		done int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for _, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			data, err := afero.ReadFile(fsys, f.Abs)
			if err != nil {
				return &gob.ImportError{Op: "read", Path: f.Abs, Err: err}
			}

			o.logger.Debug("read file",
				"path", f.Rel,
				"bytes", len(data),
			)

			mu.Lock()
			defer mu.Unlock()

			archive.Files[f.Rel] = data
			done++
			if o.progress != nil {
				o.progress(done, len(files))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return archive, nil
}

// Export writes every file in archive below root, creating directories as
// needed. Paths that would escape root are rejected before anything is written.
func Export(ctx context.Context, fsys afero.Fs, archive *gob.Archive, root string, opts ...Option) error {
	o := newOptions(opts)

	paths := archive.Paths()
	for _, p := range paths {
		if !filepath.IsLocal(filepath.FromSlash(p)) {
			return fmt.Errorf("%w: %q escapes the output directory", gob.ErrInvalidPath, p)
		}
	}

	if err := fsys.MkdirAll(root, 0o755); err != nil {
		return &gob.ImportError{Op: "mkdir", Path: root, Err: err}
	}

	o.logger.Info("exporting archive",
		"root", root,
		"file_count", len(paths),
	)

	var (
		mu   sync.Mutex
		done int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for _, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			dst := filepath.Join(root, filepath.FromSlash(p))
			if err := fsys.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return &gob.ImportError{Op: "mkdir", Path: filepath.Dir(dst), Err: err}
			}
			if err := afero.WriteFile(fsys, dst, archive.Files[p], 0o644); err != nil {
				return &gob.ImportError{Op: "write", Path: dst, Err: err}
			}

			o.logger.Debug("wrote file", "path", p, "bytes", len(archive.Files[p]))

			mu.Lock()
			defer mu.Unlock()

			done++
			if o.progress != nil {
				o.progress(done, len(paths))
			}
			return nil
		})
	}

	return g.Wait()
}
