// Package workspace stages file writes against a project tree and commits
// them in one pass. Nothing reaches the underlying filesystem before Commit.
package workspace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/sonalake/jhipster-multitenancy/internal/merge"
)

// Sentinel errors for workspace operations.
var (
	// ErrOutsideRoot indicates a path that is absolute or escapes the project root.
	ErrOutsideRoot = errors.New("workspace: path escapes project root")

	// ErrNotFound indicates the file is neither staged nor on disk.
	ErrNotFound = errors.New("workspace: file not found")
)

// defaultPerm is applied to files the generator creates.
const defaultPerm os.FileMode = 0o644

// chmoder is implemented by filesystems that support permission changes.
type chmoder interface {
	Chmod(name string, mode os.FileMode) error
}

// Change is one staged file.
type Change struct {
	Path    string
	Data    []byte
	Created bool // the file did not exist on disk when first staged
}

// Workspace is a staged view over a project filesystem.
// Reads see staged content first. It is safe for concurrent use.
type Workspace struct {
	mu     sync.Mutex
	fs     billy.Filesystem
	staged map[string]*Change
	order  []string
	logger *slog.Logger
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the logger used for commit progress.
func WithLogger(l *slog.Logger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a Workspace over fsys.
func New(fsys billy.Filesystem, opts ...Option) *Workspace {
	w := &Workspace{
		fs:     fsys,
		staged: make(map[string]*Change),
		logger: slog.Default().With("module", "workspace"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Clean validates p and returns its canonical slash-separated form.
func Clean(p string) (string, error) {
	if p == "" || strings.HasPrefix(p, "/") || filepath.IsAbs(p) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, p)
	}
	clean := path.Clean(filepath.ToSlash(p))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, p)
	}
	return clean, nil
}

// Read returns the staged content of p, or the content on disk when p is not
// staged.
func (w *Workspace) Read(p string) ([]byte, error) {
	clean, err := Clean(p)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	c, ok := w.staged[clean]
	w.mu.Unlock()
	if ok {
		return bytes.Clone(c.Data), nil
	}
	return w.readDisk(clean)
}

// Original returns the content of p on disk, ignoring staged writes.
func (w *Workspace) Original(p string) ([]byte, error) {
	clean, err := Clean(p)
	if err != nil {
		return nil, err
	}
	return w.readDisk(clean)
}

func (w *Workspace) readDisk(clean string) ([]byte, error) {
	data, err := util.ReadFile(w.fs, clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, clean)
		}
		return nil, fmt.Errorf("read %s: %w", clean, err)
	}
	return data, nil
}

// Exists reports whether p is staged or present on disk.
func (w *Workspace) Exists(p string) bool {
	clean, err := Clean(p)
	if err != nil {
		return false
	}

	w.mu.Lock()
	_, ok := w.staged[clean]
	w.mu.Unlock()
	if ok {
		return true
	}
	_, err = w.fs.Stat(clean)
	return err == nil
}

// Write stages data for p, replacing anything staged before.
func (w *Workspace) Write(p string, data []byte) error {
	clean, err := Clean(p)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if c, ok := w.staged[clean]; ok {
		c.Data = bytes.Clone(data)
		return nil
	}

	_, statErr := w.fs.Stat(clean)
	w.staged[clean] = &Change{
		Path:    clean,
		Data:    bytes.Clone(data),
		Created: statErr != nil,
	}
	w.order = append(w.order, clean)
	return nil
}

// Changes returns the staged files in the order they were first written.
func (w *Workspace) Changes() []Change {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]Change, 0, len(w.order))
	for _, p := range w.order {
		c := w.staged[p]
		out = append(out, Change{Path: c.Path, Data: bytes.Clone(c.Data), Created: c.Created})
	}
	return out
}

// Diff returns a unified diff between the disk and staged content of p, or ""
// when p is not staged or unchanged.
func (w *Workspace) Diff(p string) (string, error) {
	clean, err := Clean(p)
	if err != nil {
		return "", err
	}

	w.mu.Lock()
	c, ok := w.staged[clean]
	w.mu.Unlock()
	if !ok {
		return "", nil
	}

	var old []byte
	if !c.Created {
		old, err = w.Original(clean)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}
	return merge.UnifiedDiff(clean, old, c.Data), nil
}

// Commit writes every staged file to disk in staging order and clears the
// stage. Each file is replaced atomically. Files whose content is already on
// disk are skipped. It returns the paths that were written.
func (w *Workspace) Commit(ctx context.Context) ([]string, error) {
	changes := w.Changes()

	var written []string
	for _, c := range changes {
		if err := ctx.Err(); err != nil {
			return written, fmt.Errorf("commit interrupted: %w", err)
		}

		if !c.Created {
			if cur, err := util.ReadFile(w.fs, c.Path); err == nil && bytes.Equal(cur, c.Data) {
				w.logger.Debug("unchanged", "path", c.Path)
				continue
			}
		}

		if err := w.writeAtomic(c.Path, c.Data); err != nil {
			return written, err
		}
		w.logger.Debug("committed", "path", c.Path, "bytes", len(c.Data), "created", c.Created)
		written = append(written, c.Path)
	}

	w.mu.Lock()
	w.staged = make(map[string]*Change)
	w.order = nil
	w.mu.Unlock()

	return written, nil
}

// writeAtomic writes data to a temp file next to p and renames it over p.
func (w *Workspace) writeAtomic(p string, data []byte) error {
	dir := path.Dir(p)
	if dir != "." {
		if err := w.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	tmp, err := w.fs.TempFile(dir, ".multitenancy-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = w.fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = w.fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("close temp: %w", err)
	}

	mode := defaultPerm
	if info, err := w.fs.Stat(p); err == nil {
		mode = info.Mode().Perm()
	}
	if ch, ok := w.fs.(chmoder); ok {
		_ = ch.Chmod(tmpName, mode) // best-effort permission sync
	}

	if err := w.fs.Rename(tmpName, p); err != nil {
		_ = w.fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("rename temp to %s: %w", p, err)
	}
	return nil
}
