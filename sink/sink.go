// Package sink provides destinations for generation outputs such as the
// model image and the class descriptor JSON.
package sink

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Sink receives output files. Paths are slash separated and relative to the
// sink. Implementations must be safe for concurrent calls.
type Sink interface {
	WriteFile(ctx context.Context, path string, content []byte) error
}

var (
	errEmptyPath = errors.New("path is empty")
	errAbsPath   = errors.New("absolute paths not allowed")
	errTraversal = errors.New("path traversal not allowed")
)

// ValidatePath reports whether path may be written by a sink: relative,
// slash separated, clean and without ".." elements.
func ValidatePath(path string) error {
	switch {
	case path == "" || path == ".":
		return errEmptyPath
	case strings.HasPrefix(path, "/") || filepath.IsAbs(path) || filepath.VolumeName(path) != "" ||
		(len(path) >= 2 && path[1] == ':'):
		return errAbsPath
	case slices.Contains(strings.Split(path, "/"), ".."):
		return errTraversal
	case !fs.ValidPath(path):
		return fmt.Errorf("path is not clean (expected %q)", filepath.ToSlash(filepath.Clean(path)))
	}
	return nil
}

// Dir writes files below a directory on the local filesystem. Each write
// goes to a temporary file first and is renamed into place.
type Dir struct {
	// Root is the base directory.
	Root string

	// Mode is the permission of written files. Zero means 0644.
	Mode os.FileMode

	// NoClobber makes writes to existing files fail.
	NoClobber bool
}

// NewDir returns a Dir sink rooted at root that overwrites existing files.
func NewDir(root string) *Dir {
	return &Dir{Root: root, Mode: 0o644}
}

// WriteFile writes content to path below d.Root, creating parent
// directories as needed.
func (d *Dir) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	full := filepath.Join(d.Root, filepath.FromSlash(path))
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	mode := d.Mode
	if mode == 0 {
		mode = 0o644
	}
	tmp, err := writeTemp(dir, content, mode)
	if err != nil {
		return err
	}
	// Leftover temp files keep the .schemaplan-*.tmp pattern.
	defer os.Remove(tmp)

	if err := ctx.Err(); err != nil {
		return err
	}
	if !d.NoClobber {
		if err := os.Rename(tmp, full); err != nil {
			return fmt.Errorf("renaming into %s: %w", path, err)
		}
		return nil
	}
	// Link fails if the target exists, without a stat/rename race.
	if err := os.Link(tmp, full); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("file already exists: %q", path)
		}
		return fmt.Errorf("creating %s: %w", path, err)
	}
	return nil
}

func writeTemp(dir string, content []byte, mode os.FileMode) (string, error) {
	f, err := os.CreateTemp(dir, ".schemaplan-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	name := f.Name()
	_, werr := f.Write(content)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Chmod(name, mode); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("setting file mode: %w", err)
	}
	return name, nil
}

// Memory keeps written files in memory. Used by tests and by callers that
// want outputs without touching the filesystem.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemory returns an empty Memory sink.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

// WriteFile stores a copy of content under path.
func (m *Memory) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = slices.Clone(content)
	return nil
}

// Get returns a copy of the file at path, or nil.
func (m *Memory) Get(path string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.files[path])
}

// Paths returns the written paths in sorted order.
func (m *Memory) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.files))
}
