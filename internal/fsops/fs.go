// Package fsops provides the filesystem queries used to discover overlay files.
//
// Every lookup goes through an afero.Fs so that the index builder and the
// mod source enumerator can run against the real disk (afero.NewOsFs) or an
// in-memory tree in tests (afero.NewMemMapFs).
//
// Key features:
//   - Recursive regular-file enumeration that skips unreadable subtrees
//   - Symlink-aware file classification
//   - Identifier validation for mod directory names
package fsops

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// SkipFunc is notified about paths that could not be read during a walk.
type SkipFunc func(path string, err error)

// IsDir reports whether path exists and is a directory (following symlinks).
func IsDir(fsys afero.Fs, path string) bool {
	ok, err := afero.IsDir(fsys, path)
	return err == nil && ok
}

// Exists checks if a path exists.
func Exists(fsys afero.Fs, path string) (bool, error) {
	return afero.Exists(fsys, path)
}

// errSymlinkLoop is reported to SkipFunc for a directory link that points
// back at one of its own ancestors.
var errSymlinkLoop = errors.New("symlink loop")

// RegularFiles returns every regular file below root, sorted lexically.
// Symlinks are followed, both for root itself and for entries below it, and
// returned paths stay under the unresolved root. Unreadable directories and
// entries are reported to onSkip and left out.
func RegularFiles(fsys afero.Fs, root string, onSkip SkipFunc) ([]string, error) {
	if onSkip == nil {
		onSkip = func(string, error) {}
	}

	info, err := fsys.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("failed to walk %s: not a directory", root)
	}

	w := &fileWalker{fs: fsys, onSkip: onSkip}
	if err := w.walk(root, []os.FileInfo{info}); err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(w.files)
	return w.files, nil
}

type fileWalker struct {
	fs     afero.Fs
	onSkip SkipFunc
	files  []string
}

// walk collects files below dir. ancestors holds the resolved info of dir
// and every directory above it.
func (w *fileWalker) walk(dir string, ancestors []os.FileInfo) error {
	entries, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		info := entry
		if entry.Mode()&os.ModeSymlink != 0 {
			if info, err = w.fs.Stat(path); err != nil {
				w.onSkip(path, err)
				continue
			}
		}

		switch {
		case info.IsDir():
			if visited(ancestors, info) {
				w.onSkip(path, errSymlinkLoop)
				continue
			}
			if err := w.walk(path, append(ancestors[:len(ancestors):len(ancestors)], info)); err != nil {
				w.onSkip(path, err)
			}
		case info.Mode().IsRegular():
			w.files = append(w.files, path)
		}
	}
	return nil
}

func visited(ancestors []os.FileInfo, info os.FileInfo) bool {
	for _, a := range ancestors {
		if os.SameFile(a, info) {
			return true
		}
	}
	return false
}

// ValidateIdentifier validates a mod directory name from a load order.
// Returns an error if the name contains path separators or traversal.
func ValidateIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("invalid identifier: empty")
	}

	if strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, filepath.Separator) {
		return fmt.Errorf("invalid identifier: must not contain path separators")
	}

	if id == "." || id == ".." {
		return fmt.Errorf("invalid identifier: path traversal not allowed")
	}

	return nil
}
