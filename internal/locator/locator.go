// Package locator resolves report file paths against the host project tree.
package locator

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/covlens/covlens/internal/contract"
	"github.com/covlens/covlens/schema"
)

// FileSystemLocator indexes the project directory once and answers path
// lookups from memory. Report paths resolve relative to the project root.
type FileSystemLocator struct {
	root  string
	index map[string]schema.FileIdentity
}

var _ contract.ResourceLocator = &FileSystemLocator{} // Compile-time check

// NewFileSystemLocator walks the project directory and indexes every regular
// file that does not match an exclude pattern. Hidden directories such as
// .git are skipped.
func NewFileSystemLocator(root string, excludes []string) (*FileSystemLocator, error) {
	index := make(map[string]schema.FileIdentity)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		if contract.ShouldIgnore(relPath, excludes) {
			return nil
		}

		index[relPath] = schema.FileIdentity{RelPath: relPath, AbsPath: path}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &FileSystemLocator{root: root, index: index}, nil
}

// Resolve maps a report path to an indexed file identity. Both project
// relative paths and absolute paths under the project root are accepted.
func (l *FileSystemLocator) Resolve(path string) (schema.FileIdentity, bool) {
	cleaned := filepath.ToSlash(filepath.Clean(path))

	if filepath.IsAbs(path) {
		relPath, err := filepath.Rel(l.root, path)
		if err != nil || strings.HasPrefix(relPath, "..") {
			return schema.FileIdentity{}, false
		}
		cleaned = filepath.ToSlash(relPath)
	}

	identity, ok := l.index[cleaned]
	return identity, ok
}

// Len returns the number of indexed files.
func (l *FileSystemLocator) Len() int {
	return len(l.index)
}
