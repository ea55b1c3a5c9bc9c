// internal/workspace/local.go
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"twig/internal/errors"
	"twig/shared/utils"

	"go.uber.org/zap"
)

// MetaDir is the repository metadata directory at the working-directory root.
const MetaDir = ".twig"

// FindRoot searches upward from startDir for the directory holding MetaDir.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if info, err := os.Stat(filepath.Join(dir, MetaDir)); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.ErrNotInitialized
}

// Dir is the working directory. Only plain files directly under Root are
// visible; subdirectories and hidden files are ignored.
type Dir struct {
	Root   string
	logger *zap.Logger
}

func NewDir(root string, logger *zap.Logger) *Dir {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dir{Root: root, logger: logger}
}

// shouldIgnore reports whether name is outside what the repository tracks.
func shouldIgnore(name string) bool {
	return name == "" || strings.HasPrefix(name, ".")
}

// validName rejects names that do not denote a plain file directly in Root.
func validName(name string) bool {
	if shouldIgnore(name) {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && name == filepath.Base(name)
}

func (d *Dir) path(name string) string {
	return filepath.Join(d.Root, name)
}

// List returns the names of all plain files in the working directory, sorted.
func (d *Dir) List() ([]string, error) {
	entries, err := os.ReadDir(d.Root)
	if err != nil {
		return nil, fmt.Errorf("reading working directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if shouldIgnore(entry.Name()) || !entry.Type().IsRegular() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether name is a plain file in the working directory.
func (d *Dir) Exists(name string) bool {
	if !validName(name) {
		return false
	}
	info, err := os.Lstat(d.path(name))
	return err == nil && info.Mode().IsRegular()
}

func (d *Dir) Read(name string) ([]byte, error) {
	if !d.Exists(name) {
		return nil, errors.ErrFileNotFound
	}
	data, err := os.ReadFile(d.path(name))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// Write creates or replaces name atomically.
func (d *Dir) Write(name string, data []byte) error {
	if !validName(name) {
		return fmt.Errorf("writing %q: not a plain file name", name)
	}
	if err := utils.SafeWrite(d.path(name), data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	d.logger.Debug("wrote working file", zap.String("path", name), zap.Int("size", len(data)))
	return nil
}

// Remove deletes name. A file that is already gone is not an error.
func (d *Dir) Remove(name string) error {
	if !validName(name) {
		return nil
	}
	if err := os.Remove(d.path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	d.logger.Debug("removed working file", zap.String("path", name))
	return nil
}

// Hash returns the content hash of name as it is on disk.
func (d *Dir) Hash(name string) (string, error) {
	data, err := d.Read(name)
	if err != nil {
		return "", err
	}
	return utils.HashContent(data), nil
}

// Snapshot hashes every listed file.
func (d *Dir) Snapshot() (map[string]string, error) {
	names, err := d.List()
	if err != nil {
		return nil, err
	}

	files := make(map[string]string, len(names))
	for _, name := range names {
		hash, err := d.Hash(name)
		if err != nil {
			return nil, err
		}
		files[name] = hash
	}
	return files, nil
}
