// Package vault is the storage side of the converter: an afero-backed file
// store rooted at the vault directory, a resolver mapping embed paths to
// stored files, and a line-addressable note buffer.
package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// ErrIO marks a failed read, write, delete or listing.
var ErrIO = errors.New("i/o error")

// FileStore is the storage collaborator. Paths are slash-separated and
// relative to the vault root.
type FileStore interface {
	Exists(p string) (bool, error)
	ReadBinary(p string) ([]byte, error)
	WriteBinary(p string, data []byte) error
	Delete(p string) error
	ListAll() ([]string, error)
}

// Store implements FileStore on top of an afero filesystem.
// It is safe for concurrent use when the underlying filesystem is.
type Store struct {
	fs afero.Fs
}

// NewStore wraps fsys; the root of fsys is the vault root.
func NewStore(fsys afero.Fs) *Store {
	return &Store{fs: fsys}
}

// OpenDir returns a Store confined to the directory root on the OS filesystem.
func OpenDir(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("vault path: %w", err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("open vault: %s is not a directory", abs)
	}
	return NewStore(afero.NewBasePathFs(afero.NewOsFs(), abs)), nil
}

func osPath(p string) string {
	return filepath.FromSlash(Normalize(p))
}

// Exists reports whether a regular file is stored at p.
func (s *Store) Exists(p string) (bool, error) {
	st, err := s.fs.Stat(osPath(p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: stat %s: %w", ErrIO, p, err)
	}
	return !st.IsDir(), nil
}

// ReadBinary returns the contents of p.
func (s *Store) ReadBinary(p string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, osPath(p))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, p, err)
	}
	return data, nil
}

// WriteBinary creates or truncates p, creating parent directories as needed.
func (s *Store) WriteBinary(p string, data []byte) error {
	name := osPath(p)
	if dir := filepath.Dir(name); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: mkdir %s: %w", ErrIO, dir, err)
		}
	}
	if err := afero.WriteFile(s.fs, name, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrIO, p, err)
	}
	return nil
}

// Delete removes the file at p.
func (s *Store) Delete(p string) error {
	if err := s.fs.Remove(osPath(p)); err != nil {
		return fmt.Errorf("%w: delete %s: %w", ErrIO, p, err)
	}
	return nil
}

// ListAll returns every regular file in the vault, lexically sorted.
// Hidden directories (".obsidian", ".git", ...) are skipped.
func (s *Store) ListAll() ([]string, error) {
	var out []string
	err := afero.Walk(s.fs, ".", func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if p != "." && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		out = append(out, filepath.ToSlash(p))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list vault: %w", ErrIO, err)
	}
	sort.Strings(out)
	return out, nil
}

// Normalize converts an embed path to the store's canonical form:
// forward slashes, cleaned, no leading "./" or "/".
func Normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}
