package vault

import (
	"errors"
	"fmt"
	"path"

	"golang.org/x/text/unicode/norm"
)

// ErrNotFound means no lookup strategy found a stored file for a path.
var ErrNotFound = errors.New("file not found in vault")

// File is a resolved, existing stored object.
type File struct {
	path string
}

// Path returns the vault-relative path of the file.
func (f File) Path() string { return f.path }

// Resolver maps embed paths to stored files. It holds no cache: every call
// consults the store, which may have changed since the last run.
type Resolver struct {
	store FileStore
}

// NewResolver returns a Resolver over store.
func NewResolver(store FileStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve looks up declared in three steps: relative to the directory of
// notePath, then as a vault-absolute path, then by scanning every stored
// file for the first one (in lexical order) with the same base name.
//
// The base-name fallback is best effort: when several files share a name
// the lexically first path wins, which is stable but not necessarily the
// file the author meant.
func (r *Resolver) Resolve(declared, notePath string) (File, error) {
	want := Normalize(declared)
	if want == "" {
		return File{}, fmt.Errorf("%w: empty path", ErrNotFound)
	}

	candidates := []string{want}
	if notePath != "" {
		if dir := path.Dir(Normalize(notePath)); dir != "." {
			candidates = []string{Normalize(path.Join(dir, want)), want}
		}
	}
	for _, c := range candidates {
		ok, err := r.store.Exists(c)
		if err != nil {
			return File{}, err
		}
		if ok {
			return File{path: c}, nil
		}
	}

	return r.byName(declared, want)
}

// ResolveExact only accepts a vault-absolute path.
func (r *Resolver) ResolveExact(p string) (File, error) {
	want := Normalize(p)
	ok, err := r.store.Exists(want)
	if err != nil {
		return File{}, err
	}
	if !ok {
		return File{}, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return File{path: want}, nil
}

func (r *Resolver) byName(declared, want string) (File, error) {
	all, err := r.store.ListAll()
	if err != nil {
		return File{}, err
	}
	name := norm.NFC.String(path.Base(want))
	for _, p := range all {
		if norm.NFC.String(path.Base(p)) == name {
			return File{path: p}, nil
		}
	}
	return File{}, fmt.Errorf("%w: %s", ErrNotFound, declared)
}
