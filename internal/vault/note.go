package vault

import (
	"fmt"
	"strings"
	"sync"
)

// TextBuffer is the document collaborator: whole-text snapshot plus
// single-line reads and writes. Callers re-read a line before writing it.
type TextBuffer interface {
	Value() string
	Line(i int) (string, error)
	SetLine(i int, text string) error
}

// Note is a TextBuffer holding a Markdown note split into lines.
// All methods are safe for concurrent use.
type Note struct {
	mu    sync.RWMutex
	path  string
	lines []string
	dirty bool
}

// NewNote builds a note from text. path is the vault-relative location
// used as the resolution context for relative embeds.
func NewNote(path, text string) *Note {
	return &Note{path: Normalize(path), lines: strings.Split(text, "\n")}
}

// LoadNote reads the note stored at p.
func LoadNote(store FileStore, p string) (*Note, error) {
	data, err := store.ReadBinary(p)
	if err != nil {
		return nil, err
	}
	return NewNote(p, string(data)), nil
}

// Path returns the vault-relative path of the note.
func (n *Note) Path() string { return n.path }

// Value returns the full text.
func (n *Note) Value() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return strings.Join(n.lines, "\n")
}

// Line returns line i without its newline.
func (n *Note) Line(i int) (string, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if i < 0 || i >= len(n.lines) {
		return "", fmt.Errorf("line %d out of range (%d lines)", i, len(n.lines))
	}
	return n.lines[i], nil
}

// SetLine replaces line i. text must not contain a newline.
func (n *Note) SetLine(i int, text string) error {
	if strings.Contains(text, "\n") {
		return fmt.Errorf("line %d: replacement contains a newline", i)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if i < 0 || i >= len(n.lines) {
		return fmt.Errorf("line %d out of range (%d lines)", i, len(n.lines))
	}
	if n.lines[i] != text {
		n.lines[i] = text
		n.dirty = true
	}
	return nil
}

// Dirty reports whether any line changed since the note was loaded or saved.
func (n *Note) Dirty() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.dirty
}

// Save writes the note back to store when it has changed.
func (n *Note) Save(store FileStore) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.dirty {
		return nil
	}
	if err := store.WriteBinary(n.path, []byte(strings.Join(n.lines, "\n"))); err != nil {
		return err
	}
	n.dirty = false
	return nil
}
