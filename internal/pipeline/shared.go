package pipeline

import (
	"errors"
	"sync"

	"tifpng/internal/vault"
)

// writeOnce makes every task of a run that targets the same destination
// share one conversion. The first task does the work; the rest wait for
// its outcome.
type writeOnce struct {
	mu    sync.Mutex
	byDst map[string]*pendingWrite
}

type pendingWrite struct {
	done chan struct{}
	o    Outcome
}

func newWriteOnce() *writeOnce {
	return &writeOnce{byDst: make(map[string]*pendingWrite)}
}

// do runs fn for dst unless another task already did or is doing so, in
// which case it returns that task's outcome. A nil writeOnce always runs fn.
func (w *writeOnce) do(dst string, fn func() Outcome) Outcome {
	if w == nil {
		return fn()
	}
	w.mu.Lock()
	if p, ok := w.byDst[dst]; ok {
		w.mu.Unlock()
		<-p.done
		return p.o
	}
	p := &pendingWrite{done: make(chan struct{}), o: failed(errors.New("conversion did not finish"))}
	w.byDst[dst] = p
	w.mu.Unlock()

	defer close(p.done)
	p.o = fn()
	return p.o
}

type resolution struct {
	file vault.File
	err  error
}

// deletions tracks how many tasks of a removal run still link to each
// derivative. A file is deleted once, by the last task to release it, and
// only when every link to it was restored.
type deletions struct {
	mu      sync.Mutex
	pending map[string]int
	kept    map[string]bool
}

func newDeletions() *deletions {
	return &deletions{pending: make(map[string]int), kept: make(map[string]bool)}
}

func (d *deletions) add(p string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending[p]++
}

// release drops one link to p. restored reports whether that link was
// rewritten. last is true for the final release; clean is false when any
// link to p could not be restored.
func (d *deletions) release(p string, restored bool) (last, clean bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !restored {
		d.kept[p] = true
	}
	d.pending[p]--
	return d.pending[p] == 0, !d.kept[p]
}
