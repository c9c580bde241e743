package progress

import "sync"

// Tracker is the batch progress counter shared by all tasks of one run.
// The value stays in [0,100] and never decreases between Reset calls.
type Tracker struct {
	mu       sync.Mutex
	value    int
	share    int
	onChange func(percent int)
}

// NewTracker returns a tracker that calls onChange (may be nil) with every
// new value. Calls are serialized, so observers see a non-decreasing sequence.
func NewTracker(onChange func(percent int)) *Tracker {
	return &Tracker{onChange: onChange}
}

// Reset starts a run of total tasks and sets the value to 0.
func (t *Tracker) Reset(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.value = 0
	t.share = 100
	if total > 0 {
		t.share = 100 / total
	}
	t.notify()
}

// Advance records one finished task and returns the new value.
func (t *Tracker) Advance() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.set(t.value + t.share)
	return t.value
}

// Complete moves the value to 100.
func (t *Tracker) Complete() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.set(100)
	return t.value
}

// Value returns the current value.
func (t *Tracker) Value() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

func (t *Tracker) set(v int) {
	if v > 100 {
		v = 100
	}
	if v <= t.value {
		return
	}
	t.value = v
	t.notify()
}

func (t *Tracker) notify() {
	if t.onChange != nil {
		t.onChange(t.value)
	}
}
