package pipeline

// turn serializes tasks that edit the same line. Each task holds the done
// channel of the previous task on its line (nil for the first) and its own.
type turn struct {
	prev <-chan struct{}
	done chan struct{}
}

// wait blocks until the previous task on the line has finished.
// Calling it more than once is fine.
func (t *turn) wait() {
	if t.prev != nil {
		<-t.prev
	}
}

// finish waits for the predecessor, so completion propagates in match
// order, then releases the successor.
func (t *turn) finish() {
	t.wait()
	close(t.done)
}

// sequence builds one turn per unit, chaining units that share a line in
// the order given. Units with a negative line are never chained.
func sequence(units []unit) []*turn {
	last := make(map[int]chan struct{})
	turns := make([]*turn, len(units))
	for i, u := range units {
		t := &turn{done: make(chan struct{})}
		if u.line >= 0 {
			if prev, ok := last[u.line]; ok {
				t.prev = prev
			}
			last[u.line] = t.done
		}
		turns[i] = t
	}
	return turns
}
