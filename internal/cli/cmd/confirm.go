package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"tifpng/internal/pipeline"
)

var assumeYes = pipeline.ConfirmFunc(func(context.Context, string) (bool, error) {
	return true, nil
})

// promptConfirmer asks on the terminal. Questions from concurrent tasks are
// asked one at a time.
type promptConfirmer struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

func newPromptConfirmer(in *bufio.Reader, out io.Writer) *promptConfirmer {
	return &promptConfirmer{in: in, out: out}
}

// Confirm accepts "y" or "yes"; anything else, including EOF, is a no.
func (p *promptConfirmer) Confirm(ctx context.Context, question string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(p.out, "%s [y/N] ", question)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
