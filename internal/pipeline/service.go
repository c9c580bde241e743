// Package pipeline runs batch conversions over the TIFF embeds of a note:
// every reference becomes one task, all tasks settle, and the outcomes are
// folded into a Report in document order.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"tifpng/internal/model"
	"tifpng/internal/progress"
	"tifpng/internal/vault"
)

var (
	// ErrWriteConflict marks a task that left an existing PNG copy in place
	// because the overwrite was declined. It is an outcome, not a failure.
	ErrWriteConflict = errors.New("destination exists and overwrite was declined")

	// ErrNoDocument is returned before any task starts when there is no
	// note to work on.
	ErrNoDocument = errors.New("no active document")
)

// Confirmer answers a yes/no question on behalf of the user. Only the
// asking task waits for the answer.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, question string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, question string) (bool, error) {
	return f(ctx, question)
}

// Service orchestrates conversion and removal runs against one vault.
type Service struct {
	store     vault.FileStore
	resolver  *vault.Resolver
	reporter  progress.Reporter
	confirmer Confirmer
	opts      model.Options
}

// Option configures a Service.
type Option func(*Service)

// WithStore sets the vault storage. Required.
func WithStore(st vault.FileStore) Option {
	return func(s *Service) {
		s.store = st
	}
}

// WithReporter attaches a progress reporter. Reporter methods are called
// from several goroutines at once.
func WithReporter(rp progress.Reporter) Option {
	return func(s *Service) {
		s.reporter = rp
	}
}

// WithConfirmer sets who answers overwrite and purge questions. Without one
// every question is answered "no".
func WithConfirmer(c Confirmer) Option {
	return func(s *Service) {
		s.confirmer = c
	}
}

// WithOptions sets the runtime options.
func WithOptions(o model.Options) Option {
	return func(s *Service) {
		s.opts = o
	}
}

// NewService constructs a Service with the provided options.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, o := range opts {
		o(s)
	}
	if s.store != nil {
		s.resolver = vault.NewResolver(s.store)
	}
	return s
}

func (s *Service) ready() error {
	if s.store == nil {
		return fmt.Errorf("pipeline: no file store configured")
	}
	return nil
}

func (s *Service) confirm(ctx context.Context, question string) (bool, error) {
	if s.confirmer == nil {
		return false, nil
	}
	return s.confirmer.Confirm(ctx, question)
}

func (s *Service) update(u progress.Update) {
	if s.reporter != nil {
		s.reporter.Update(u)
	}
}

// stage reports a per-job stage change.
func (s *Service) stage(jobID, target string, st progress.Stage) {
	s.update(progress.Update{JobID: jobID, Target: target, Stage: st, Percent: -1})
}

// batch reports a stage change of the run as a whole.
func (s *Service) batch(st progress.Stage, percent float64, msg string) {
	s.update(progress.Update{Stage: st, Percent: percent, Message: msg})
}

// logf emits a diagnostic line in verbose mode.
func (s *Service) logf(jobID string, stream progress.LogStream, format string, args ...any) {
	if s.reporter == nil || !s.opts.Verbose {
		return
	}
	s.reporter.Log(progress.Log{JobID: jobID, Stream: stream, Line: fmt.Sprintf(format, args...)})
}
