package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"tifpng/internal/links"
	"tifpng/internal/progress"
	"tifpng/internal/util/format"
)

// unit is one piece of work of a run.
type unit struct {
	ref  links.Reference
	line int // line the task edits, -1 when it edits none
}

func unitsFromRefs(refs []links.Reference) []unit {
	out := make([]unit, len(refs))
	for i, r := range refs {
		out[i] = unit{ref: r, line: r.Line}
	}
	return out
}

func unitsFromPaths(paths []string) []unit {
	out := make([]unit, len(paths))
	for i, p := range paths {
		out[i] = unit{ref: links.Reference{Target: p, Line: -1}, line: -1}
	}
	return out
}

// workFunc does the work of one unit. Rewrites of the shared note must
// happen after t.wait().
type workFunc func(ctx context.Context, jobID string, u unit, t *turn) Outcome

// settle runs one task per unit and waits for all of them. A failing task
// never stops its siblings, and the run is not cancellable once started.
// Every task advances the batch progress exactly once.
func (s *Service) settle(ctx context.Context, op Op, units []unit, work workFunc) Report {
	ctx = context.WithoutCancel(ctx)

	tracker := progress.NewTracker(func(p int) {
		s.batch(progress.StageRunning, float64(p), "")
	})
	tracker.Reset(len(units))

	outcomes := make([]Outcome, len(units))
	turns := sequence(units)

	var g errgroup.Group
	if s.opts.Jobs > 0 {
		g.SetLimit(s.opts.Jobs)
	}
	for i, u := range units {
		i, u := i, u
		jobID := strconv.Itoa(i + 1)
		s.stage(jobID, u.ref.Target, progress.StageQueued)
		g.Go(func() error {
			defer tracker.Advance()
			defer turns[i].finish()
			o := s.runUnit(ctx, jobID, i+1, u, turns[i], work)
			outcomes[i] = o
			s.finishJob(jobID, op, o)
			return nil
		})
	}
	_ = g.Wait()

	s.batch(progress.StageAggregating, float64(tracker.Value()), "")
	rep := buildReport(op, outcomes)
	tracker.Complete()
	s.batch(progress.StageCompleted, 100, rep.Summary())
	return rep
}

func (s *Service) runUnit(ctx context.Context, jobID string, index int, u unit, t *turn, work workFunc) (o Outcome) {
	defer func() {
		if r := recover(); r != nil {
			o = Outcome{Status: StatusFailure, Err: fmt.Errorf("internal error: %v", r)}
		}
		o.Index = index
		o.Ref = u.ref
	}()
	return work(ctx, jobID, u, t)
}

func (s *Service) finishJob(jobID string, op Op, o Outcome) {
	res := progress.Result{JobID: jobID, Target: o.Ref.Target, OutputPath: o.Output, Bytes: o.Bytes}
	switch o.Status {
	case StatusFailure:
		res.Err = o.Err
		s.update(progress.Update{JobID: jobID, Target: o.Ref.Target, Stage: progress.StageError, Percent: -1, Message: o.Err.Error()})
	case StatusWriteConflict:
		res.Skipped = true
		s.update(progress.Update{JobID: jobID, Target: o.Ref.Target, Stage: progress.StageSkipped, Percent: -1, Message: "kept existing " + o.Output})
	default:
		s.update(progress.Update{JobID: jobID, Target: o.Ref.Target, Stage: progress.StageCompleted, Percent: -1, Message: doneMessage(op, o)})
	}
	if s.reporter != nil {
		s.reporter.Result(res)
	}
}

func doneMessage(op Op, o Outcome) string {
	switch op {
	case OpRemove, OpPurge:
		return "Deleted: " + o.Output
	case OpRestore:
		return "Restored link"
	default:
		return fmt.Sprintf("Saved: %s (%s)", o.Output, format.HumanizeBytes(o.Bytes))
	}
}

func failed(err error) Outcome {
	return Outcome{Status: StatusFailure, Err: err}
}
