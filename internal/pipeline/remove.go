package pipeline

import (
	"context"
	"fmt"

	"tifpng/internal/links"
	"tifpng/internal/progress"
	"tifpng/internal/vault"
)

// RemoveOptions tunes Remove.
type RemoveOptions struct {
	// KeepFiles restores the links but leaves the PNG copies on disk.
	KeepFiles bool
}

// Remove undoes Convert for buf: every "![[x.tif.png]]" embed is pointed
// back at "![[x.tif]]" and the PNG copy is deleted.
func (s *Service) Remove(ctx context.Context, buf vault.TextBuffer, notePath string, ro RemoveOptions) (Report, error) {
	op := OpRemove
	if ro.KeepFiles {
		op = OpRestore
	}
	if buf == nil {
		return Report{Op: op}, ErrNoDocument
	}
	if err := s.ready(); err != nil {
		return Report{Op: op}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{Op: op}, err
	}

	s.batch(progress.StageScanning, 0, "")
	refs := links.ScanDerivatives(buf.Value())
	if len(refs) == 0 {
		rep := Report{Op: op, Empty: true}
		s.batch(progress.StageCompleted, 100, rep.Summary())
		return rep, nil
	}

	// Resolve everything before the first delete so links sharing a
	// derivative all find it.
	var (
		resolved = make(map[string]resolution)
		dels     = newDeletions()
	)
	if !ro.KeepFiles {
		for _, r := range refs {
			if _, ok := resolved[r.Target]; ok {
				continue
			}
			f, err := s.resolver.Resolve(r.Target, notePath)
			resolved[r.Target] = resolution{file: f, err: err}
		}
		for _, r := range refs {
			if res := resolved[r.Target]; res.err == nil {
				dels.add(res.file.Path())
			}
		}
	}

	return s.settle(ctx, op, unitsFromRefs(refs), func(_ context.Context, jobID string, u unit, t *turn) Outcome {
		if ro.KeepFiles {
			return s.restoreLink(jobID, u, t, buf)
		}

		s.stage(jobID, u.ref.Target, progress.StageResolving)
		res := resolved[u.ref.Target]
		if res.err != nil {
			return failed(res.err)
		}
		p := res.file.Path()

		o := s.restoreLink(jobID, u, t, buf)
		last, clean := dels.release(p, o.Status == StatusSuccess)
		if o.Status != StatusSuccess {
			return o
		}
		if !last {
			return Outcome{Status: StatusSuccess, Output: p}
		}
		if !clean {
			return failed(fmt.Errorf("kept %s: another embed of it could not be restored", p))
		}

		s.stage(jobID, u.ref.Target, progress.StageDeleting)
		if err := s.store.Delete(p); err != nil {
			return failed(err)
		}
		s.logf(jobID, progress.StreamInfo, "deleted %s", p)
		return Outcome{Status: StatusSuccess, Output: p}
	}), nil
}

// restoreLink points the embed of u back at its TIFF.
func (s *Service) restoreLink(jobID string, u unit, t *turn, buf vault.TextBuffer) Outcome {
	orig, err := links.Original(u.ref.Raw)
	if err != nil {
		return failed(err)
	}
	s.stage(jobID, u.ref.Target, progress.StageRewriting)
	t.wait()
	if err := rewriteLine(buf, u.ref.Line, u.ref.Raw, orig); err != nil {
		return failed(err)
	}
	return Outcome{Status: StatusSuccess}
}

// Purge deletes every PNG copy of a TIFF in the vault, whether or not a
// note still embeds it. It asks once before deleting anything; a "no"
// yields a Declined report. Links are left as they are.
func (s *Service) Purge(ctx context.Context) (Report, error) {
	if err := s.ready(); err != nil {
		return Report{Op: OpPurge}, err
	}

	s.batch(progress.StageScanning, 0, "")
	all, err := s.store.ListAll()
	if err != nil {
		return Report{Op: OpPurge}, err
	}
	var targets []string
	for _, p := range all {
		if links.IsDerivativePath(p) {
			targets = append(targets, p)
		}
	}
	if len(targets) == 0 {
		rep := Report{Op: OpPurge, Empty: true}
		s.batch(progress.StageCompleted, 100, rep.Summary())
		return rep, nil
	}

	ok, err := s.confirm(ctx, fmt.Sprintf("Delete %d PNG copies of TIFF images from the vault? This cannot be undone.", len(targets)))
	if err != nil {
		return Report{Op: OpPurge}, fmt.Errorf("confirm purge: %w", err)
	}
	if !ok {
		rep := Report{Op: OpPurge, Declined: true}
		s.batch(progress.StageCompleted, 100, rep.Summary())
		return rep, nil
	}

	return s.settle(ctx, OpPurge, unitsFromPaths(targets), func(_ context.Context, jobID string, u unit, _ *turn) Outcome {
		s.stage(jobID, u.ref.Target, progress.StageDeleting)
		if err := s.store.Delete(u.ref.Target); err != nil {
			return failed(err)
		}
		return Outcome{Status: StatusSuccess, Output: u.ref.Target}
	}), nil
}
