package pipeline

import (
	"context"
	"errors"
	"fmt"

	"tifpng/internal/links"
	"tifpng/internal/progress"
	"tifpng/internal/raster"
	"tifpng/internal/vault"
)

// Convert converts every TIFF embed of buf to PNG. For each reference it
// resolves the image, decodes it, writes "<image>.png" next to it and
// rewrites the embed to point at the copy. notePath is the vault-relative
// path of the note and anchors relative embeds.
//
// The returned error is non-nil only when no run took place.
func (s *Service) Convert(ctx context.Context, buf vault.TextBuffer, notePath string) (Report, error) {
	if buf == nil {
		return Report{Op: OpConvert}, ErrNoDocument
	}
	if err := s.ready(); err != nil {
		return Report{Op: OpConvert}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{Op: OpConvert}, err
	}

	s.batch(progress.StageScanning, 0, "")
	refs := links.ScanSources(buf.Value())
	if len(refs) == 0 {
		rep := Report{Op: OpConvert, Empty: true}
		s.batch(progress.StageCompleted, 100, rep.Summary())
		return rep, nil
	}

	writes := newWriteOnce()
	return s.settle(ctx, OpConvert, unitsFromRefs(refs), func(ctx context.Context, jobID string, u unit, t *turn) Outcome {
		s.stage(jobID, u.ref.Target, progress.StageResolving)
		f, err := s.resolver.Resolve(u.ref.Target, notePath)
		if err != nil {
			return failed(err)
		}
		s.logf(jobID, progress.StreamInfo, "%s resolved to %s", u.ref.Target, f.Path())

		o := s.convertFile(ctx, jobID, u.ref.Target, f, writes)
		if o.Status != StatusSuccess {
			return o
		}

		repl, err := links.Derivative(u.ref.Raw)
		if err != nil {
			return failed(err)
		}
		s.stage(jobID, u.ref.Target, progress.StageRewriting)
		t.wait()
		if err := rewriteLine(buf, u.ref.Line, u.ref.Raw, repl); err != nil {
			return failed(err)
		}
		return o
	}), nil
}

// convertFile turns one stored TIFF into its PNG copy. It does not touch
// any note. Tasks sharing w convert each destination once and all report
// the first task's outcome, so a copy written earlier in the run is never
// mistaken for an existing file.
func (s *Service) convertFile(ctx context.Context, jobID, target string, f vault.File, w *writeOnce) Outcome {
	dst := links.DerivativePath(f.Path())
	first := false
	o := w.do(dst, func() Outcome {
		first = true
		return s.encodeFile(ctx, jobID, target, f, dst)
	})
	if !first {
		s.logf(jobID, progress.StreamInfo, "%s shared with an earlier embed", dst)
	}
	return o
}

func (s *Service) encodeFile(ctx context.Context, jobID, target string, f vault.File, dst string) Outcome {
	data, err := s.store.ReadBinary(f.Path())
	if err != nil {
		return failed(err)
	}

	s.stage(jobID, target, progress.StageDecoding)
	img, err := raster.Decode(data)
	if err != nil {
		return failed(err)
	}
	s.logf(jobID, progress.StreamInfo, "decoded %dx%d", img.Width, img.Height)

	s.stage(jobID, target, progress.StageEncoding)
	out, err := raster.Encode(img)
	if err != nil {
		return failed(err)
	}

	s.stage(jobID, target, progress.StageWriting)
	if err := s.writeDerivative(ctx, jobID, dst, out); err != nil {
		if errors.Is(err, ErrWriteConflict) {
			return Outcome{Status: StatusWriteConflict, Output: dst, Err: err}
		}
		return failed(err)
	}
	return Outcome{Status: StatusSuccess, Output: dst, Bytes: int64(len(out))}
}

// writeDerivative stores data at dst. An existing file is replaced unless
// ConfirmOverwrite is set and the user says no.
func (s *Service) writeDerivative(ctx context.Context, jobID, dst string, data []byte) error {
	if s.opts.ConfirmOverwrite {
		exists, err := s.store.Exists(dst)
		if err != nil {
			return err
		}
		if exists {
			ok, err := s.confirm(ctx, fmt.Sprintf("%s already exists. Overwrite it?", dst))
			if err != nil {
				return fmt.Errorf("confirm overwrite: %w", err)
			}
			if !ok {
				s.logf(jobID, progress.StreamWarn, "kept existing %s", dst)
				return fmt.Errorf("%w: %s", ErrWriteConflict, dst)
			}
		}
	}
	return s.store.WriteBinary(dst, data)
}

// rewriteLine replaces the first occurrence of old on line i. The line is
// read fresh so edits made by earlier tasks are kept.
func rewriteLine(buf vault.TextBuffer, i int, old, repl string) error {
	line, err := buf.Line(i)
	if err != nil {
		return err
	}
	next, ok := links.Rewrite(line, old, repl)
	if !ok {
		return fmt.Errorf("line %d no longer contains %s", i+1, old)
	}
	return buf.SetLine(i, next)
}
