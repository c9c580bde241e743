package pipeline

import (
	"context"
	"fmt"

	"tifpng/internal/links"
	"tifpng/internal/progress"
)

// CopyFiles writes a PNG copy next to each of the given stored TIFF files.
// Paths are vault-relative; no note is edited.
func (s *Service) CopyFiles(ctx context.Context, paths []string) (Report, error) {
	if err := s.ready(); err != nil {
		return Report{Op: OpCopy}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{Op: OpCopy}, err
	}
	if len(paths) == 0 {
		return Report{Op: OpCopy, Empty: true}, nil
	}

	writes := newWriteOnce()
	return s.settle(ctx, OpCopy, unitsFromPaths(paths), func(ctx context.Context, jobID string, u unit, _ *turn) Outcome {
		if !links.IsSourcePath(u.ref.Target) {
			return failed(fmt.Errorf("%s is not a TIFF file", u.ref.Target))
		}
		s.stage(jobID, u.ref.Target, progress.StageResolving)
		f, err := s.resolver.ResolveExact(u.ref.Target)
		if err != nil {
			return failed(err)
		}
		return s.convertFile(ctx, jobID, u.ref.Target, f, writes)
	}), nil
}

// ConvertFile is CopyFiles for a single file.
func (s *Service) ConvertFile(ctx context.Context, path string) (Report, error) {
	return s.CopyFiles(ctx, []string{path})
}
