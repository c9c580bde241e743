package pipeline

import (
	"tifpng/internal/links"
	"tifpng/internal/vault"
)

// PlanItem describes what Convert would do with one reference.
type PlanItem struct {
	Ref        links.Reference
	Source     string // resolved stored file, empty when unresolved
	Derivative string // PNG copy that would be written
	Exists     bool   // Derivative is already stored
	Err        error  // resolution failure
}

// Plan resolves every TIFF embed of buf without converting anything.
func (s *Service) Plan(buf vault.TextBuffer, notePath string) ([]PlanItem, error) {
	if buf == nil {
		return nil, ErrNoDocument
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	refs := links.ScanSources(buf.Value())
	items := make([]PlanItem, 0, len(refs))
	for _, r := range refs {
		it := PlanItem{Ref: r}
		f, err := s.resolver.Resolve(r.Target, notePath)
		if err != nil {
			it.Err = err
			items = append(items, it)
			continue
		}
		it.Source = f.Path()
		it.Derivative = links.DerivativePath(f.Path())
		if it.Exists, err = s.store.Exists(it.Derivative); err != nil {
			it.Err = err
		}
		items = append(items, it)
	}
	return items, nil
}
