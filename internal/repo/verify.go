// internal/repo/verify.go
package repo

import (
	"fmt"

	"twig/internal/errors"

	"go.uber.org/zap"
)

// VerifyReport summarises a full integrity check.
type VerifyReport struct {
	Objects  int
	Commits  int
	Problems []error
}

func (v *VerifyReport) OK() bool {
	return len(v.Problems) == 0
}

// Verify re-hashes every stored object and walks every commit reachable from
// a branch, checking that each blob it names is stored. Integrity failures
// are collected in the report; only unexpected errors are returned.
func (r *Repository) Verify() (*VerifyReport, error) {
	s, err := r.load()
	if err != nil {
		return nil, err
	}

	report := &VerifyReport{}
	record := func(err error) error {
		if !errors.IsIntegrity(err) {
			return err
		}
		r.logger.Warn("integrity problem", zap.Error(err))
		report.Problems = append(report.Problems, err)
		return nil
	}

	hashes, err := r.objects.List()
	if err != nil {
		return nil, err
	}
	for _, hash := range hashes {
		report.Objects++
		if err := r.objects.Verify(hash); err != nil {
			if err := record(err); err != nil {
				return nil, err
			}
		}
	}

	reachable := make(map[string]struct{})
	for _, name := range s.registry.Names() {
		tip, err := s.registry.Tip(name)
		if err != nil {
			return nil, err
		}
		ancestors, err := r.graph.Ancestors(tip)
		if err != nil {
			if err := record(err); err != nil {
				return nil, fmt.Errorf("branch %s: %w", name, err)
			}
			continue
		}
		for id := range ancestors {
			reachable[id] = struct{}{}
		}
	}

	for id := range reachable {
		report.Commits++
		c, err := r.graph.Load(id)
		if err != nil {
			if err := record(err); err != nil {
				return nil, err
			}
			continue
		}
		for path, blob := range c.Files {
			ok, err := r.objects.Has(blob)
			if err != nil {
				return nil, err
			}
			if !ok {
				record(errors.Integrity(errors.CodeMissing,
					fmt.Sprintf("commit %s: %s references missing object %s", id, path, blob), nil))
			}
		}
	}

	return report, nil
}
