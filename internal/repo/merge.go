// internal/repo/merge.go
package repo

import (
	"fmt"

	"twig/internal/errors"
	"twig/internal/merge"

	"go.uber.org/zap"
)

type MergeOutcome int

const (
	// AlreadyMerged means the given branch is an ancestor of HEAD.
	AlreadyMerged MergeOutcome = iota
	FastForwarded
	Merged
)

func (o MergeOutcome) String() string {
	switch o {
	case AlreadyMerged:
		return "already-merged"
	case FastForwarded:
		return "fast-forward"
	default:
		return "merged"
	}
}

type MergeResult struct {
	Outcome   MergeOutcome
	Split     string
	Commit    string   // merge commit id, or the new tip after a fast-forward
	Conflicts []string // paths written with conflict markers
}

// MergeMessage is the message of the commit recording a merge.
func MergeMessage(given, current string) string {
	return fmt.Sprintf("Merged %s into %s.", given, current)
}

// Merge folds branch name into the current branch. Conflicts do not stop
// the merge: they are written to the working directory, committed and
// reported in the result.
func (r *Repository) Merge(name string) (*MergeResult, error) {
	s, err := r.load()
	if err != nil {
		return nil, err
	}

	if !s.area.IsEmpty() {
		return nil, errors.ErrUncommittedChanges
	}
	if name == s.registry.Current {
		return nil, errors.ErrSelfMerge
	}
	otherID, err := s.registry.Tip(name)
	if err != nil {
		return nil, err
	}

	split, err := r.graph.SplitPoint(s.headID, otherID)
	if err != nil {
		return nil, err
	}
	log := r.logger.With(
		zap.String("branch", name),
		zap.String("head", s.headID),
		zap.String("other", otherID),
		zap.String("split", split))

	if split == otherID {
		log.Debug("nothing to merge")
		return &MergeResult{Outcome: AlreadyMerged, Split: split, Commit: s.headID}, nil
	}

	other, err := r.graph.Load(otherID)
	if err != nil {
		return nil, err
	}

	if split == s.headID {
		if err := r.overwrite(s, other); err != nil {
			return nil, err
		}
		if err := s.registry.Advance(s.registry.Current, otherID); err != nil {
			return nil, err
		}
		if err := r.save(s); err != nil {
			return nil, err
		}
		log.Debug("fast-forwarded")
		return &MergeResult{Outcome: FastForwarded, Split: split, Commit: otherID}, nil
	}

	base, err := r.graph.Load(split)
	if err != nil {
		return nil, err
	}

	decisions := merge.Reconcile(base.Files, s.head.Files, other.Files)

	var written []string
	for _, d := range decisions {
		if d.Action == merge.TakeOther || d.Action == merge.Conflict {
			written = append(written, d.Path)
		}
	}
	if err := r.checkUntracked(s, written); err != nil {
		return nil, err
	}

	for _, d := range decisions {
		if err := r.apply(s, d); err != nil {
			return nil, err
		}
	}
	result := &MergeResult{Outcome: Merged, Split: split, Conflicts: merge.Conflicts(decisions)}

	id, err := r.commit(s, MergeMessage(name, s.registry.Current), otherID)
	if err != nil {
		return nil, err
	}
	result.Commit = id

	log.Debug("merged", zap.String("commit", id), zap.Int("conflicts", len(result.Conflicts)))
	return result, nil
}

// apply carries out one reconciliation decision on the working directory
// and the staging area.
func (r *Repository) apply(s *state, d merge.Decision) error {
	switch d.Action {
	case merge.TakeOther:
		data, err := r.blob(d.Other)
		if err != nil {
			return err
		}
		if err := r.Dir.Write(d.Path, data); err != nil {
			return err
		}
		s.area.StageAdd(d.Path, d.Other)

	case merge.Remove:
		if err := r.Dir.Remove(d.Path); err != nil {
			return err
		}
		s.area.StageRemove(d.Path, d.Head)

	case merge.Conflict:
		var head, other []byte
		var err error
		if d.Head != "" {
			if head, err = r.blob(d.Head); err != nil {
				return err
			}
		}
		if d.Other != "" {
			if other, err = r.blob(d.Other); err != nil {
				return err
			}
		}

		data := merge.ConflictContent(head, other)
		hash, err := r.objects.Put(data)
		if err != nil {
			return fmt.Errorf("storing conflict for %s: %w", d.Path, err)
		}
		if err := r.Dir.Write(d.Path, data); err != nil {
			return err
		}
		s.area.StageAdd(d.Path, hash)
		r.logger.Debug("conflict", zap.String("path", d.Path))
	}
	return nil
}
