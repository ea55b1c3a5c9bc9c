// internal/repo/staging.go
package repo

import (
	"fmt"
	"strings"

	"twig/internal/commit"
	"twig/internal/errors"
	"twig/shared/utils"

	"go.uber.org/zap"
)

// Add stages the working copy of name for the next commit. A file that
// matches the head version is unstaged instead.
func (r *Repository) Add(name string) error {
	if !r.Dir.Exists(name) {
		return errors.ErrFileNotFound
	}

	s, err := r.load()
	if err != nil {
		return err
	}

	data, err := r.Dir.Read(name)
	if err != nil {
		return err
	}
	hash := utils.HashContent(data)

	s.area.CancelRemove(name)
	if tracked, ok := s.head.Blob(name); ok && tracked == hash {
		s.area.CancelAdd(name)
		r.logger.Debug("file matches head, nothing staged", zap.String("path", name))
		return r.save(s)
	}

	if _, err := r.objects.Put(data); err != nil {
		return fmt.Errorf("storing %s: %w", name, err)
	}
	s.area.StageAdd(name, hash)
	r.logger.Debug("staged file", zap.String("path", name), zap.String("blob", hash))

	return r.save(s)
}

// Commit snapshots the head mapping plus staged changes and advances the
// current branch to the new commit.
func (r *Repository) Commit(message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", errors.ErrEmptyMessage
	}

	s, err := r.load()
	if err != nil {
		return "", err
	}
	if s.area.IsEmpty() {
		return "", errors.ErrNothingToCommit
	}

	return r.commit(s, message, "")
}

// commit records the staged snapshot with headID as first parent, then
// clears the stage and saves.
func (r *Repository) commit(s *state, message, secondParent string) (string, error) {
	files := s.area.Apply(s.head.Files)
	c := commit.New(message, r.now(), s.headID, secondParent, files)

	id, err := r.graph.Create(c)
	if err != nil {
		return "", err
	}
	if err := s.registry.Advance(s.registry.Current, id); err != nil {
		return "", err
	}
	s.area.Clear()

	if err := r.save(s); err != nil {
		return "", err
	}

	r.logger.Debug("advanced branch",
		zap.String("branch", s.registry.Current),
		zap.String("from", s.headID),
		zap.String("to", id))
	s.headID, s.head = id, c
	return id, nil
}

// Remove unstages name and, if the head commit tracks it, stages its removal
// and deletes it from the working directory.
func (r *Repository) Remove(name string) error {
	s, err := r.load()
	if err != nil {
		return err
	}

	staged := s.area.IsAdded(name)
	blob, tracked := s.head.Blob(name)
	if !staged && !tracked {
		return errors.ErrNothingToRemove
	}

	s.area.CancelAdd(name)
	if tracked {
		s.area.StageRemove(name, blob)
		if err := r.Dir.Remove(name); err != nil {
			return err
		}
	}

	r.logger.Debug("removed file", zap.String("path", name), zap.Bool("tracked", tracked))
	return r.save(s)
}
