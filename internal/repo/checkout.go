// internal/repo/checkout.go
package repo

import (
	"twig/internal/commit"
	"twig/internal/errors"

	"go.uber.org/zap"
)

// untracked reports whether path is a working file the head commit does not
// track. A tracked file staged for removal and then re-created counts too.
func (r *Repository) untracked(s *state, path string) bool {
	if !r.Dir.Exists(path) {
		return false
	}
	return !s.head.Tracks(path) || s.area.IsRemoved(path)
}

// checkUntracked fails if writing or deleting paths would clobber an
// untracked working file.
func (r *Repository) checkUntracked(s *state, paths []string) error {
	for _, path := range paths {
		if r.untracked(s, path) {
			r.logger.Debug("untracked file in the way", zap.String("path", path))
			return errors.ErrUntrackedFile
		}
	}
	return nil
}

// overwrite replaces the working copies of the head commit's files with
// target's, removing files only the head tracks, and clears the stage.
func (r *Repository) overwrite(s *state, target *commit.Commit) error {
	touched := make([]string, 0, len(target.Files))
	for path := range target.Files {
		touched = append(touched, path)
	}
	for path := range s.head.Files {
		if !target.Tracks(path) {
			touched = append(touched, path)
		}
	}
	if err := r.checkUntracked(s, touched); err != nil {
		return err
	}

	for path, blob := range target.Files {
		data, err := r.blob(blob)
		if err != nil {
			return err
		}
		if err := r.Dir.Write(path, data); err != nil {
			return err
		}
	}
	for path := range s.head.Files {
		if !target.Tracks(path) {
			if err := r.Dir.Remove(path); err != nil {
				return err
			}
		}
	}

	s.area.Clear()
	return nil
}

// CheckoutBranch makes name the current branch and syncs the working
// directory to its tip.
func (r *Repository) CheckoutBranch(name string) error {
	s, err := r.load()
	if err != nil {
		return err
	}

	tip, err := s.registry.Tip(name)
	if err != nil {
		return errors.ErrNoSuchBranch
	}
	if name == s.registry.Current {
		return errors.ErrAlreadyCurrent
	}

	target, err := r.graph.Load(tip)
	if err != nil {
		return err
	}
	if err := r.overwrite(s, target); err != nil {
		return err
	}
	if err := s.registry.SwitchTo(name); err != nil {
		return err
	}

	r.logger.Debug("checked out branch", zap.String("branch", name), zap.String("commit", tip))
	return r.save(s)
}

// CheckoutFile restores one file from a commit. ref may be "HEAD", a full
// id or an abbreviated id. The staging area is left alone.
func (r *Repository) CheckoutFile(ref, name string) error {
	s, err := r.load()
	if err != nil {
		return err
	}

	id, err := r.resolve(s, ref)
	if err != nil {
		return err
	}
	c, err := r.graph.Load(id)
	if err != nil {
		return err
	}

	blob, ok := c.Blob(name)
	if !ok {
		return errors.ErrFileNotInCommit
	}
	data, err := r.blob(blob)
	if err != nil {
		return err
	}

	r.logger.Debug("checked out file", zap.String("path", name), zap.String("commit", id))
	return r.Dir.Write(name, data)
}

// Reset moves the current branch to the given commit and syncs the working
// directory to it.
func (r *Repository) Reset(ref string) error {
	s, err := r.load()
	if err != nil {
		return err
	}

	id, err := r.graph.Resolve(ref)
	if err != nil {
		return err
	}
	target, err := r.graph.Load(id)
	if err != nil {
		return err
	}

	if err := r.overwrite(s, target); err != nil {
		return err
	}
	if err := s.registry.Advance(s.registry.Current, id); err != nil {
		return err
	}

	r.logger.Debug("reset branch",
		zap.String("branch", s.registry.Current),
		zap.String("from", s.headID),
		zap.String("to", id))
	return r.save(s)
}

// Branch creates name at the current head without switching to it.
func (r *Repository) Branch(name string) error {
	s, err := r.load()
	if err != nil {
		return err
	}
	if err := s.registry.Create(name, s.headID); err != nil {
		return err
	}
	return r.save(s)
}

// RemoveBranch deletes the pointer only. Commits stay in the graph.
func (r *Repository) RemoveBranch(name string) error {
	s, err := r.load()
	if err != nil {
		return err
	}
	if err := s.registry.Remove(name); err != nil {
		return err
	}
	return r.save(s)
}
