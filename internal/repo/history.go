// internal/repo/history.go
package repo

import (
	"twig/internal/commit"
)

// Log lists the current branch's first-parent history, newest first.
func (r *Repository) Log() ([]commit.Entry, error) {
	s, err := r.load()
	if err != nil {
		return nil, err
	}

	records, err := r.graph.History(s.headID)
	if err != nil {
		return nil, err
	}

	entries := make([]commit.Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, commit.Entry{
			ID:           rec.ID,
			Message:      rec.Message,
			Timestamp:    rec.Timestamp,
			Parent:       rec.Parent,
			SecondParent: rec.SecondParent,
		})
	}
	return entries, nil
}

// GlobalLog lists every commit ever made, newest first.
func (r *Repository) GlobalLog() ([]commit.Entry, error) {
	return r.graph.All()
}

// Find returns the ids of all commits with exactly this message.
func (r *Repository) Find(message string) ([]string, error) {
	return r.graph.FindByMessage(message)
}

// Head returns the current branch and its tip.
func (r *Repository) Head() (string, string, error) {
	s, err := r.load()
	if err != nil {
		return "", "", err
	}
	return s.registry.Current, s.headID, nil
}
