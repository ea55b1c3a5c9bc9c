// internal/repo/status.go
package repo

import (
	"sort"

	"twig/shared/utils"
)

type ModificationKind string

const (
	Modified ModificationKind = "modified"
	Deleted  ModificationKind = "deleted"
)

// Modification is a working-directory change not yet staged.
type Modification struct {
	Path string
	Kind ModificationKind
}

// Status is a view of the repository against the working directory. All
// lists are sorted.
type Status struct {
	Current   string
	Branches  []string
	Staged    []string
	Removed   []string
	Modified  []Modification
	Untracked []string
}

// Clean reports whether nothing is staged, modified or untracked.
func (st *Status) Clean() bool {
	return len(st.Staged) == 0 && len(st.Removed) == 0 &&
		len(st.Modified) == 0 && len(st.Untracked) == 0
}

func (r *Repository) Status() (*Status, error) {
	s, err := r.load()
	if err != nil {
		return nil, err
	}

	working, err := r.Dir.Snapshot()
	if err != nil {
		return nil, err
	}

	st := &Status{
		Current:  s.registry.Current,
		Branches: s.registry.Names(),
		Staged:   utils.SortedKeys(s.area.Added),
		Removed:  utils.SortedKeys(s.area.Removed),
	}

	// Tracked files: changed on disk without being restaged, or gone
	// without a staged removal. A file staged for removal is never a
	// modification; if it reappears it is untracked.
	for path, blob := range s.head.Files {
		if s.area.IsRemoved(path) {
			continue
		}
		current, present := working[path]
		switch {
		case present && current != blob && !s.area.IsAdded(path):
			st.Modified = append(st.Modified, Modification{Path: path, Kind: Modified})
		case !present && !s.area.IsAdded(path):
			st.Modified = append(st.Modified, Modification{Path: path, Kind: Deleted})
		}
	}

	// Staged files that changed or vanished after staging.
	for _, path := range st.Staged {
		blob, _ := s.area.StagedBlob(path)
		current, present := working[path]
		switch {
		case !present:
			st.Modified = append(st.Modified, Modification{Path: path, Kind: Deleted})
		case current != blob:
			st.Modified = append(st.Modified, Modification{Path: path, Kind: Modified})
		}
	}

	// Re-created files staged for removal count as untracked.
	for path := range working {
		if s.area.IsAdded(path) {
			continue
		}
		if !s.head.Tracks(path) || s.area.IsRemoved(path) {
			st.Untracked = append(st.Untracked, path)
		}
	}

	sort.Slice(st.Modified, func(i, j int) bool {
		return st.Modified[i].Path < st.Modified[j].Path
	})
	sort.Strings(st.Untracked)
	return st, nil
}
