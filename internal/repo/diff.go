// internal/repo/diff.go
package repo

import (
	"sort"

	"twig/internal/diff"
	"twig/internal/errors"
)

// diffContext is the number of unchanged lines shown around each change.
const diffContext = 3

// FileDiff is the difference between the head version of a file and its
// working copy. A missing side diffs as empty.
type FileDiff struct {
	Path    string
	Added   bool // not in the head commit
	Deleted bool // not in the working directory
	Result  *diff.DiffResult
}

// Diff compares working files with the head commit. With no names it covers
// every file the head tracks or the stage adds; unchanged files are omitted.
func (r *Repository) Diff(names ...string) ([]FileDiff, error) {
	s, err := r.load()
	if err != nil {
		return nil, err
	}

	if len(names) == 0 {
		seen := make(map[string]struct{})
		for path := range s.head.Files {
			seen[path] = struct{}{}
		}
		for path := range s.area.Added {
			seen[path] = struct{}{}
		}
		for path := range seen {
			names = append(names, path)
		}
		sort.Strings(names)
	}

	engine := diff.NewEngine(diffContext)
	var diffs []FileDiff
	for _, name := range names {
		blob, tracked := s.head.Blob(name)
		present := r.Dir.Exists(name)
		if !tracked && !present {
			return nil, errors.ErrFileNotFound
		}

		var old, current []byte
		if tracked {
			if old, err = r.blob(blob); err != nil {
				return nil, err
			}
		}
		if present {
			if current, err = r.Dir.Read(name); err != nil {
				return nil, err
			}
		}

		result, err := engine.Diff(old, current)
		if err != nil {
			return nil, err
		}
		if result.Empty() && tracked == present {
			continue
		}
		diffs = append(diffs, FileDiff{
			Path:    name,
			Added:   !tracked,
			Deleted: !present,
			Result:  result,
		})
	}
	return diffs, nil
}
