// internal/merge/merge.go
package merge

import (
	"bytes"
	"sort"
)

type Action int

const (
	// Keep leaves the head version (or its absence) as it is.
	Keep Action = iota
	// TakeOther checks out and stages the other branch's version.
	TakeOther
	// Remove deletes the file and stages the removal.
	Remove
	// Conflict writes a conflict-marked file and stages it.
	Conflict
)

func (a Action) String() string {
	switch a {
	case Keep:
		return "keep"
	case TakeOther:
		return "take-other"
	case Remove:
		return "remove"
	case Conflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Decision is the outcome for one path. Blob fields are empty where the
// side does not track the path.
type Decision struct {
	Path   string
	Action Action
	Split  string
	Head   string
	Other  string
}

// Reconcile decides every path tracked by any of split, head and other,
// comparing blob hashes. Decisions come back sorted by path.
func Reconcile(split, head, other map[string]string) []Decision {
	paths := make(map[string]struct{}, len(head))
	for _, files := range []map[string]string{split, head, other} {
		for path := range files {
			paths[path] = struct{}{}
		}
	}

	decisions := make([]Decision, 0, len(paths))
	for path := range paths {
		d := Decision{
			Path:  path,
			Split: split[path],
			Head:  head[path],
			Other: other[path],
		}
		d.Action = decide(d.Split, d.Head, d.Other)
		decisions = append(decisions, d)
	}

	sort.Slice(decisions, func(i, j int) bool {
		return decisions[i].Path < decisions[j].Path
	})
	return decisions
}

func decide(s, h, o string) Action {
	switch {
	case h == o:
		return Keep
	case h == s && o == "":
		return Remove
	case h == s:
		return TakeOther
	case o == s:
		return Keep
	default:
		return Conflict
	}
}

// Conflicts returns the paths in decisions that conflict.
func Conflicts(decisions []Decision) []string {
	var paths []string
	for _, d := range decisions {
		if d.Action == Conflict {
			paths = append(paths, d.Path)
		}
	}
	return paths
}

// ConflictContent frames both sides with conflict markers. A nil side
// stands for a file the branch does not track.
func ConflictContent(head, other []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("<<<<<<< HEAD\n")
	buf.Write(head)
	buf.WriteString("=======\n")
	buf.Write(other)
	buf.WriteString(">>>>>>>\n")
	return buf.Bytes()
}
