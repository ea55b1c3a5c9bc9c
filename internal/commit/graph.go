// internal/commit/graph.go
package commit

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"twig/internal/content"
	"twig/internal/errors"
	"twig/internal/storage"
	"twig/shared/utils"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

const (
	indexPrefix = "commit"

	// MinPrefixLength is the shortest abbreviated id Resolve accepts.
	MinPrefixLength = 4
)

// Entry is the index record kept per commit for listing and lookup.
type Entry struct {
	ID           string    `json:"id"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
	Parent       string    `json:"parent,omitempty"`
	SecondParent string    `json:"second_parent,omitempty"`
}

func (e *Entry) GetID() string { return e.ID }

// Record pairs a loaded commit with its id.
type Record struct {
	ID string
	*Commit
}

// Graph stores commits as objects and resolves the DAG purely through
// parent-hash lookups.
type Graph struct {
	objects content.Store
	index   *storage.BadgerStore
	logger  *zap.Logger
}

func NewGraph(objects content.Store, db *badger.DB, logger *zap.Logger) *Graph {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Graph{
		objects: objects,
		index:   storage.NewBadgerStore(db, indexPrefix),
		logger:  logger,
	}
}

// Create persists c and returns its id. Re-creating an identical commit
// returns the same id.
func (g *Graph) Create(c *Commit) (string, error) {
	if strings.TrimSpace(c.Message) == "" {
		return "", errors.ErrEmptyMessage
	}
	if c.IsMerge() && c.IsRoot() {
		return "", fmt.Errorf("merge commit has no first parent")
	}

	data, err := c.Encode()
	if err != nil {
		return "", fmt.Errorf("encoding commit: %w", err)
	}

	id, err := g.objects.Put(data)
	if err != nil {
		return "", fmt.Errorf("storing commit: %w", err)
	}

	entry := &Entry{
		ID:           id,
		Message:      c.Message,
		Timestamp:    c.Timestamp,
		Parent:       c.Parent,
		SecondParent: c.SecondParent,
	}
	// Commits are immutable, so an existing index entry is already correct.
	if err := g.index.Create(entry); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return id, nil
		}
		return "", fmt.Errorf("indexing commit: %w", err)
	}

	g.logger.Debug("created commit",
		zap.String("id", id),
		zap.String("parent", c.Parent),
		zap.String("second_parent", c.SecondParent),
		zap.Int("files", len(c.Files)))

	return id, nil
}

func (g *Graph) Has(id string) (bool, error) {
	if !utils.IsHash(id) {
		return false, nil
	}
	return g.index.Has(id)
}

// Load returns the commit with the given full id.
func (g *Graph) Load(id string) (*Commit, error) {
	ok, err := g.Has(id)
	if err != nil {
		return nil, fmt.Errorf("checking commit index: %w", err)
	}
	if !ok {
		return nil, errors.ErrUnknownCommit
	}

	data, err := g.objects.Get(id)
	if err != nil {
		if errors.Is(err, content.ErrContentNotFound) {
			return nil, errors.Integrity(errors.CodeMissing,
				fmt.Sprintf("commit %s is indexed but has no object", id), err)
		}
		return nil, fmt.Errorf("reading commit %s: %w", id, err)
	}

	c, err := Decode(data)
	if err != nil {
		return nil, errors.Integrity(errors.CodeCorrupt,
			fmt.Sprintf("commit %s cannot be decoded", id), err)
	}
	return c, nil
}

// Resolve expands a full or abbreviated id. Ambiguous and unknown prefixes
// both fail with ErrUnknownCommit.
func (g *Graph) Resolve(prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if len(prefix) < MinPrefixLength || len(prefix) > utils.HashLength {
		return "", errors.ErrUnknownCommit
	}

	ids, err := g.index.IDs(prefix)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", prefix, err)
	}
	if len(ids) != 1 {
		return "", errors.ErrUnknownCommit
	}
	return ids[0], nil
}

// Ancestors returns id and every commit reachable from it through parent
// and second-parent links.
func (g *Graph) Ancestors(id string) (map[string]struct{}, error) {
	seen := make(map[string]struct{})
	stack := []string{id}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[current]; ok {
			continue
		}

		c, err := g.Load(current)
		if err != nil {
			return nil, fmt.Errorf("walking ancestors of %s: %w", id, err)
		}
		seen[current] = struct{}{}
		stack = append(stack, c.Parents()...)
	}

	return seen, nil
}

// SplitPoint finds the merge base of head and other: the first commit met
// walking breadth-first back from other that is an ancestor of head.
// When histories re-converge several times this need not be the lowest
// common ancestor.
func (g *Graph) SplitPoint(head, other string) (string, error) {
	ancestors, err := g.Ancestors(head)
	if err != nil {
		return "", err
	}

	visited := make(map[string]struct{})
	queue := []string{other}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if _, ok := visited[current]; ok {
			continue
		}
		visited[current] = struct{}{}

		if _, ok := ancestors[current]; ok {
			return current, nil
		}

		c, err := g.Load(current)
		if err != nil {
			return "", fmt.Errorf("walking back from %s: %w", other, err)
		}
		queue = append(queue, c.Parents()...)
	}

	return "", errors.Integrity(errors.CodeMissing,
		fmt.Sprintf("commits %s and %s share no ancestor", head, other), nil)
}

// History follows first parents from id back to the root.
func (g *Graph) History(id string) ([]Record, error) {
	var records []Record
	for current := id; current != ""; {
		c, err := g.Load(current)
		if err != nil {
			return nil, fmt.Errorf("loading history: %w", err)
		}
		records = append(records, Record{ID: current, Commit: c})
		if c.IsRoot() {
			break
		}
		current = c.Parent
	}
	return records, nil
}

// All lists every commit ever made, newest first.
func (g *Graph) All() ([]Entry, error) {
	var entries []Entry
	if err := g.index.List(&entries); err != nil {
		return nil, fmt.Errorf("listing commits: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

// FindByMessage returns the ids of every commit whose message equals message.
func (g *Graph) FindByMessage(message string) ([]string, error) {
	entries, err := g.All()
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, e := range entries {
		if e.Message == message {
			ids = append(ids, e.ID)
		}
	}
	if len(ids) == 0 {
		return nil, errors.ErrNoMatchingCommit
	}
	return ids, nil
}
