// internal/commit/types.go
package commit

import (
	"encoding/json"
	"time"
)

// RootMessage is the message of the origin commit every repository shares.
const RootMessage = "initial commit"

// Commit is an immutable snapshot. Its identity is the hash of Encode().
type Commit struct {
	Message      string            `json:"message"`
	Timestamp    time.Time         `json:"timestamp"`
	Parent       string            `json:"parent,omitempty"`
	SecondParent string            `json:"second_parent,omitempty"`
	Files        map[string]string `json:"files"` // path -> blob hash
}

// New builds a commit owning a private copy of files.
func New(message string, ts time.Time, parent, secondParent string, files map[string]string) *Commit {
	c := &Commit{
		Message:      message,
		Timestamp:    ts.UTC(),
		Parent:       parent,
		SecondParent: secondParent,
		Files:        make(map[string]string, len(files)),
	}
	for path, blob := range files {
		c.Files[path] = blob
	}
	return c
}

// Root returns the origin commit: epoch timestamp, no parent, no files.
func Root() *Commit {
	return New(RootMessage, time.Unix(0, 0), "", "", nil)
}

// Encode serialises the commit canonically. encoding/json sorts map keys, so
// equal commits always encode to equal bytes.
func (c *Commit) Encode() ([]byte, error) {
	out := *c
	if out.Files == nil {
		out.Files = map[string]string{}
	}
	out.Timestamp = out.Timestamp.UTC()
	return json.Marshal(&out)
}

func Decode(data []byte) (*Commit, error) {
	var c Commit
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c.Files == nil {
		c.Files = map[string]string{}
	}
	return &c, nil
}

// Blob returns the blob hash tracked for path.
func (c *Commit) Blob(path string) (string, bool) {
	blob, ok := c.Files[path]
	return blob, ok
}

func (c *Commit) Tracks(path string) bool {
	_, ok := c.Files[path]
	return ok
}

func (c *Commit) IsMerge() bool {
	return c.SecondParent != ""
}

func (c *Commit) IsRoot() bool {
	return c.Parent == ""
}

// Parents returns the non-empty parent hashes, first parent first.
func (c *Commit) Parents() []string {
	var parents []string
	if c.Parent != "" {
		parents = append(parents, c.Parent)
	}
	if c.SecondParent != "" {
		parents = append(parents, c.SecondParent)
	}
	return parents
}
