// internal/branch/registry.go
package branch

import (
	"sort"

	"twig/internal/errors"
)

// Registry maps branch names to tip commits and names the checked-out
// branch. HEAD is always Branches[Current].
type Registry struct {
	Branches map[string]string `json:"branches"`
	Current  string            `json:"current"`
}

// New returns a registry with a single branch pointing at tip.
func New(name, tip string) *Registry {
	return &Registry{
		Branches: map[string]string{name: tip},
		Current:  name,
	}
}

func (r *Registry) Has(name string) bool {
	_, ok := r.Branches[name]
	return ok
}

func (r *Registry) Tip(name string) (string, error) {
	tip, ok := r.Branches[name]
	if !ok {
		return "", errors.ErrUnknownBranch
	}
	return tip, nil
}

// Head returns the tip of the current branch.
func (r *Registry) Head() string {
	return r.Branches[r.Current]
}

// Advance moves an existing branch to tip.
func (r *Registry) Advance(name, tip string) error {
	if !r.Has(name) {
		return errors.ErrUnknownBranch
	}
	r.Branches[name] = tip
	return nil
}

func (r *Registry) Create(name, tip string) error {
	if r.Has(name) {
		return errors.ErrAlreadyExists
	}
	r.Branches[name] = tip
	return nil
}

func (r *Registry) Remove(name string) error {
	if !r.Has(name) {
		return errors.ErrUnknownBranch
	}
	if name == r.Current {
		return errors.ErrCurrentBranch
	}
	delete(r.Branches, name)
	return nil
}

// SwitchTo changes the active branch. The working directory is untouched.
func (r *Registry) SwitchTo(name string) error {
	if !r.Has(name) {
		return errors.ErrNoSuchBranch
	}
	r.Current = name
	return nil
}

// Names returns every branch name in lexicographic order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Branches))
	for name := range r.Branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
