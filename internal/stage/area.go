// internal/stage/area.go
package stage

// Area is the pending delta against the head commit. A path is in at most
// one of Added and Removed.
type Area struct {
	Added   map[string]string `json:"added"`   // path -> blob hash
	Removed map[string]string `json:"removed"` // path -> blob hash at removal
}

func New() *Area {
	return &Area{
		Added:   map[string]string{},
		Removed: map[string]string{},
	}
}

// StageAdd queues path for addition and cancels any pending removal.
func (a *Area) StageAdd(path, blob string) {
	delete(a.Removed, path)
	a.Added[path] = blob
}

// StageRemove queues path for removal and cancels any pending addition.
func (a *Area) StageRemove(path, blob string) {
	delete(a.Added, path)
	a.Removed[path] = blob
}

func (a *Area) CancelAdd(path string) {
	delete(a.Added, path)
}

func (a *Area) CancelRemove(path string) {
	delete(a.Removed, path)
}

// Clear empties both mappings.
func (a *Area) Clear() {
	a.Added = map[string]string{}
	a.Removed = map[string]string{}
}

func (a *Area) IsEmpty() bool {
	return len(a.Added) == 0 && len(a.Removed) == 0
}

func (a *Area) StagedBlob(path string) (string, bool) {
	blob, ok := a.Added[path]
	return blob, ok
}

func (a *Area) IsAdded(path string) bool {
	_, ok := a.Added[path]
	return ok
}

func (a *Area) IsRemoved(path string) bool {
	_, ok := a.Removed[path]
	return ok
}

// Apply returns files with staged additions applied and staged removals
// deleted. files is not modified.
func (a *Area) Apply(files map[string]string) map[string]string {
	out := make(map[string]string, len(files)+len(a.Added))
	for path, blob := range files {
		out[path] = blob
	}
	for path, blob := range a.Added {
		out[path] = blob
	}
	for path := range a.Removed {
		delete(out, path)
	}
	return out
}
