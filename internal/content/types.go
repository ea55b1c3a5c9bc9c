package content

// Store is the contract the commit graph and engine need from the object store.
type Store interface {
	// Put writes content under its hash if absent and returns the hash.
	Put(content []byte) (string, error)
	// Get returns the content for hash.
	Get(hash string) ([]byte, error)
	Has(hash string) (bool, error)
}
