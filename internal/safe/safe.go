// internal/safe/safe.go
package safe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"twig/internal/content"
	twigerrors "twig/internal/errors"
	"twig/internal/storage"
	"twig/shared/utils"

	"github.com/dgraph-io/badger/v4"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

var (
	ErrContentNotFound = content.ErrContentNotFound
	ErrInvalidHash     = errors.New("invalid content hash")
)

var _ content.Store = (*Safe)(nil)

const metaPrefix = "object"

// ContentMeta stores metadata about stored content
type ContentMeta struct {
	Hash       string    `json:"hash"`
	Size       int64     `json:"size"`
	Compressed bool      `json:"compressed"`
	CreatedAt  time.Time `json:"created_at"`
}

func (m *ContentMeta) GetID() string { return m.Hash }

// Safe is the write-once, content-addressed object store. Objects are never
// deleted.
type Safe struct {
	root   string
	meta   *storage.BadgerStore
	cache  *lru.Cache[string, []byte]
	cm     *compressionManager
	logger *zap.Logger
}

// Options configures Safe behavior
type Options struct {
	Root        string // Root directory path
	CacheSize   int    // Number of items to cache
	Compression CompressionOptions
	Logger      *zap.Logger
}

// New creates a new Safe instance
func New(db *badger.DB, opts Options) (*Safe, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("root directory is required")
	}
	if err := os.MkdirAll(opts.Root, 0755); err != nil {
		return nil, fmt.Errorf("creating root directory: %w", err)
	}

	if opts.CacheSize <= 0 {
		opts.CacheSize = 1000
	}
	cache, err := lru.New[string, []byte](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	if opts.Compression.Level == 0 {
		opts.Compression = DefaultCompressionOptions()
	}
	cm, err := newCompressionManager(opts.Compression)
	if err != nil {
		return nil, fmt.Errorf("creating compression manager: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Safe{
		root:   opts.Root,
		meta:   storage.NewBadgerStore(db, metaPrefix),
		cache:  cache,
		cm:     cm,
		logger: logger,
	}, nil
}

// Put stores content under its hash. Storing content that is already present
// is a no-op.
func (s *Safe) Put(data []byte) (string, error) {
	if data == nil {
		data = []byte{}
	}
	hash := utils.HashContent(data)

	exists, err := s.Has(hash)
	if err != nil {
		return "", fmt.Errorf("checking existence: %w", err)
	}
	if exists {
		return hash, nil
	}

	stored, compressed, err := s.cm.compress(data)
	if err != nil {
		return "", fmt.Errorf("compressing content: %w", err)
	}

	contentPath := s.contentPath(hash)
	if err := os.MkdirAll(filepath.Dir(contentPath), 0755); err != nil {
		return "", fmt.Errorf("creating content directory: %w", err)
	}
	if err := utils.SafeWrite(contentPath, stored, 0644); err != nil {
		return "", fmt.Errorf("writing content file: %w", err)
	}

	meta := &ContentMeta{
		Hash:       hash,
		Size:       int64(len(data)),
		Compressed: compressed,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.meta.Put(meta); err != nil {
		return "", fmt.Errorf("storing metadata: %w", err)
	}

	s.cache.Add(hash, append([]byte{}, data...))
	s.logger.Debug("stored object",
		zap.String("hash", hash),
		zap.Int64("size", meta.Size),
		zap.Bool("compressed", compressed))

	return hash, nil
}

// Get retrieves content by hash
func (s *Safe) Get(hash string) ([]byte, error) {
	if !utils.IsHash(hash) {
		return nil, ErrInvalidHash
	}

	// The cache owns its slices; callers get copies.
	if data, ok := s.cache.Get(hash); ok {
		return append([]byte{}, data...), nil
	}

	var meta ContentMeta
	if err := s.meta.Get(hash, &meta); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("getting metadata: %w", err)
	}

	data, err := os.ReadFile(s.contentPath(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, twigerrors.Integrity(twigerrors.CodeMissing,
				fmt.Sprintf("object %s is indexed but missing on disk", hash), err)
		}
		return nil, fmt.Errorf("reading content: %w", err)
	}

	if meta.Compressed {
		data, err = s.cm.decompress(data)
		if err != nil {
			return nil, twigerrors.Integrity(twigerrors.CodeCorrupt,
				fmt.Sprintf("object %s cannot be decompressed", hash), err)
		}
	}

	if utils.HashContent(data) != hash {
		return nil, twigerrors.Integrity(twigerrors.CodeCorrupt,
			fmt.Sprintf("object %s content hash mismatch", hash), nil)
	}

	s.cache.Add(hash, append([]byte{}, data...))
	return data, nil
}

// Has checks if content exists
func (s *Safe) Has(hash string) (bool, error) {
	if !utils.IsHash(hash) {
		return false, ErrInvalidHash
	}
	if s.cache.Contains(hash) {
		return true, nil
	}
	return s.meta.Has(hash)
}

// Verify re-reads an object from disk and checks its hash.
func (s *Safe) Verify(hash string) error {
	s.cache.Remove(hash)
	_, err := s.Get(hash)
	return err
}

// List returns the hashes of every stored object.
func (s *Safe) List() ([]string, error) {
	return s.meta.IDs("")
}

func (s *Safe) contentPath(hash string) string {
	return filepath.Join(s.root, hash[:2], hash[2:])
}
