// internal/repo/repo.go
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"twig/internal/branch"
	branchstore "twig/internal/branch/storage"
	"twig/internal/commit"
	"twig/internal/config"
	"twig/internal/errors"
	"twig/internal/safe"
	"twig/internal/stage"
	stagestore "twig/internal/stage/storage"
	"twig/internal/storage"
	"twig/internal/workspace"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

const (
	dbDir      = "db"
	objectsDir = "objects"
)

// Options carries the collaborators a Repository does not build itself.
type Options struct {
	Logger *zap.Logger
	// Now stamps new commits. Defaults to time.Now.
	Now func() time.Time
}

func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Repository is the engine behind every command. Each operation loads the
// branch registry and staging area, works on them in memory and writes them
// back whole before returning.
type Repository struct {
	Root   string
	Config *config.Config
	Dir    *workspace.Dir

	db       *badger.DB
	objects  *safe.Safe
	graph    *commit.Graph
	branches *branchstore.Store
	staging  *stagestore.Store
	logger   *zap.Logger
	now      func() time.Time
}

// state is the mutable repository state for one operation.
type state struct {
	registry *branch.Registry
	area     *stage.Area
	headID   string
	head     *commit.Commit
}

func metaPath(root string, elem ...string) string {
	return filepath.Join(append([]string{root, workspace.MetaDir}, elem...)...)
}

// Init creates a repository in root holding only the shared root commit on
// the configured default branch.
func Init(root string, opts Options) (*Repository, error) {
	opts.setDefaults()

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}
	if _, err := os.Stat(metaPath(root)); err == nil {
		return nil, errors.ErrAlreadyInitialized
	}
	if err := os.MkdirAll(metaPath(root), 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", workspace.MetaDir, err)
	}

	cfg := config.Default()
	if err := cfg.Save(metaPath(root, config.FileName)); err != nil {
		return nil, err
	}

	r, err := open(root, cfg, opts)
	if err != nil {
		return nil, err
	}

	rootID, err := r.graph.Create(commit.Root())
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("creating root commit: %w", err)
	}

	s := &state{
		registry: branch.New(cfg.DefaultBranch, rootID),
		area:     stage.New(),
	}
	if err := r.save(s); err != nil {
		r.Close()
		return nil, err
	}

	r.logger.Info("initialized repository",
		zap.String("root", root),
		zap.String("branch", cfg.DefaultBranch),
		zap.String("commit", rootID))
	return r, nil
}

// Open finds the repository containing startDir and opens it.
func Open(startDir string, opts Options) (*Repository, error) {
	opts.setDefaults()

	root, err := workspace.FindRoot(startDir)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(metaPath(root, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return open(root, cfg, opts)
}

func open(root string, cfg *config.Config, opts Options) (*Repository, error) {
	db, err := openDB(metaPath(root, dbDir), opts.Logger)
	if err != nil {
		return nil, err
	}

	objects, err := safe.New(db, safe.Options{
		Root:      metaPath(root, objectsDir),
		CacheSize: cfg.CacheSize,
		Compression: safe.CompressionOptions{
			MinSize: cfg.Compression.MinSize,
			Level:   cfg.Compression.Level,
		},
		Logger: opts.Logger,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("opening object store: %w", err)
	}

	return &Repository{
		Root:     root,
		Config:   cfg,
		Dir:      workspace.NewDir(root, opts.Logger),
		db:       db,
		objects:  objects,
		graph:    commit.NewGraph(objects, db, opts.Logger),
		branches: branchstore.NewStore(db),
		staging:  stagestore.NewStore(db),
		logger:   opts.Logger,
		now:      opts.Now,
	}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// load reads the registry, the staging area and the head commit.
func (r *Repository) load() (*state, error) {
	registry, err := r.branches.Load()
	if err != nil {
		return nil, errors.Integrity(errors.CodeMissing, "branch registry unreadable", err)
	}
	area, err := r.staging.Load()
	if err != nil {
		return nil, err
	}

	headID := registry.Head()
	head, err := r.graph.Load(headID)
	if err != nil {
		if errors.IsUser(err) {
			return nil, errors.Integrity(errors.CodeMissing,
				fmt.Sprintf("branch %s points at unknown commit %s", registry.Current, headID), err)
		}
		return nil, err
	}

	return &state{registry: registry, area: area, headID: headID, head: head}, nil
}

// save writes the registry and staging area back whole, in one transaction.
func (r *Repository) save(s *state) error {
	registry, err := r.branches.Write(s.registry)
	if err != nil {
		return err
	}
	if err := storage.Update(r.db, registry, r.staging.Write(s.area)); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	r.logger.Debug("saved state",
		zap.String("branch", s.registry.Current),
		zap.String("head", s.registry.Head()),
		zap.Int("staged", len(s.area.Added)),
		zap.Int("removed", len(s.area.Removed)))
	return nil
}

// blob reads a stored object, treating absence as an integrity failure
// since only committed or staged hashes are ever asked for.
func (r *Repository) blob(hash string) ([]byte, error) {
	data, err := r.objects.Get(hash)
	if err != nil {
		if errors.Is(err, safe.ErrContentNotFound) {
			return nil, errors.Integrity(errors.CodeMissing,
				fmt.Sprintf("object %s is referenced but not stored", hash), err)
		}
		return nil, err
	}
	return data, nil
}

// resolve expands "HEAD", a full id or an abbreviated id.
func (r *Repository) resolve(s *state, ref string) (string, error) {
	if ref == "" || ref == "HEAD" {
		return s.headID, nil
	}
	return r.graph.Resolve(ref)
}
