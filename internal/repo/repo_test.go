package repo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"twig/internal/commit"
	twigerrors "twig/internal/errors"
	"twig/internal/stage"
	"twig/shared/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock ticks one minute per call so commit order is unambiguous.
func testClock() func() time.Time {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
}

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	r, err := Init(t.TempDir(), Options{Now: testClock()})
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func writeFile(t *testing.T, r *Repository, name, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(r.Root, name), []byte(data), 0644))
}

func readFile(t *testing.T, r *Repository, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(r.Root, name))
	require.NoError(t, err)
	return string(data)
}

func commitFile(t *testing.T, r *Repository, name, data, message string) string {
	t.Helper()
	writeFile(t, r, name, data)
	require.NoError(t, r.Add(name))
	id, err := r.Commit(message)
	require.NoError(t, err)
	return id
}

func loadStage(t *testing.T, r *Repository) *stage.Area {
	t.Helper()
	area, err := r.staging.Load()
	require.NoError(t, err)
	return area
}

func headCommit(t *testing.T, r *Repository) (string, *commit.Commit) {
	t.Helper()
	_, id, err := r.Head()
	require.NoError(t, err)
	c, err := r.graph.Load(id)
	require.NoError(t, err)
	return id, c
}

func TestInit(t *testing.T) {
	r := setupTestRepo(t)

	t.Run("RootCommit", func(t *testing.T) {
		entries, err := r.Log()
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, commit.RootMessage, entries[0].Message)
		assert.True(t, entries[0].Timestamp.Equal(time.Unix(0, 0)))

		branch, head, err := r.Head()
		require.NoError(t, err)
		assert.Equal(t, "master", branch)
		assert.Equal(t, entries[0].ID, head)
	})

	t.Run("SharedRoot", func(t *testing.T) {
		other := setupTestRepo(t)
		_, a, err := r.Head()
		require.NoError(t, err)
		_, b, err := other.Head()
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("AlreadyInitialized", func(t *testing.T) {
		_, err := Init(r.Root, Options{})
		assert.ErrorIs(t, err, twigerrors.ErrAlreadyInitialized)
	})

	t.Run("ConfigWritten", func(t *testing.T) {
		_, err := os.Stat(metaPath(r.Root, "config.json"))
		assert.NoError(t, err)
	})
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir, Options{Now: testClock()})
	require.NoError(t, err)
	id := commitFile(t, r, "a.txt", "hello", "first")
	require.NoError(t, r.Close())

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0755))

	reopened, err := Open(sub, Options{})
	require.NoError(t, err)
	defer reopened.Close()

	_, head, err := reopened.Head()
	require.NoError(t, err)
	assert.Equal(t, id, head)

	_, err = Open(t.TempDir(), Options{})
	assert.ErrorIs(t, err, twigerrors.ErrNotInitialized)
}

func TestAddCommit(t *testing.T) {
	r := setupTestRepo(t)

	t.Run("FirstCommit", func(t *testing.T) {
		writeFile(t, r, "a.txt", "hello")
		require.NoError(t, r.Add("a.txt"))
		id, err := r.Commit("first")
		require.NoError(t, err)

		entries, err := r.Log()
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, id, entries[0].ID)
		assert.Equal(t, "first", entries[0].Message)
		assert.Equal(t, entries[1].ID, entries[0].Parent)

		_, c := headCommit(t, r)
		assert.Equal(t, map[string]string{"a.txt": utils.HashContent([]byte("hello"))}, c.Files)
		assert.True(t, loadStage(t, r).IsEmpty())
	})

	t.Run("AddMissing", func(t *testing.T) {
		assert.ErrorIs(t, r.Add("nope.txt"), twigerrors.ErrFileNotFound)
	})

	t.Run("AddUnchangedIsNoop", func(t *testing.T) {
		require.NoError(t, r.Add("a.txt"))
		assert.True(t, loadStage(t, r).IsEmpty())
	})

	t.Run("AddRevertedUnstages", func(t *testing.T) {
		writeFile(t, r, "a.txt", "changed")
		require.NoError(t, r.Add("a.txt"))
		assert.True(t, loadStage(t, r).IsAdded("a.txt"))

		writeFile(t, r, "a.txt", "hello")
		require.NoError(t, r.Add("a.txt"))
		assert.True(t, loadStage(t, r).IsEmpty())
	})

	t.Run("AddCancelsRemoval", func(t *testing.T) {
		require.NoError(t, r.Remove("a.txt"))
		assert.True(t, loadStage(t, r).IsRemoved("a.txt"))

		writeFile(t, r, "a.txt", "hello")
		require.NoError(t, r.Add("a.txt"))
		assert.True(t, loadStage(t, r).IsEmpty())
	})

	t.Run("EmptyMessage", func(t *testing.T) {
		writeFile(t, r, "b.txt", "b")
		require.NoError(t, r.Add("b.txt"))
		_, err := r.Commit("  ")
		assert.ErrorIs(t, err, twigerrors.ErrEmptyMessage)
		assert.False(t, loadStage(t, r).IsEmpty())
	})

	t.Run("NothingToCommit", func(t *testing.T) {
		_, err := r.Commit("b")
		require.NoError(t, err)
		_, err = r.Commit("again")
		assert.ErrorIs(t, err, twigerrors.ErrNothingToCommit)
	})

	t.Run("CleanAfterCommit", func(t *testing.T) {
		st, err := r.Status()
		require.NoError(t, err)
		assert.True(t, st.Clean())
	})
}

func TestRemove(t *testing.T) {
	r := setupTestRepo(t)
	commitFile(t, r, "tracked.txt", "t", "add tracked")

	t.Run("NothingToRemove", func(t *testing.T) {
		writeFile(t, r, "loose.txt", "l")
		assert.ErrorIs(t, r.Remove("loose.txt"), twigerrors.ErrNothingToRemove)
		assert.True(t, loadStage(t, r).IsEmpty())
		assert.FileExists(t, filepath.Join(r.Root, "loose.txt"))
	})

	t.Run("StagedOnly", func(t *testing.T) {
		require.NoError(t, r.Add("loose.txt"))
		require.NoError(t, r.Remove("loose.txt"))
		assert.True(t, loadStage(t, r).IsEmpty())
		assert.FileExists(t, filepath.Join(r.Root, "loose.txt"))
	})

	t.Run("Tracked", func(t *testing.T) {
		require.NoError(t, r.Remove("tracked.txt"))
		assert.NoFileExists(t, filepath.Join(r.Root, "tracked.txt"))
		assert.True(t, loadStage(t, r).IsRemoved("tracked.txt"))

		_, err := r.Commit("drop tracked")
		require.NoError(t, err)
		_, c := headCommit(t, r)
		assert.False(t, c.Tracks("tracked.txt"))
	})
}

func TestStatus(t *testing.T) {
	r := setupTestRepo(t)
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt"} {
		writeFile(t, r, name, name)
		require.NoError(t, r.Add(name))
	}
	_, err := r.Commit("four files")
	require.NoError(t, err)
	require.NoError(t, r.Branch("other"))

	writeFile(t, r, "a.txt", "edited")
	require.NoError(t, os.Remove(filepath.Join(r.Root, "b.txt")))
	require.NoError(t, r.Remove("c.txt"))

	writeFile(t, r, "e.txt", "e")
	require.NoError(t, r.Add("e.txt"))
	writeFile(t, r, "e.txt", "e edited")

	writeFile(t, r, "f.txt", "f")
	require.NoError(t, r.Add("f.txt"))
	require.NoError(t, os.Remove(filepath.Join(r.Root, "f.txt")))

	writeFile(t, r, "g.txt", "g")

	st, err := r.Status()
	require.NoError(t, err)

	assert.Equal(t, "master", st.Current)
	assert.Equal(t, []string{"master", "other"}, st.Branches)
	assert.Equal(t, []string{"e.txt", "f.txt"}, st.Staged)
	assert.Equal(t, []string{"c.txt"}, st.Removed)
	assert.Equal(t, []Modification{
		{Path: "a.txt", Kind: Modified},
		{Path: "b.txt", Kind: Deleted},
		{Path: "e.txt", Kind: Modified},
		{Path: "f.txt", Kind: Deleted},
	}, st.Modified)
	assert.Equal(t, []string{"g.txt"}, st.Untracked)
	assert.False(t, st.Clean())

	t.Run("RecreatedRemovalIsUntracked", func(t *testing.T) {
		writeFile(t, r, "c.txt", "c.txt")
		st, err := r.Status()
		require.NoError(t, err)
		assert.Equal(t, []string{"c.txt", "g.txt"}, st.Untracked)
	})

	t.Run("RecreatedRemovalWithNewContent", func(t *testing.T) {
		writeFile(t, r, "c.txt", "different content")
		st, err := r.Status()
		require.NoError(t, err)
		assert.Equal(t, []string{"c.txt"}, st.Removed)
		assert.Equal(t, []string{"c.txt", "g.txt"}, st.Untracked)
		for _, m := range st.Modified {
			assert.NotEqual(t, "c.txt", m.Path)
		}
	})
}

func TestCheckoutBranch(t *testing.T) {
	r := setupTestRepo(t)
	commitFile(t, r, "shared.txt", "v1", "shared")
	require.NoError(t, r.Branch("dev"))

	commitFile(t, r, "shared.txt", "v2", "bump shared")
	commitFile(t, r, "master-only.txt", "m", "master only")

	t.Run("Errors", func(t *testing.T) {
		assert.ErrorIs(t, r.CheckoutBranch("ghost"), twigerrors.ErrNoSuchBranch)
		assert.ErrorIs(t, r.CheckoutBranch("master"), twigerrors.ErrAlreadyCurrent)
	})

	t.Run("SwitchesWorkingDirectory", func(t *testing.T) {
		writeFile(t, r, "pending.txt", "p")
		require.NoError(t, r.Add("pending.txt"))
		require.NoError(t, os.Remove(filepath.Join(r.Root, "pending.txt")))

		require.NoError(t, r.CheckoutBranch("dev"))

		branch, _, err := r.Head()
		require.NoError(t, err)
		assert.Equal(t, "dev", branch)
		assert.Equal(t, "v1", readFile(t, r, "shared.txt"))
		assert.NoFileExists(t, filepath.Join(r.Root, "master-only.txt"))
		assert.True(t, loadStage(t, r).IsEmpty())
	})

	t.Run("RoundTrip", func(t *testing.T) {
		require.NoError(t, r.CheckoutBranch("master"))
		_, c := headCommit(t, r)
		for path, blob := range c.Files {
			hash, err := r.Dir.Hash(path)
			require.NoError(t, err)
			assert.Equal(t, blob, hash, path)
		}
	})

	t.Run("UntrackedInTheWay", func(t *testing.T) {
		require.NoError(t, r.CheckoutBranch("dev"))
		writeFile(t, r, "master-only.txt", "mine")

		assert.ErrorIs(t, r.CheckoutBranch("master"), twigerrors.ErrUntrackedFile)
		assert.Equal(t, "mine", readFile(t, r, "master-only.txt"))
		branch, _, err := r.Head()
		require.NoError(t, err)
		assert.Equal(t, "dev", branch)
	})

	t.Run("RecreatedRemovalInTheWay", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(r.Root, "master-only.txt")))
		require.NoError(t, r.Remove("shared.txt"))
		writeFile(t, r, "shared.txt", "user work")

		assert.ErrorIs(t, r.CheckoutBranch("master"), twigerrors.ErrUntrackedFile)
		assert.Equal(t, "user work", readFile(t, r, "shared.txt"))
		assert.True(t, loadStage(t, r).IsRemoved("shared.txt"))
	})

	t.Run("RecreatedRemovalNotDeleted", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(r.Root, "shared.txt")))
		require.NoError(t, r.CheckoutBranch("master"))

		require.NoError(t, r.Remove("master-only.txt"))
		writeFile(t, r, "master-only.txt", "keep me")

		assert.ErrorIs(t, r.CheckoutBranch("dev"), twigerrors.ErrUntrackedFile)
		assert.Equal(t, "keep me", readFile(t, r, "master-only.txt"))
	})
}

func TestSaveIsAllOrNothing(t *testing.T) {
	r := setupTestRepo(t)

	s, err := r.load()
	require.NoError(t, err)
	s.area.StageAdd("x.txt", utils.HashContent([]byte("x")))
	s.registry.Current = "ghost"

	assert.Error(t, r.save(s))
	assert.True(t, loadStage(t, r).IsEmpty())

	branch, _, err := r.Head()
	require.NoError(t, err)
	assert.Equal(t, "master", branch)
}

func TestCheckoutFile(t *testing.T) {
	r := setupTestRepo(t)
	first := commitFile(t, r, "a.txt", "one", "one")
	commitFile(t, r, "a.txt", "two", "two")

	writeFile(t, r, "a.txt", "scribble")
	require.NoError(t, r.CheckoutFile("HEAD", "a.txt"))
	assert.Equal(t, "two", readFile(t, r, "a.txt"))

	require.NoError(t, r.CheckoutFile(first[:8], "a.txt"))
	assert.Equal(t, "one", readFile(t, r, "a.txt"))

	assert.ErrorIs(t, r.CheckoutFile(first, "b.txt"), twigerrors.ErrFileNotInCommit)
	assert.ErrorIs(t, r.CheckoutFile("abc", "a.txt"), twigerrors.ErrUnknownCommit)
	assert.ErrorIs(t, r.CheckoutFile(utils.HashContent([]byte("x")), "a.txt"), twigerrors.ErrUnknownCommit)
}

func TestReset(t *testing.T) {
	r := setupTestRepo(t)
	first := commitFile(t, r, "a.txt", "one", "one")
	commitFile(t, r, "b.txt", "b", "add b")

	writeFile(t, r, "c.txt", "c")
	require.NoError(t, r.Add("c.txt"))
	require.NoError(t, os.Remove(filepath.Join(r.Root, "c.txt")))

	assert.ErrorIs(t, r.Reset("0000000"), twigerrors.ErrUnknownCommit)

	require.NoError(t, r.Reset(first[:10]))
	_, head, err := r.Head()
	require.NoError(t, err)
	assert.Equal(t, first, head)
	assert.Equal(t, "one", readFile(t, r, "a.txt"))
	assert.NoFileExists(t, filepath.Join(r.Root, "b.txt"))
	assert.True(t, loadStage(t, r).IsEmpty())

	entries, err := r.Log()
	require.NoError(t, err)
	assert.Equal(t, first, entries[0].ID)
}

func TestBranches(t *testing.T) {
	r := setupTestRepo(t)

	require.NoError(t, r.Branch("dev"))
	assert.ErrorIs(t, r.Branch("dev"), twigerrors.ErrAlreadyExists)
	assert.ErrorIs(t, r.RemoveBranch("master"), twigerrors.ErrCurrentBranch)
	assert.ErrorIs(t, r.RemoveBranch("ghost"), twigerrors.ErrUnknownBranch)

	require.NoError(t, r.CheckoutBranch("dev"))
	id := commitFile(t, r, "d.txt", "d", "on dev")
	require.NoError(t, r.CheckoutBranch("master"))
	require.NoError(t, r.RemoveBranch("dev"))

	st, err := r.Status()
	require.NoError(t, err)
	assert.Equal(t, []string{"master"}, st.Branches)

	// The commit outlives its branch.
	entries, err := r.GlobalLog()
	require.NoError(t, err)
	assert.Equal(t, id, entries[0].ID)
}

func TestFind(t *testing.T) {
	r := setupTestRepo(t)
	a := commitFile(t, r, "a.txt", "a", "same message")
	b := commitFile(t, r, "a.txt", "b", "same message")

	ids, err := r.Find("same message")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, ids)

	ids, err = r.Find(commit.RootMessage)
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	_, err = r.Find("never written")
	assert.ErrorIs(t, err, twigerrors.ErrNoMatchingCommit)
}

func TestDiff(t *testing.T) {
	r := setupTestRepo(t)
	commitFile(t, r, "a.txt", "one\ntwo\n", "a")
	commitFile(t, r, "same.txt", "same\n", "same")

	writeFile(t, r, "a.txt", "one\n2\n")
	writeFile(t, r, "new.txt", "fresh\n")
	require.NoError(t, r.Add("new.txt"))

	diffs, err := r.Diff()
	require.NoError(t, err)
	require.Len(t, diffs, 2)

	assert.Equal(t, "a.txt", diffs[0].Path)
	assert.Equal(t, 1, diffs[0].Result.Stats.Additions)
	assert.Equal(t, 1, diffs[0].Result.Stats.Deletions)

	assert.Equal(t, "new.txt", diffs[1].Path)
	assert.True(t, diffs[1].Added)

	_, err = r.Diff("missing.txt")
	assert.ErrorIs(t, err, twigerrors.ErrFileNotFound)
}

func TestVerify(t *testing.T) {
	r := setupTestRepo(t)
	commitFile(t, r, "a.txt", "content", "a")

	report, err := r.Verify()
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 3, report.Objects)
	assert.Equal(t, 2, report.Commits)

	hash := utils.HashContent([]byte("content"))
	path := metaPath(r.Root, objectsDir, hash[:2], hash[2:])
	require.NoError(t, os.WriteFile(path, []byte("tampered"), 0644))

	report, err = r.Verify()
	require.NoError(t, err)
	require.Len(t, report.Problems, 1)
	assert.ErrorIs(t, report.Problems[0], twigerrors.Integrity(twigerrors.CodeCorrupt, "", nil))
}
