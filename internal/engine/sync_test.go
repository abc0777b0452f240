package engine_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"stacky.dev/stacky/internal/config"
	"stacky.dev/stacky/internal/engine"
	stackyerrors "stacky.dev/stacky/internal/errors"
	"stacky.dev/stacky/testhelpers"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Info(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Debug(string, ...interface{}) {}

type syncFixture struct {
	fake  *testhelpers.FakeGit
	store *config.SyncStateFile
	log   *recordingLogger
}

func newSyncFixture(t *testing.T) *syncFixture {
	return &syncFixture{
		fake:  testhelpers.NewFakeGit(),
		store: config.NewSyncStateFile(t.TempDir()),
		log:   &recordingLogger{},
	}
}

func (f *syncFixture) load(t *testing.T) *engine.Repository {
	t.Helper()
	result, err := newBuilder(t, f.fake).LoadAll()
	require.NoError(t, err)
	return result.Repo
}

func (f *syncFixture) syncer(repo *engine.Repository) *engine.Syncer {
	return engine.NewSyncer(f.fake, repo, f.store, f.log)
}

func (f *syncFixture) syncAll(t *testing.T, original string) (*engine.Syncer, error) {
	t.Helper()
	repo := f.load(t)
	s := f.syncer(repo)
	return s, s.Sync(context.Background(), engine.AllStacks(repo), original)
}

func (f *syncFixture) recordExists() bool {
	_, err := os.Stat(f.store.Path())
	return err == nil
}

func TestSyncScenarios(t *testing.T) {
	t.Run("in sync stack does nothing", func(t *testing.T) {
		f := newSyncFixture(t)
		f.fake.StackBranch("feature-a", "main")
		f.fake.CommitOn("feature-a", "a1")

		s, err := f.syncAll(t, "main")
		require.NoError(t, err)
		require.Empty(t, f.fake.Rebases)
		require.Empty(t, s.Rebased())
		require.Equal(t, engine.SyncCompleted, s.Phase())
		require.False(t, f.recordExists())
		require.Contains(t, f.log.lines, "✓ Not syncing base branch main")
		require.Contains(t, f.log.lines, "✓ Not syncing branch feature-a, already synced with parent main")
	})

	t.Run("parent advanced by one commit", func(t *testing.T) {
		f := newSyncFixture(t)
		f.fake.StackBranch("feature-a", "main")
		f.fake.CommitOn("feature-a", "a1")
		newMain := f.fake.CommitOn("main", "m2")

		s, err := f.syncAll(t, "feature-a")
		require.NoError(t, err)
		require.Equal(t, []string{"feature-a"}, s.Rebased())
		require.Contains(t, f.log.lines, "- Will sync branch feature-a on top of main")
		require.Contains(t, f.log.lines, "Rebasing feature-a on top of main")

		anchor, err := f.fake.GetRef(engine.ParentRef("feature-a"))
		require.NoError(t, err)
		require.Equal(t, newMain, anchor)
		require.True(t, f.fake.Contains("feature-a", newMain))
		testhelpers.ExpectFakeLog(t, f.fake, "main", "feature-a", []string{"a1"})

		repo := f.load(t)
		require.True(t, repo.Get("feature-a").IsSyncedWithParent())
		current, err := f.fake.GetCurrentBranch()
		require.NoError(t, err)
		require.Equal(t, "feature-a", current)
		require.False(t, f.recordExists())
	})

	t.Run("three level chain is processed root first", func(t *testing.T) {
		f := newSyncFixture(t)
		f.fake.StackBranch("feature-a", "main")
		f.fake.CommitOn("feature-a", "a1")
		f.fake.StackBranch("feature-b", "feature-a")
		f.fake.CommitOn("feature-b", "b1")
		oldA := f.fake.Tip("feature-a")
		f.fake.CommitOn("main", "m2")

		_, err := f.syncAll(t, "main")
		require.NoError(t, err)
		require.Equal(t, []string{"feature-a", "feature-b"}, f.fake.Rebases)

		newA := f.fake.Tip("feature-a")
		require.NotEqual(t, oldA, newA)
		require.True(t, f.fake.Contains("feature-b", newA))
		require.False(t, f.fake.Contains("feature-b", oldA))
		anchor, err := f.fake.GetRef(engine.ParentRef("feature-b"))
		require.NoError(t, err)
		require.Equal(t, newA, anchor)
		testhelpers.ExpectFakeLog(t, f.fake, "main", "feature-b", []string{"a1", "b1"})
	})

	t.Run("conflict stops the run and keeps the record", func(t *testing.T) {
		f := newSyncFixture(t)
		f.fake.StackBranch("feature-a", "main")
		f.fake.CommitOn("feature-a", "a1")
		f.fake.StackBranch("feature-b", "feature-a")
		oldB := f.fake.CommitOn("feature-b", "b1")
		f.fake.CommitOn("main", "m2")
		require.NoError(t, f.fake.CheckoutBranch(context.Background(), "main"))
		f.fake.Conflicts["feature-a"] = true

		s, err := f.syncAll(t, "main")
		var conflict *stackyerrors.SyncConflictError
		require.ErrorAs(t, err, &conflict)
		require.Equal(t, "feature-a", conflict.Branch)
		require.Equal(t, engine.SyncAwaitingResume, s.Phase())
		require.Equal(t, []string{"feature-a", "feature-b"}, s.Pending())

		record, err := f.store.Load()
		require.NoError(t, err)
		require.Equal(t, config.SyncRecord{Branch: "main", Sync: []string{"feature-a", "feature-b"}}, *record)
		require.Equal(t, oldB, f.fake.Tip("feature-b"))
		current, err := f.fake.GetCurrentBranch()
		require.NoError(t, err)
		require.Equal(t, "feature-a", current)
	})
}

func TestSyncResume(t *testing.T) {
	ctx := context.Background()

	conflicted := func(t *testing.T) *syncFixture {
		f := newSyncFixture(t)
		f.fake.StackBranch("feature-a", "main")
		f.fake.CommitOn("feature-a", "a1")
		f.fake.StackBranch("feature-b", "feature-a")
		f.fake.CommitOn("feature-b", "b1")
		f.fake.CommitOn("main", "m2")
		require.NoError(t, f.fake.CheckoutBranch(ctx, "main"))
		f.fake.Conflicts["feature-a"] = true
		_, err := f.syncAll(t, "main")
		require.ErrorIs(t, err, stackyerrors.ErrSyncConflict)
		return f
	}

	t.Run("finishes the queue after the conflict is resolved", func(t *testing.T) {
		f := conflicted(t)
		f.fake.ResolveConflict()

		s := f.syncer(f.load(t))
		require.NoError(t, s.Resume(ctx))
		require.Equal(t, engine.SyncCompleted, s.Phase())
		require.Equal(t, []string{"feature-b"}, s.Rebased())
		require.Contains(t, f.log.lines, "Recording complete rebase of feature-a on top of main")
		require.False(t, f.recordExists())

		current, err := f.fake.GetCurrentBranch()
		require.NoError(t, err)
		require.Equal(t, "main", current)
		testhelpers.ExpectFakeLog(t, f.fake, "main", "feature-b", []string{"a1", "b1"})

		repo := f.load(t)
		require.Empty(t, engine.Plan(engine.AllStacks(repo)))
	})

	t.Run("replays the remaining branches in order", func(t *testing.T) {
		f := newSyncFixture(t)
		f.fake.StackBranch("feature-a", "main")
		f.fake.CommitOn("feature-a", "a1")
		f.fake.StackBranch("feature-b", "feature-a")
		f.fake.CommitOn("feature-b", "b1")
		f.fake.StackBranch("feature-c", "feature-b")
		f.fake.CommitOn("feature-c", "c1")
		f.fake.CommitOn("main", "m2")
		f.fake.Conflicts["feature-a"] = true
		_, err := f.syncAll(t, "main")
		require.ErrorIs(t, err, stackyerrors.ErrSyncConflict)

		record, err := f.store.Load()
		require.NoError(t, err)
		require.Equal(t, []string{"feature-a", "feature-b", "feature-c"}, record.Sync)

		f.fake.ResolveConflict()
		f.fake.Rebases = nil
		s := f.syncer(f.load(t))
		require.NoError(t, s.Resume(ctx))
		require.Equal(t, []string{"feature-b", "feature-c"}, f.fake.Rebases)
		require.Equal(t, []string{"feature-b", "feature-c"}, s.Rebased())
		testhelpers.ExpectFakeLog(t, f.fake, "main", "feature-c", []string{"a1", "b1", "c1"})
		require.False(t, f.recordExists())
	})

	t.Run("refuses while git is still rebasing", func(t *testing.T) {
		f := conflicted(t)
		s := f.syncer(f.load(t))
		err := s.Resume(ctx)
		require.ErrorIs(t, err, stackyerrors.ErrSyncConflict)
		require.True(t, f.recordExists())
	})

	t.Run("nothing to continue", func(t *testing.T) {
		f := newSyncFixture(t)
		s := f.syncer(f.load(t))
		require.ErrorIs(t, s.Resume(ctx), stackyerrors.ErrNoSyncInProgress)
		require.Equal(t, engine.SyncIdle, s.Phase())
	})

	t.Run("unknown branch in the record", func(t *testing.T) {
		f := newSyncFixture(t)
		require.NoError(t, f.store.Save(config.SyncRecord{Branch: "main", Sync: []string{"gone"}}))
		s := f.syncer(f.load(t))
		require.ErrorIs(t, s.Resume(ctx), stackyerrors.ErrConfiguration)
	})
}

func TestSyncProperties(t *testing.T) {
	ctx := context.Background()

	t.Run("second run is a no-op", func(t *testing.T) {
		f := newSyncFixture(t)
		f.fake.StackBranch("feature-a", "main")
		f.fake.CommitOn("feature-a", "a1")
		f.fake.StackBranch("feature-b", "feature-a")
		f.fake.CommitOn("feature-b", "b1")
		f.fake.CommitOn("main", "m2")

		_, err := f.syncAll(t, "main")
		require.NoError(t, err)
		tipB := f.fake.Tip("feature-b")
		anchors, err := f.fake.ListRefs(engine.ParentRefPrefix)
		require.NoError(t, err)
		require.Len(t, anchors, 2)

		s, err := f.syncAll(t, "main")
		require.NoError(t, err)
		require.Empty(t, s.Rebased())
		require.Equal(t, tipB, f.fake.Tip("feature-b"))
		require.Len(t, f.fake.Rebases, 2)
		after, err := f.fake.ListRefs(engine.ParentRefPrefix)
		require.NoError(t, err)
		require.Equal(t, anchors, after)
	})

	t.Run("already rebased branch only moves its anchor", func(t *testing.T) {
		f := newSyncFixture(t)
		f.fake.StackBranch("feature-a", "main")
		oldMain := f.fake.Tip("main")
		f.fake.CommitOn("feature-a", "a1")
		newMain := f.fake.CommitOn("main", "m2")
		_, err := f.fake.Rebase(ctx, "feature-a", newMain, oldMain)
		require.NoError(t, err)
		f.fake.Rebases = nil

		_, err = f.syncAll(t, "main")
		require.NoError(t, err)
		require.Empty(t, f.fake.Rebases)
		require.Contains(t, f.log.lines, "Recording complete rebase of feature-a on top of main")
		anchor, err := f.fake.GetRef(engine.ParentRef("feature-a"))
		require.NoError(t, err)
		require.Equal(t, newMain, anchor)
	})

	t.Run("dry run touches nothing", func(t *testing.T) {
		f := newSyncFixture(t)
		f.fake.StackBranch("feature-a", "main")
		f.fake.CommitOn("feature-a", "a1")
		f.fake.CommitOn("main", "m2")
		tip := f.fake.Tip("feature-a")

		repo := f.load(t)
		s := f.syncer(repo)
		s.DryRun = true
		require.NoError(t, s.Sync(ctx, engine.AllStacks(repo), "main"))
		require.Equal(t, engine.SyncIdle, s.Phase())
		require.Empty(t, f.fake.Rebases)
		require.Equal(t, tip, f.fake.Tip("feature-a"))
		require.False(t, f.recordExists())
		require.Contains(t, f.log.lines, "- Will sync branch feature-a on top of main")
	})

	t.Run("anchor moved by someone else fails the compare and swap", func(t *testing.T) {
		f := newSyncFixture(t)
		f.fake.StackBranch("feature-a", "main")
		f.fake.CommitOn("feature-a", "a1")
		f.fake.CommitOn("main", "m2")

		repo := f.load(t)
		require.NoError(t, f.fake.UpdateRef(ctx, engine.ParentRef("feature-a"), f.fake.Tip("feature-a"), ""))
		s := f.syncer(repo)
		require.Error(t, s.Sync(ctx, engine.AllStacks(repo), "main"))
		require.Equal(t, engine.SyncAwaitingResume, s.Phase())
		require.True(t, f.recordExists())
	})

	t.Run("only the selected view is synced", func(t *testing.T) {
		f := newSyncFixture(t)
		f.fake.StackBranch("feature-a", "main")
		f.fake.CommitOn("feature-a", "a1")
		f.fake.StackBranch("other", "main")
		f.fake.CommitOn("other", "o1")
		f.fake.CommitOn("main", "m2")

		repo := f.load(t)
		s := f.syncer(repo)
		require.NoError(t, s.Sync(ctx, engine.CurrentStack(repo, "feature-a"), "feature-a"))
		require.Equal(t, []string{"feature-a"}, f.fake.Rebases)
	})
}

func TestSyncPhaseString(t *testing.T) {
	require.Equal(t, "idle", engine.SyncIdle.String())
	require.Equal(t, "running", engine.SyncRunning.String())
	require.Equal(t, "awaiting-resume", engine.SyncAwaitingResume.String())
	require.Equal(t, "completed", engine.SyncCompleted.String())
	require.Equal(t, "SyncPhase(9)", engine.SyncPhase(9).String())
}
