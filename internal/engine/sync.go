package engine

import (
	"context"
	"fmt"

	"stacky.dev/stacky/internal/config"
	stackyerrors "stacky.dev/stacky/internal/errors"
	"stacky.dev/stacky/internal/git"
)

// SyncPhase is the state of a Syncer.
type SyncPhase int

const (
	// SyncIdle means no sync has started.
	SyncIdle SyncPhase = iota
	// SyncRunning means the queue is being processed.
	SyncRunning
	// SyncAwaitingResume means the run stopped with the record kept on disk.
	SyncAwaitingResume
	// SyncCompleted means the queue drained and the record was removed.
	SyncCompleted
)

func (p SyncPhase) String() string {
	switch p {
	case SyncIdle:
		return "idle"
	case SyncRunning:
		return "running"
	case SyncAwaitingResume:
		return "awaiting-resume"
	case SyncCompleted:
		return "completed"
	default:
		return fmt.Sprintf("SyncPhase(%d)", int(p))
	}
}

// StateStore persists the sync record. Save must be all-or-nothing.
type StateStore interface {
	Save(record config.SyncRecord) error
	Load() (*config.SyncRecord, error)
	Clear() error
}

// Logger receives progress messages.
type Logger interface {
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

// Syncer rebases out-of-date branches onto their parents, one at a time,
// persisting the remaining queue before each step so a stopped run can be resumed.
type Syncer struct {
	git   GitRunner
	repo  *Repository
	meta  *MetadataStore
	store StateStore
	log   Logger

	// DryRun logs the plan without touching the repository.
	DryRun bool

	phase    SyncPhase
	original string
	queue    []string
	rebased  []string
}

// NewSyncer creates a Syncer over repo. A nil log discards progress messages.
func NewSyncer(runner GitRunner, repo *Repository, store StateStore, log Logger) *Syncer {
	if log == nil {
		log = nopLogger{}
	}
	return &Syncer{
		git:   runner,
		repo:  repo,
		meta:  NewMetadataStore(runner),
		store: store,
		log:   log,
	}
}

// Phase returns the current state.
func (s *Syncer) Phase() SyncPhase {
	return s.phase
}

// Pending returns the branches not yet processed, in order.
func (s *Syncer) Pending() []string {
	return append([]string(nil), s.queue...)
}

// Rebased returns the branches that were actually rebased during this Syncer's runs.
func (s *Syncer) Rebased() []string {
	return append([]string(nil), s.rebased...)
}

// Plan returns the branches of forest that need syncing, parents first.
// A branch qualifies when it is off its parent's tip or its parent qualifies.
// Bottoms never qualify.
func Plan(forest Forest) []*Branch {
	var out []*Branch
	qualified := make(map[string]bool)
	for b := range forest.DepthFirst() {
		if b.IsRoot() {
			continue
		}
		if b.IsSyncedWithParent() && !qualified[b.ParentName] {
			continue
		}
		qualified[b.Name] = true
		out = append(out, b)
	}
	return out
}

// Sync brings every branch of forest onto its parent's tip, then checks out
// original. A conflict stops the run and leaves the record in place.
func (s *Syncer) Sync(ctx context.Context, forest Forest, original string) error {
	plan := Plan(forest)
	planned := make(map[string]bool, len(plan))
	for _, b := range plan {
		planned[b.Name] = true
	}
	for b := range forest.DepthFirst() {
		switch {
		case b.IsRoot():
			s.log.Info("✓ Not syncing base branch %s", b.Name)
		case !planned[b.Name]:
			s.log.Info("✓ Not syncing branch %s, already synced with parent %s", b.Name, b.ParentName)
		default:
			s.log.Info("- Will sync branch %s on top of %s", b.Name, b.ParentName)
		}
	}
	if len(plan) == 0 || s.DryRun {
		if !s.DryRun {
			s.phase = SyncCompleted
		}
		return nil
	}

	s.original = original
	s.queue = make([]string, len(plan))
	for i, b := range plan {
		s.queue[i] = b.Name
	}
	return s.run(ctx)
}

// Resume continues the run described by the stored record. The Syncer must be
// built over a freshly loaded Repository.
func (s *Syncer) Resume(ctx context.Context) error {
	record, err := s.store.Load()
	if err != nil {
		return err
	}
	if s.git.IsRebaseInProgress(ctx) {
		return fmt.Errorf("%w: a git rebase is still in progress, finish it with `git rebase --continue` before continuing",
			stackyerrors.ErrSyncConflict)
	}
	for _, name := range record.Sync {
		if !s.repo.Has(name) {
			return stackyerrors.NewConfigurationError(name, "Branch from the saved sync is not in a stack")
		}
	}
	if record.Branch != "" {
		if err := s.git.CheckoutBranch(ctx, record.Branch); err != nil {
			return err
		}
	}
	s.original = record.Branch
	s.queue = append([]string(nil), record.Sync...)
	return s.run(ctx)
}

func (s *Syncer) run(ctx context.Context) error {
	s.phase = SyncRunning
	for len(s.queue) > 0 {
		if err := s.store.Save(config.SyncRecord{Branch: s.original, Sync: s.queue}); err != nil {
			s.phase = SyncAwaitingResume
			return err
		}
		b := s.repo.Get(s.queue[0])
		if err := s.step(ctx, b); err != nil {
			s.phase = SyncAwaitingResume
			return err
		}
		s.queue = s.queue[1:]
	}
	if s.original != "" {
		if err := s.git.CheckoutBranch(ctx, s.original); err != nil {
			s.phase = SyncAwaitingResume
			return err
		}
	}
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.phase = SyncCompleted
	return nil
}

func (s *Syncer) step(ctx context.Context, b *Branch) error {
	parent := b.Parent()
	if parent == nil {
		s.log.Info("%s is a stack bottom, nothing to sync", b.Name)
		return nil
	}
	if b.IsSyncedWithParent() {
		s.log.Info("%s is already synced on top of %s", b.Name, parent.Name)
		return nil
	}

	done, err := s.git.IsAncestor(parent.Commit, b.Commit)
	if err != nil {
		return err
	}
	if done {
		s.log.Info("Recording complete rebase of %s on top of %s", b.Name, parent.Name)
	} else {
		s.log.Info("Rebasing %s on top of %s", b.Name, parent.Name)
		result, err := s.git.Rebase(ctx, b.Name, parent.Commit, b.ParentCommit)
		if err != nil {
			return err
		}
		if result == git.RebaseConflict {
			return stackyerrors.NewSyncConflictError(b.Name, parent.Name)
		}
		s.rebased = append(s.rebased, b.Name)
		commit, err := s.git.GetRevision(b.Name)
		if err != nil {
			return err
		}
		b.Commit = commit
	}

	if err := s.meta.SetParentCommit(ctx, b.Name, parent.Commit, b.ParentCommit); err != nil {
		return err
	}
	s.log.Debug("Anchor of %s moved from %s to %s", b.Name, b.ParentCommit, parent.Commit)
	b.ParentCommit = parent.Commit
	return nil
}
