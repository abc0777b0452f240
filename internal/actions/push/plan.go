// Package push reconciles a forest of branches with the remote and with the
// pull requests opened for them.
package push

import (
	"fmt"

	"stacky.dev/stacky/internal/engine"
	stackyerrors "stacky.dev/stacky/internal/errors"
)

// PRAction is what happens to a branch's pull request.
type PRAction int

const (
	// PRNone leaves the pull request alone.
	PRNone PRAction = iota
	// PRFixBase retargets the open pull request at the branch's parent.
	PRFixBase
	// PRCreate opens a new pull request against the parent.
	PRCreate
)

func (a PRAction) String() string {
	switch a {
	case PRNone:
		return "none"
	case PRFixBase:
		return "fix-base"
	case PRCreate:
		return "create"
	default:
		return fmt.Sprintf("PRAction(%d)", int(a))
	}
}

// BranchAction is the work queued for one branch.
type BranchAction struct {
	Branch *engine.Branch
	Push   bool
	PR     PRAction
}

// Logger receives the plan, one line per branch.
type Logger interface {
	Info(format string, args ...interface{})
}

// CheckSynced fails on the first branch of forest that is off its parent's tip.
func CheckSynced(forest engine.Forest) error {
	for b := range forest.DepthFirst() {
		if !b.IsSyncedWithParent() {
			return stackyerrors.NewConfigurationError(b.Name,
				fmt.Sprintf("Branch is not synced with parent %s, sync first", b.ParentName))
		}
	}
	return nil
}

// Plan computes the actions for forest in root-first order. Bottoms never get
// an action. With withPR, pull request info must already be loaded.
func Plan(forest engine.Forest, withPR bool, log Logger) ([]BranchAction, error) {
	if err := CheckSynced(forest); err != nil {
		return nil, err
	}

	var actions []BranchAction
	for b := range forest.DepthFirst() {
		if b.IsRoot() {
			log.Info("✓ Not pushing base branch %s", b.Name)
			continue
		}

		action := BranchAction{Branch: b}
		if b.IsSyncedWithRemote() {
			log.Info("✓ Not pushing branch %s, synced with remote %s/%s", b.Name, b.Remote, b.RemoteBranch)
		} else {
			log.Info("- Will push branch %s to %s/%s", b.Name, b.Remote, b.RemoteBranch)
			action.Push = true
		}

		if withPR {
			switch pr := b.OpenPR; {
			case pr == nil:
				log.Info("- Will create PR for branch %s", b.Name)
				action.PR = PRCreate
			case pr.BaseRefName != b.ParentName:
				log.Info("- Branch %s already has open PR #%d; will change PR base from %s to %s",
					b.Name, pr.Number, pr.BaseRefName, b.ParentName)
				action.PR = PRFixBase
			default:
				log.Info("✓ Branch %s already has open PR #%d", b.Name, pr.Number)
			}
		}

		if action.Push || action.PR != PRNone {
			actions = append(actions, action)
		}
	}
	return actions, nil
}
