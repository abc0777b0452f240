package actions

import (
	"fmt"

	"stacky.dev/stacky/internal/engine"
	"stacky.dev/stacky/internal/runtime"
)

// Scope selects which part of the branch graph a command works on.
type Scope int

const (
	// ScopeAll is every stack.
	ScopeAll Scope = iota
	// ScopeStack is the current branch's path to its bottom plus its descendants.
	ScopeStack
	// ScopeUpstack is the current branch and its descendants.
	ScopeUpstack
	// ScopeDownstack is the current branch's path to its bottom.
	ScopeDownstack
)

func (s Scope) String() string {
	switch s {
	case ScopeAll:
		return "all"
	case ScopeStack:
		return "stack"
	case ScopeUpstack:
		return "upstack"
	case ScopeDownstack:
		return "downstack"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// Forest returns the view of the graph selected by s around the current branch.
// Every scope but ScopeAll requires the current branch to be in a stack.
func (s Scope) Forest(ctx *runtime.Context) (engine.Forest, error) {
	if s == ScopeAll {
		return engine.AllStacks(ctx.Repo), nil
	}
	current, err := ctx.RequireCurrent()
	if err != nil {
		return nil, err
	}
	switch s {
	case ScopeStack:
		return engine.CurrentStack(ctx.Repo, current.Name), nil
	case ScopeUpstack:
		return engine.Upstack(ctx.Repo, current.Name), nil
	case ScopeDownstack:
		return engine.Downstack(ctx.Repo, current.Name), nil
	}
	return nil, fmt.Errorf("invalid scope: %s", s)
}
