package actions

import (
	"errors"
	"fmt"
	"strings"

	"stacky.dev/stacky/internal/engine"
	"stacky.dev/stacky/internal/runtime"
	"stacky.dev/stacky/internal/tui"
)

// UpAction checks out the child of the current branch. With several children
// the user picks one from a menu.
func UpAction(ctx *runtime.Context) error {
	b, err := ctx.RequireCurrent()
	if err != nil {
		return err
	}
	children := b.Children()
	switch len(children) {
	case 0:
		ctx.Splog.Info("Branch %s is already at the top of the stack", b.Name)
		return nil
	case 1:
		return ctx.Checkout(children[0].Name)
	}

	names := b.ChildNames()
	forest := make(engine.Forest, len(children))
	for i, c := range children {
		forest[i] = &engine.Tree{Branch: c}
	}
	ctx.Splog.Info("Branch %s has %d children, choose one", b.Name, len(children))
	child, err := ctx.UI.ChooseBranch(forest, ctx.Current)
	if err != nil {
		if errors.Is(err, tui.ErrNotTerminal) {
			return fmt.Errorf("branch %s has multiple children: %s", b.Name, strings.Join(names, ", "))
		}
		return err
	}
	return ctx.Checkout(child)
}

// DownAction checks out the parent of the current branch.
func DownAction(ctx *runtime.Context) error {
	b, err := ctx.RequireCurrent()
	if err != nil {
		return err
	}
	if b.IsRoot() {
		ctx.Splog.Info("Branch %s is already at the bottom of the stack", b.Name)
		return nil
	}
	return ctx.Checkout(b.ParentName)
}
