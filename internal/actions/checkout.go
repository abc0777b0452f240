package actions

import (
	"stacky.dev/stacky/internal/engine"
	"stacky.dev/stacky/internal/runtime"
)

// CheckoutAction checks out name, or a branch picked from a menu over forest
// when name is empty.
func CheckoutAction(ctx *runtime.Context, name string, forest engine.Forest) error {
	if name == "" {
		chosen, err := ctx.UI.ChooseBranch(forest, ctx.Current)
		if err != nil {
			return err
		}
		name = chosen
	}
	return ctx.Checkout(name)
}
