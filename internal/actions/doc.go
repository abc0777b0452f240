// Package actions implements the stacky commands on top of a runtime.Context.
//
// Each action selects a view of the branch graph, prints what it is about to
// do, asks for confirmation when the change is visible to others, and then
// drives the engine, git and github packages. Pushing lives in the push
// subpackage.
package actions
