// Package engine models stacks of branches and keeps them in sync.
//
// It is the core of stacky, responsible for:
//   - Loading the parent graph of every branch from git refs
//   - Holding branches in a name-keyed repository with forest views
//   - Recording parent pointers and stack bottoms as refs
//   - Rebasing stacks onto their parents, resumable after a conflict
//
// Git access goes through the GitRunner interface so that the graph can be
// built over the real repository or an in-memory fake.
package engine
