// Package runtime provides the execution context for stacky commands.
//
// A Context is built once per invocation and passed explicitly to every
// action: the git adapter, the loaded branch graph, the current branch, the
// user configuration, the logger and the lazily created GitHub client.
package runtime
