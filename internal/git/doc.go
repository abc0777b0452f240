// Package git provides low-level Git operations.
//
// Reads go through go-git; anything that touches the working tree or needs
// hooks shells out to the git binary. This package should be the only place
// where git commands are executed.
package git
