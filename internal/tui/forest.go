package tui

import (
	"fmt"
	"slices"
	"strings"

	"stacky.dev/stacky/internal/engine"
)

// FormatBranch renders the label of one branch in a tree: "!" when it is off
// its parent's tip, "~" when it differs from its remote, "*" when checked out,
// then the name and the open pull request, if loaded.
func FormatBranch(b *engine.Branch, current string, colorize bool) string {
	paint := func(color func(string) string, s string) string {
		if colorize {
			return color(s)
		}
		return s
	}

	prefix := ""
	severity := 0
	if !b.IsSyncedWithParent() {
		prefix += paint(ColorYellow, "!")
		severity = 2
	}
	if !b.IsSyncedWithRemote() {
		prefix += paint(ColorYellow, "~")
	}
	if b.Name == current {
		prefix += paint(ColorCyan, "*")
	} else {
		severity = max(severity, 1)
	}
	if prefix != "" {
		prefix += " "
	}

	name := paint([]func(string) string{ColorCyan, ColorGreen, ColorYellow}[severity], b.Name)
	suffix := ""
	if b.OpenPR != nil {
		suffix = " " + paint(ColorBlue, fmt.Sprintf("(#%d)", b.OpenPR.Number)) +
			" " + paint(ColorBlue, b.OpenPR.Title)
	}
	return prefix + name + suffix
}

// treeLines renders tree top-down, children below their parent.
func treeLines(tree *engine.Tree, current string, colorize bool) []string {
	lines := []string{FormatBranch(tree.Branch, current, colorize)}
	var walk func(children []*engine.Tree, prefix string)
	walk = func(children []*engine.Tree, prefix string) {
		for i, c := range children {
			connector, pad := "├── ", "│    "
			if i == len(children)-1 {
				connector, pad = "┌── ", "     "
			}
			lines = append(lines, prefix+connector+FormatBranch(c.Branch, current, colorize))
			walk(c.Children, prefix+pad)
		}
	}
	walk(tree.Children, " ")
	return lines
}

// RenderForest draws every tree upside down, bottoms last, so that "up" in
// the output is "upstack". Trees are separated by a blank line.
func RenderForest(forest engine.Forest, current string, colorize bool) string {
	var b strings.Builder
	for i, tree := range forest {
		if i > 0 {
			b.WriteString("\n")
		}
		lines := treeLines(tree, current, colorize)
		slices.Reverse(lines)
		for _, line := range lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// MenuEntries returns the uncolored lines of forest in display order together
// with the branch each line stands for, and the index of current (or 0).
func MenuEntries(forest engine.Forest, current string) ([]string, []*engine.Branch, int) {
	var lines []string
	for _, tree := range forest {
		for _, line := range treeLines(tree, current, false) {
			lines = append(lines, strings.TrimRight(line, " "))
		}
	}
	branches := forest.Branches()
	slices.Reverse(lines)
	slices.Reverse(branches)

	initial := 0
	for i, b := range branches {
		if b.Name == current {
			initial = i
			break
		}
	}
	return lines, branches, initial
}
