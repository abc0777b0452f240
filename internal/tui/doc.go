// Package tui provides the terminal user interface for stacky.
//
// It handles:
//   - Interactive prompts and menus (using survey and bubbletea)
//   - Structured logging (Splog)
//   - Terminal styling and colors (using lipgloss and termenv)
//   - Rendering of stack forests
package tui
