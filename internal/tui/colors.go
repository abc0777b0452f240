package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// SetColorMode applies a --color value: "always" forces ANSI colors, "never"
// disables them and "auto" colors only when stdout is a terminal.
func SetColorMode(mode string) error {
	switch mode {
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	case "auto", "":
		if !IsTerminal(os.Stdout) {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	default:
		return fmt.Errorf("invalid color mode %q (want always, auto or never)", mode)
	}
	return nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func colored(color, text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Render(text)
}

// ColorRed colors text red
func ColorRed(text string) string {
	return colored("1", text)
}

// ColorGreen colors text green
func ColorGreen(text string) string {
	return colored("2", text)
}

// ColorYellow colors text yellow
func ColorYellow(text string) string {
	return colored("3", text)
}

// ColorBlue colors text blue
func ColorBlue(text string) string {
	return colored("4", text)
}

// ColorCyan colors text cyan
func ColorCyan(text string) string {
	return colored("6", text)
}

// ColorBold renders text in bold
func ColorBold(text string) string {
	return lipgloss.NewStyle().Bold(true).Render(text)
}
