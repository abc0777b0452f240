package main

import (
	"os"

	"stacky.dev/stacky/internal/cli"
	"stacky.dev/stacky/internal/tui"
)

var version = "dev"

func main() {
	splog, err := tui.NewSplogWithConfig(os.Stderr, tui.GetLogFilePath())
	if err != nil {
		splog = tui.NewSplog()
		splog.Debug("file logging disabled: %v", err)
	}
	code := cli.Execute(splog, version, os.Args[1:])
	_ = splog.Close()
	os.Exit(code)
}
