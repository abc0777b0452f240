package tui

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// If STACKY_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.stacky/logs/stacky.log
func GetLogFilePath() string {
	if customPath := os.Getenv("STACKY_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "stacky.log"
	}

	return filepath.Join(homeDir, ".stacky", "logs", "stacky.log")
}
