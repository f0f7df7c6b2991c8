package console

import (
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

const historyFileName = ".blecmd_history"

// historyFilePath resolves the history file of the line editor.
// An empty path selects the home directory; a leading "~/" is expanded.
func historyFilePath(path string, logger *charmlog.Logger) string {
	if path != "" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		// fall back to the working directory
		logger.Warn("home directory unknown, history file is kept in the working directory", "err", err)
		if path == "" {
			return historyFileName
		}
		return strings.TrimPrefix(path, "~/")
	}
	if path == "" {
		return filepath.Join(home, historyFileName)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/"))
}
