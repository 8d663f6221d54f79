package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "gencode"

// Dir is the per-user configuration directory. GENCODE_CONFIG_DIR wins
// over the platform default.
func Dir() string {
	if override := os.Getenv("GENCODE_CONFIG_DIR"); override != "" {
		return override
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", appName)
	default:
		return filepath.Join(home, ".config", appName)
	}
}

// FilePath is the default location of the user-level config file.
func FilePath() string {
	return filepath.Join(Dir(), FileName)
}

// HistoryPath is the default location of the save journal.
func HistoryPath() string {
	return filepath.Join(Dir(), "history.json")
}
