package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/colonyops/sqcrop/internal/core/config"
	"github.com/colonyops/sqcrop/pkg/logutils"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Notices collects warnings logged while a command runs; they are
	// printed to stderr in the After hook.
	Notices *logutils.DeferredWriter
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "sqcrop", "config.yaml")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/sqcrop/sqcrop.log
// On Linux: $XDG_STATE_HOME/sqcrop/sqcrop.log (defaults to ~/.local/state/sqcrop/sqcrop.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "sqcrop", "sqcrop.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "sqcrop", "sqcrop.log")
	}

	return filepath.Join(home, ".local", "state", "sqcrop", "sqcrop.log")
}
