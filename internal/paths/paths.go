// Package paths resolves the configuration directory and the parent
// directory used for package workspaces.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName is the directory name under the platform config root.
const appName = "acp"

// Environment variable names for directory overrides.
const (
	EnvConfigDir    = "ACP_CONFIG_DIR"
	EnvWorkspaceDir = "ACP_WORKSPACE_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/acp (fallback ~/.config/acp)
// macOS:   ~/Library/Application Support/acp
// Windows: %APPDATA%/acp
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > ACP_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveWorkspaceDir returns the parent directory for extraction
// workspaces: flag > config value > ACP_WORKSPACE_DIR env. An empty result
// means the system temporary directory.
func ResolveWorkspaceDir(flag, configValue string) (string, error) {
	for _, v := range []string{flag, configValue, os.Getenv(EnvWorkspaceDir)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	return "", nil
}
