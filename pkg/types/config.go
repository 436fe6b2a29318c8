package types

import (
	"errors"
	"strings"
)

// Config holds the tool settings read from config.yaml.
type Config struct {
	LogLevel     string `json:"log_level" yaml:"log_level"`
	LogFormat    string `json:"log_format" yaml:"log_format"`
	WorkspaceDir string `json:"workspace_dir" yaml:"workspace_dir,omitempty"`
}

// Supported log formats.
const (
	LogFormatAuto    = "auto"
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Config validation errors.
var (
	ErrLogLevelUnknown  = errors.New("unknown log level")
	ErrLogFormatUnknown = errors.New("unknown log format")
)

var knownLogLevels = map[string]bool{
	"":      true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var knownLogFormats = map[string]bool{
	"":               true,
	LogFormatAuto:    true,
	LogFormatConsole: true,
	LogFormatJSON:    true,
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{LogLevel: "info", LogFormat: LogFormatAuto}
}

// Validate checks that the Config is well-formed. An empty WorkspaceDir
// means the system temporary directory.
func (c Config) Validate() error {
	if !knownLogLevels[strings.ToLower(c.LogLevel)] {
		return ErrLogLevelUnknown
	}
	if !knownLogFormats[strings.ToLower(c.LogFormat)] {
		return ErrLogFormatUnknown
	}
	return nil
}
