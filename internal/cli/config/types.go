// Package config provides configuration management for the vela CLI.
//
// Values are layered with koanf: built-in defaults, then vela.yaml, then
// VELA_* environment variables, then explicitly set command-line flags.
package config

import (
	"time"

	"github.com/leapstack-labs/vela/pkg/extensions"
)

// Config holds all CLI configuration options.
type Config struct {
	Extensions   []string    `koanf:"extensions"`
	LogLevel     string      `koanf:"log_level"`
	Verbose      bool        `koanf:"verbose"`
	OutputFormat string      `koanf:"output"`
	MaxCallDepth int         `koanf:"max_call_depth"`
	Timezone     string      `koanf:"timezone"`
	HTTP         HTTPConfig  `koanf:"http"`
	Store        StoreConfig `koanf:"store"`
	REPL         REPLConfig  `koanf:"repl"`
	ProjectRoot  string      `koanf:"-"`
}

// HTTPConfig configures the http extension.
type HTTPConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

// StoreConfig configures the store extension.
type StoreConfig struct {
	Path string `koanf:"path"`
}

// REPLConfig configures the interactive shell.
type REPLConfig struct {
	HistoryFile string `koanf:"history_file"`
}

// Default configuration values.
const (
	DefaultLogLevel     = "warn"
	DefaultOutput       = "auto" // TTY=styled text, non-TTY=plain text
	DefaultMaxCallDepth = 512
	DefaultHTTPTimeout  = "10s"
	DefaultStorePath    = ":memory:"
	DefaultHistoryFile  = "~/.vela_history"
	DefaultTimezone     = "Local"
)

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		Extensions:   extensions.Names(),
		LogLevel:     DefaultLogLevel,
		OutputFormat: DefaultOutput,
		MaxCallDepth: DefaultMaxCallDepth,
		Timezone:     DefaultTimezone,
		HTTP:         HTTPConfig{Timeout: 10 * time.Second},
		Store:        StoreConfig{Path: DefaultStorePath},
		REPL:         REPLConfig{HistoryFile: expandHome(DefaultHistoryFile)},
	}
}
