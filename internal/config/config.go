// Package config loads the prest server configuration from a YAML file
// and keeps it current via a filesystem watch: the precomputed-preorders
// file path and RPC server options can change without a restart.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoPrecomputedPreorders is returned by Validate when a config omits
// the precomputed-preorders file path.
var ErrNoPrecomputedPreorders = errors.New("config: precomputed_preorders path is required")

// RPC holds the options for the rpc.StreamServer/rpc.WSServer transports.
type RPC struct {
	// ListenWS is the address the WebSocket transport binds to (e.g.
	// ":8080"). Empty disables it; the stdin/stdout transport always
	// runs regardless.
	ListenWS string `yaml:"listen_ws"`

	// LogLevel names a zerolog level ("debug", "info", "warn", "error").
	// Empty defaults to "info".
	LogLevel string `yaml:"log_level"`
}

// Config is the full prest configuration.
type Config struct {
	// PrecomputedPreorders is the path to the little-endian FastPreorder
	// sequence file backing size-7 preorder tables.
	PrecomputedPreorders string `yaml:"precomputed_preorders"`

	RPC RPC `yaml:"rpc"`
}

// Validate reports whether c is complete enough to run the server.
func (c Config) Validate() error {
	if c.PrecomputedPreorders == "" {
		return ErrNoPrecomputedPreorders
	}
	return nil
}

// Load reads and parses the YAML config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
