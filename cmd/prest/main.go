// Command prest is the CLI front end over the estimation, consistency,
// simulation and RPC packages: a "serve" subcommand exposes them over
// stdin/stdout and WebSocket, while "estimate", "consistency" and
// "simulate" run a single request from the shell, reading and writing
// CSV via csvio.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/prestsoftware/prest/internal/config"
	"github.com/prestsoftware/prest/internal/obslog"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "prest",
		Short: "Revealed-preference choice-model estimation engine",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (see internal/config.Config)")

	root.AddCommand(
		serveCmd(),
		estimateCmd(),
		consistencyCmd(),
		simulateCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads configPath if set, else returns a zero Config (every
// one-shot subcommand treats a missing precomputed-preorders path as
// "size-7 models unsupported" rather than a hard failure at startup).
func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Config{}, nil
	}
	return config.Load(configPath)
}

func parseLevel(s string) zerolog.Level {
	if s == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// consoleLogger builds an obslog.Logger for interactive subcommands,
// honouring cfg.RPC.LogLevel if a config file set one.
func consoleLogger(cfg config.Config) *obslog.Logger {
	return obslog.NewConsole(parseLevel(cfg.RPC.LogLevel))
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
