// Package main implements the jsonrepair CLI: a thin wrapper exposing the
// jsonrepair library as a command-line tool, an HTTP service, and a
// directory watcher. None of these subcommands add repair semantics beyond
// jsonrepair.Repair; they only add I/O, logging, and transport.
package main

import (
	"github.com/spf13/cobra"

	"github.com/corvidlabs/jsonrepair/internal/config"
)

// cfg holds the layered configuration: built-in defaults, overlaid by an
// optional .env file, overlaid in turn by whatever flags the caller passes.
var cfg = config.Load("", config.Defaults())

var rootCmd = &cobra.Command{
	Use:          "jsonrepair [file]",
	Short:        "jsonrepair",
	SilenceUsage: true,
	Long:         "Repair malformed JSON produced by LLMs, scrapers, and hand-edited config files.",
	Args:         cobra.MaximumNArgs(1),
	RunE:         runFix,
}

// Execute runs the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "logrus level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "optional redis address for the serve cache")
	return rootCmd.Execute()
}
