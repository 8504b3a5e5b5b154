package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/corvidlabs/jsonrepair/internal/config"
	"github.com/corvidlabs/jsonrepair/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch <path>",
	Short: "Watch a file or directory and repair each changed document",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := config.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := watcher.New(logger, time.Duration(cfg.WatchDebounceMs)*time.Millisecond)

	logger.WithField("path", args[0]).Info("watching")
	if err := w.Run(args[0], ctx.Done()); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}
