package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/corvidlabs/jsonrepair/internal/cache"
	"github.com/corvidlabs/jsonrepair/internal/config"
	"github.com/corvidlabs/jsonrepair/internal/server"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an HTTP server exposing POST /repair",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "address to listen on (overrides config default)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := config.NewLogger(cfg)
	addr := listenAddr
	if addr == "" {
		addr = cfg.ListenAddr
	}

	var repairCache *cache.RepairCache
	if cfg.RedisAddr != "" {
		c, err := cache.New(cfg.RedisAddr, time.Duration(cfg.CacheTTLSecs)*time.Second)
		if err != nil {
			logger.WithError(err).Warn("failed to connect to redis cache, continuing without it")
		} else {
			repairCache = c
			defer repairCache.Close()
		}
	}

	var srv *server.Server
	if repairCache != nil {
		srv = server.New(repairCache, logger)
	} else {
		srv = server.New(nil, logger)
	}

	logger.WithField("addr", addr).Info("listening")
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
