// chatview - chat message rendering service with a live HTML preview.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jeranaias/chatview/internal/config"
	"github.com/jeranaias/chatview/internal/render"
	"github.com/jeranaias/chatview/internal/server"
	"github.com/jeranaias/chatview/internal/storage"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to config file (default ~/.chatview/config.toml)")
		port        = flag.Int("port", 0, "override the configured port")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("chatview %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "chatview: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, portOverride int) error {
	// Load configuration
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
		if p, pathErr := config.ConfigPath(); pathErr == nil {
			configPath = p
		}
	}
	if err != nil {
		return err
	}
	if portOverride != 0 {
		cfg.Server.Port = portOverride
	}

	// Open message storage
	store, err := storage.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open message store: %w", err)
	}
	defer store.Close()

	// Build the server from the loaded configuration
	srv := server.NewServer(cfg.Server.Port).
		WithStore(store).
		WithRenderDefaults(cfg.RenderOptions(), &render.ChannelContext{Config: cfg.Channel}).
		WithRateLimit(cfg.Server.RateLimitPerMinute).
		WithAuth(&server.AuthConfig{
			Enabled:     cfg.Server.AuthEnabled,
			BearerToken: cfg.Server.BearerToken,
		})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Hot-reload render defaults when the config file changes. Falls back
	// to polling where fsnotify watches cannot be established.
	if configPath != "" {
		onReload := func(next *config.Config) {
			srv.WithRenderDefaults(next.RenderOptions(), &render.ChannelContext{Config: next.Channel})
		}

		var watcher config.FileWatcher
		if fw, err := config.NewWatcher(configPath, 500*time.Millisecond, onReload); err == nil {
			if err := fw.Watch(); err == nil {
				watcher = fw
			} else {
				fw.Close()
				log.Printf("CONFIG_WATCH_FALLBACK | err=%v", err)
			}
		} else {
			log.Printf("CONFIG_WATCH_FALLBACK | err=%v", err)
		}
		if watcher == nil {
			pw := config.NewPollingWatcher(configPath, 2*time.Second, onReload)
			if err := pw.Watch(); err != nil {
				log.Printf("CONFIG_WATCH_DISABLED | err=%v", err)
			} else {
				watcher = pw
			}
		}
		if watcher != nil {
			defer watcher.Close()
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	}

	return nil
}
