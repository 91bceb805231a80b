// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config manages chatview configuration.
//
// Configuration is stored as TOML at ~/.chatview/config.toml and may be
// overridden with CHATVIEW_* environment variables. A file watcher can
// reload the configuration in place when the file changes on disk.
//
// Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Renderer.Theme)
package config
