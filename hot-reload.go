// hot-reload.go: dynamic tier sizing with Argus integration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reelcache

import (
	"sync"
	"time"

	"github.com/agilira/argus"
)

// HotConfig watches a configuration file and resizes the coordinator's
// tiers whenever the file changes.
type HotConfig struct {
	coord   *Coordinator
	watcher *argus.Watcher
	logger  Logger
	mu      sync.RWMutex
	config  Config

	// OnReload is called after configuration is successfully reloaded.
	// This callback is optional and must be fast and non-blocking.
	OnReload func(oldConfig, newConfig Config)
}

// HotConfigOptions configures hot reload behavior.
type HotConfigOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after configuration is successfully reloaded.
	OnReload func(oldConfig, newConfig Config)

	// Logger for hot reload operations.
	// If nil, uses the coordinator's logger.
	Logger Logger
}

// NewHotConfig creates a hot-reloadable configuration for coord. Call
// Start to begin watching.
//
// Example configuration file (YAML):
//
//	cache:
//	  max_per_user: 5
//	  max_global: 20
//
// Supported configuration keys:
//   - cache.max_per_user (int): L1 entries kept per user
//   - cache.max_global (int): entries in the shared L2 tier
//
// Missing or invalid keys keep the coordinator's current value. Shrinking a
// tier evicts by that tier's own policy.
func NewHotConfig(coord *Coordinator, opts HotConfigOptions) (*HotConfig, error) {
	if coord == nil {
		return nil, NewErrInvalidConfig("coordinator is required")
	}
	if opts.ConfigPath == "" {
		return nil, NewErrInvalidConfig("config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	if opts.Logger == nil {
		opts.Logger = coord.Logger()
	}

	hc := &HotConfig{
		coord:    coord,
		logger:   opts.Logger,
		OnReload: opts.OnReload,
		config:   coord.Config(),
	}

	argusConfig := argus.Config{
		PollInterval: opts.PollInterval,
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes.
func (hc *HotConfig) Start() error {
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
func (hc *HotConfig) Stop() error {
	return hc.watcher.Stop()
}

// GetConfig returns the current configuration (thread-safe).
func (hc *HotConfig) GetConfig() Config {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.config
}

// handleConfigChange is called by Argus when configuration changes.
func (hc *HotConfig) handleConfigChange(configData map[string]interface{}) {
	hc.mu.Lock()
	oldConfig := hc.config
	newConfig := parseConfig(oldConfig, configData)
	if err := hc.coord.Resize(newConfig.MaxPerUser, newConfig.MaxGlobal); err != nil {
		hc.mu.Unlock()
		hc.logger.Error("config reload rejected", "error", err)
		return
	}
	hc.config = newConfig
	hc.mu.Unlock()

	hc.logger.Info("config reloaded",
		"max_per_user", newConfig.MaxPerUser, "max_global", newConfig.MaxGlobal)

	if hc.OnReload != nil {
		hc.OnReload(oldConfig, newConfig)
	}
}

// parsePositiveInt extracts a positive integer from interface{} value.
// Supports both int and float64 types (YAML/JSON may vary).
func parsePositiveInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		if v > 0 {
			return v, true
		}
	case int64:
		if v > 0 {
			return int(v), true
		}
	case float64:
		if v > 0 {
			return int(v), true
		}
	}
	return 0, false
}

// parseConfig overlays the cache section of data on base.
func parseConfig(base Config, data map[string]interface{}) Config {
	config := base

	// Argus might nest the section or provide it directly
	section, ok := data["cache"].(map[string]interface{})
	if !ok {
		section = data
	}

	if n, ok := parsePositiveInt(section["max_per_user"]); ok {
		config.MaxPerUser = n
	}
	if n, ok := parsePositiveInt(section["max_global"]); ok {
		config.MaxGlobal = n
	}
	return config
}
