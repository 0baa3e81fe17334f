package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/flipkeeper/internal/flagx"
	"github.com/dmitrijs2005/flipkeeper/internal/timex"
)

// FileConfig is the on-disk shape of the config file. Intervals use
// timex.Duration so they can be written as "5s" or integer nanoseconds.
// Zero values leave the current setting untouched.
type FileConfig struct {
	NodeEndpointAddr string         `json:"node_endpoint_addr" yaml:"node_endpoint_addr"`
	DatabasePath     string         `json:"database_path" yaml:"database_path"`
	SyncInterval     timex.Duration `json:"sync_interval" yaml:"sync_interval"`
	RequestTimeout   timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	LogLevel         string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays cfg with the file named by -c/-config. Files ending in
// .yaml or .yml are read as YAML, everything else as JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc FileConfig) apply(cfg *Config) {
	if fc.NodeEndpointAddr != "" {
		cfg.NodeEndpointAddr = fc.NodeEndpointAddr
	}
	if fc.DatabasePath != "" {
		cfg.DatabasePath = fc.DatabasePath
	}
	if fc.SyncInterval.Duration > 0 {
		cfg.SyncInterval = fc.SyncInterval.Duration
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
}
