package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the flipkeeper CLI.
//
// Fields:
//   - NodeEndpointAddr: host:port of the node gRPC endpoint.
//   - DatabasePath: sqlite file holding the sealed key, flips and preferences.
//   - SyncInterval: how often the client polls the node for epoch and identity.
//   - RequestTimeout: deadline applied to each node call.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	NodeEndpointAddr string
	DatabasePath     string
	SyncInterval     time.Duration
	RequestTimeout   time.Duration
	LogLevel         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.NodeEndpointAddr = "127.0.0.1:9010"
	c.DatabasePath = "flipkeeper.db"
	c.SyncInterval = 5 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
}

// Load builds a Config from defaults, then the config file named by -c or
// -config (JSON or YAML), then flags. Later sources take precedence.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over os.Args. It panics on a malformed config file or
// flag.
func LoadConfig() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}
