// Package config loads runtime configuration for the flipkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .yaml/.yml are YAML, anything else is JSON.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the node gRPC endpoint
//	-d string   local database file
//	-i int      sync interval (seconds)
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # File schema
//
//	{
//	  "node_endpoint_addr": "127.0.0.1:9010",
//	  "database_path": "flipkeeper.db",
//	  "sync_interval": "5s",
//	  "request_timeout": "10s",
//	  "log_level": "info"
//	}
package config
