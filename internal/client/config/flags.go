package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/flipkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   node address and port
//	-d string   database file
//	-i int      sync interval (in seconds)
//	-t int      request timeout (in seconds)
//	-l string   log level
//
// Only these flags are taken from args (see flagx.FilterArgs), so other
// components may share the command line.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-i", "-t", "-l"})

	fs := flag.NewFlagSet("flipkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.NodeEndpointAddr, "a", cfg.NodeEndpointAddr, "address and port of the node")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database")
	syncInterval := fs.Int("i", int(cfg.SyncInterval.Seconds()), "sync interval (in seconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.SyncInterval = time.Duration(*syncInterval) * time.Second
	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	return nil
}
