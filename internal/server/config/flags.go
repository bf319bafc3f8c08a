package config

import (
	"flag"
	"os"
	"time"

	"github.com/contactgain/contactgain/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-r int      retention window after expiry, minutes
//	-i int      garbage-collector interval, minutes
//	-l string   VCF filename base label
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-i", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	retentionWindow := fs.Int("r", int(config.RetentionWindow.Minutes()), "retention_window (in minutes)")
	gcInterval := fs.Int("i", int(config.GCInterval.Minutes()), "gc_interval (in minutes)")

	fs.StringVar(&config.VCFBaseLabel, "l", config.VCFBaseLabel, "VCF filename base label")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RetentionWindow = time.Duration(*retentionWindow) * time.Minute
	config.GCInterval = time.Duration(*gcInterval) * time.Minute
}
