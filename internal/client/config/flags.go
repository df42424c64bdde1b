package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/ingeniuz/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   GraphQL endpoint override
//	-d string   sqlite database path
//	-t int      request timeout in seconds
//	-dev        development identity provider
//
// os.Args is filtered with flagx.FilterArgs first so -c/-config and anything
// meant for other components does not reach this flag set.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t"}, "-dev")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointOverride, "a", cfg.EndpointOverride, "GraphQL endpoint of the identity provider")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.BoolVar(&cfg.DevProvider, "dev", cfg.DevProvider, "use the development identity provider")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only an explicit -t replaces the timeout; the seconds default would
	// truncate sub-second values coming from JSON.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
