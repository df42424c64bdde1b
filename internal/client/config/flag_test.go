package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	// Test cases
	tests := []struct {
		start       Config
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd", "-a", "http://127.0.0.1:9090/graphql", "-d", "/tmp/x.db", "-t", "10", "-dev"},
			expected: &Config{EndpointOverride: "http://127.0.0.1:9090/graphql", DatabasePath: "/tmp/x.db", RequestTimeout: 10 * time.Second, DevProvider: true}},
		{name: "bool flag does not eat next arg", args: []string{"cmd", "-dev", "-d", "a.db"},
			expected: &Config{DatabasePath: "a.db", DevProvider: true}},
		{name: "unset timeout keeps sub-second value", args: []string{"cmd", "-c", "cfg.json"},
			start:    Config{RequestTimeout: 1500 * time.Millisecond},
			expected: &Config{RequestTimeout: 1500 * time.Millisecond}},
		{name: "incorrect timeout", args: []string{"cmd", "-t", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := tt.start

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(&config) })
				assert.Empty(t, cmp.Diff(&config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(&config) })
			}
		})
	}
}
