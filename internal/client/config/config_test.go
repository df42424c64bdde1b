package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "InGeniuZ", c.AppName)
	assert.Equal(t, "development", c.AppEnv)
	assert.Equal(t, AuditBackendSQLite, c.AuditBackend)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.False(t, c.DevProvider)
}

func TestGraphQLEndpoint(t *testing.T) {
	c := Config{GraphQLEndpointDev: "http://dev", GraphQLEndpointProd: "https://prod"}

	c.AppEnv = "development"
	assert.Equal(t, "http://dev", c.GraphQLEndpoint())

	c.AppEnv = "staging"
	assert.Equal(t, "http://dev", c.GraphQLEndpoint())

	c.AppEnv = "production"
	assert.Equal(t, "https://prod", c.GraphQLEndpoint())

	c.EndpointOverride = "http://override"
	assert.Equal(t, "http://override", c.GraphQLEndpoint())
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs, origLookup := os.Args, lookupEnv
	t.Cleanup(func() { os.Args, lookupEnv = origArgs, origLookup })

	path := writeTempJSON(t, "", "", map[string]any{
		"app_env":       "production",
		"database_path": "/json/app.db",
		"log_level":     "debug",
	})
	lookupEnv = fakeEnv(map[string]string{
		"INGENIUZ_DB":        "/env/app.db",
		"INGENIUZ_LOG_LEVEL": "warn",
	})
	os.Args = []string{"cli", "-c", path, "-d", "/flag/app.db"}

	cfg := LoadConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "/flag/app.db", cfg.DatabasePath)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, cfg.GraphQLEndpointProd, cfg.GraphQLEndpoint())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs, origLookup := os.Args, lookupEnv
	t.Cleanup(func() { os.Args, lookupEnv = origArgs, origLookup })
	os.Args = []string{"cli"}
	lookupEnv = fakeEnv(nil)

	cfg := LoadConfig()

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, cfg)
}
