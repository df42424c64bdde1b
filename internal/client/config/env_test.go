package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fakeEnv(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestParseEnv(t *testing.T) {
	orig := lookupEnv
	t.Cleanup(func() { lookupEnv = orig })

	lookupEnv = fakeEnv(map[string]string{
		"GRAPHQL_API_ENDPOINT_DEV":  "http://dev.local/graphql",
		"GRAPHQL_API_ENDPOINT_PROD": "https://prod.example/graphql",
		"APP_ENV":                   "production",
		"APP_NAME":                  "Budget",
		"SUPPORT_EMAIL":             "help@example.com",
		"INGENIUZ_AUDIT_BACKEND":    "s3",
		"INGENIUZ_S3_BUCKET":        "audit",
		"INGENIUZ_S3_ENDPOINT":      "",
	})

	cfg := &Config{S3Endpoint: "http://minio:9000"}
	parseEnv(cfg)

	assert.Equal(t, "http://dev.local/graphql", cfg.GraphQLEndpointDev)
	assert.Equal(t, "https://prod.example/graphql", cfg.GraphQLEndpoint())
	assert.Equal(t, "Budget", cfg.AppName)
	assert.Equal(t, "help@example.com", cfg.SupportEmail)
	assert.Equal(t, "s3", cfg.AuditBackend)
	assert.Equal(t, "audit", cfg.S3Bucket)
	assert.Equal(t, "http://minio:9000", cfg.S3Endpoint, "empty variables are ignored")
}
