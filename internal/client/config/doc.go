// Package config loads runtime configuration for the InGeniuZ CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   GraphQL endpoint, overrides the APP_ENV selection
//	-d string   path of the local sqlite database
//	-t int      request timeout (seconds)
//	-dev        use the in-process development identity provider
//
// Environment
//
//	GRAPHQL_API_ENDPOINT_DEV, GRAPHQL_API_ENDPOINT_PROD, APP_ENV, APP_NAME,
//	SUPPORT_EMAIL, INGENIUZ_DB, INGENIUZ_DEVICE_SECRET, INGENIUZ_AUDIT_BACKEND,
//	INGENIUZ_S3_BUCKET, INGENIUZ_S3_REGION, INGENIUZ_S3_ENDPOINT,
//	INGENIUZ_S3_ACCESS_KEY, INGENIUZ_S3_SECRET_KEY, INGENIUZ_LOG_LEVEL
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so it can be either a
// string like "15s" or integer nanoseconds:
//
//	{
//	  "app_env": "production",
//	  "graphql_endpoint_prod": "https://api.example.com/graphql",
//	  "request_timeout": "15s",
//	  "audit_backend": "s3",
//	  "s3": {"bucket": "audit", "endpoint": "http://127.0.0.1:9000"}
//	}
//
// Only keys present in the file are applied.
package config
