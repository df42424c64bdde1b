package config

import "os"

// lookupEnv is replaced in tests.
var lookupEnv = os.LookupEnv

// parseEnv overlays Config with the environment variables listed in the
// package documentation. Empty variables are ignored.
func parseEnv(cfg *Config) {
	for name, dst := range map[string]*string{
		"GRAPHQL_API_ENDPOINT_DEV":  &cfg.GraphQLEndpointDev,
		"GRAPHQL_API_ENDPOINT_PROD": &cfg.GraphQLEndpointProd,
		"APP_ENV":                   &cfg.AppEnv,
		"APP_NAME":                  &cfg.AppName,
		"SUPPORT_EMAIL":             &cfg.SupportEmail,
		"INGENIUZ_DB":               &cfg.DatabasePath,
		"INGENIUZ_DEVICE_SECRET":    &cfg.DeviceSecret,
		"INGENIUZ_AUDIT_BACKEND":    &cfg.AuditBackend,
		"INGENIUZ_S3_BUCKET":        &cfg.S3Bucket,
		"INGENIUZ_S3_REGION":        &cfg.S3Region,
		"INGENIUZ_S3_ENDPOINT":      &cfg.S3Endpoint,
		"INGENIUZ_S3_ACCESS_KEY":    &cfg.S3AccessKey,
		"INGENIUZ_S3_SECRET_KEY":    &cfg.S3SecretKey,
		"INGENIUZ_LOG_LEVEL":        &cfg.LogLevel,
	} {
		if v, ok := lookupEnv(name); ok && v != "" {
			*dst = v
		}
	}
}
