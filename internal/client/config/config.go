package config

import "time"

// Audit log backends.
const (
	AuditBackendSQLite = "sqlite"
	AuditBackendS3     = "s3"
)

const envProduction = "production"

// Config holds runtime settings for the InGeniuZ CLI.
//
// GraphQLEndpoint picks the endpoint that is actually dialed.
// RequestTimeout bounds a single remote call; it is a time.Duration.
type Config struct {
	AppName      string
	AppEnv       string
	SupportEmail string

	GraphQLEndpointDev  string
	GraphQLEndpointProd string
	// EndpointOverride wins over both environment endpoints when set.
	EndpointOverride string
	RequestTimeout   time.Duration

	DatabasePath string
	DeviceSecret string

	AuditBackend string
	S3Bucket     string
	S3Region     string
	S3Endpoint   string
	S3AccessKey  string
	S3SecretKey  string
	S3Prefix     string

	DevProvider bool
	LogLevel    string
	MetricsAddr string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.AppName = "InGeniuZ"
	c.AppEnv = "development"
	c.SupportEmail = "support@example.com"
	c.GraphQLEndpointDev = "http://127.0.0.1:4000/graphql"
	c.GraphQLEndpointProd = "https://api.ingeniuz.example.com/graphql"
	c.EndpointOverride = ""
	c.RequestTimeout = 15 * time.Second
	c.DatabasePath = "ingeniuz.db"
	c.DeviceSecret = ""
	c.AuditBackend = AuditBackendSQLite
	c.S3Region = "us-east-1"
	c.S3Prefix = "audit/"
	c.DevProvider = false
	c.LogLevel = "info"
	c.MetricsAddr = ""
}

// GraphQLEndpoint returns the production endpoint when AppEnv is
// "production" and the development endpoint otherwise.
func (c *Config) GraphQLEndpoint() string {
	if c.EndpointOverride != "" {
		return c.EndpointOverride
	}
	if c.AppEnv == envProduction {
		return c.GraphQLEndpointProd
	}
	return c.GraphQLEndpointDev
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
