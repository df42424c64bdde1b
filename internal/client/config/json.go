package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/ingeniuz/internal/flagx"
	"github.com/dmitrijs2005/ingeniuz/internal/timex"
)

// JsonS3 is the "s3" object of the JSON config.
type JsonS3 struct {
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Prefix    string `json:"prefix"`
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Pointers distinguish "absent" from "empty" for flags that can be switched off.
type JsonConfig struct {
	AppName             string          `json:"app_name"`
	AppEnv              string          `json:"app_env"`
	SupportEmail        string          `json:"support_email"`
	GraphQLEndpointDev  string          `json:"graphql_endpoint_dev"`
	GraphQLEndpointProd string          `json:"graphql_endpoint_prod"`
	GraphQLEndpoint     string          `json:"graphql_endpoint"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	DatabasePath        string          `json:"database_path"`
	DeviceSecret        string          `json:"device_secret"`
	AuditBackend        string          `json:"audit_backend"`
	S3                  JsonS3          `json:"s3"`
	DevProvider         *bool           `json:"dev_provider"`
	LogLevel            string          `json:"log_level"`
	MetricsAddr         string          `json:"metrics_addr"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&cfg.AppName, jc.AppName)
	set(&cfg.AppEnv, jc.AppEnv)
	set(&cfg.SupportEmail, jc.SupportEmail)
	set(&cfg.GraphQLEndpointDev, jc.GraphQLEndpointDev)
	set(&cfg.GraphQLEndpointProd, jc.GraphQLEndpointProd)
	set(&cfg.EndpointOverride, jc.GraphQLEndpoint)
	set(&cfg.DatabasePath, jc.DatabasePath)
	set(&cfg.DeviceSecret, jc.DeviceSecret)
	set(&cfg.AuditBackend, jc.AuditBackend)
	set(&cfg.S3Bucket, jc.S3.Bucket)
	set(&cfg.S3Region, jc.S3.Region)
	set(&cfg.S3Endpoint, jc.S3.Endpoint)
	set(&cfg.S3AccessKey, jc.S3.AccessKey)
	set(&cfg.S3SecretKey, jc.S3.SecretKey)
	set(&cfg.S3Prefix, jc.S3.Prefix)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.MetricsAddr, jc.MetricsAddr)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DevProvider != nil {
		cfg.DevProvider = *jc.DevProvider
	}
}
