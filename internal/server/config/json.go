package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/remember/internal/flagx"
	"github.com/dmitrijs2005/remember/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations accept both "168h"
// strings and integer nanoseconds.
type JsonConfig struct {
	HTTPAddr              string         `json:"http_addr"`
	GRPCHealthAddr        string         `json:"grpc_health_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	EncryptionKey         string         `json:"encryption_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	Environment           string         `json:"environment"`
	AllowedOrigins        []string       `json:"allowed_origins"`
	TrustProxy            bool           `json:"trust_proxy"`
	AuthRateLimitRPS      float64        `json:"auth_rate_limit_rps"`
	AuthRateLimitBurst    int            `json:"auth_rate_limit_burst"`
	YouTubeBaseURL        string         `json:"youtube_base_url"`
	FetchTimeout          timex.Duration `json:"fetch_timeout"`
	S3AccessKey           string         `json:"s3_access_key"`
	S3SecretKey           string         `json:"s3_secret_key"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
}

// parseJson overlays values from the file given with -c/-config. Keys that
// are absent from the file leave the current values untouched. An unreadable
// or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCHealthAddr, c.GRPCHealthAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.EncryptionKey, c.EncryptionKey)
	setString(&config.Environment, c.Environment)
	setString(&config.YouTubeBaseURL, c.YouTubeBaseURL)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.FetchTimeout.Duration > 0 {
		config.FetchTimeout = c.FetchTimeout.Duration
	}
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.TrustProxy {
		config.TrustProxy = true
	}
	if c.AuthRateLimitRPS > 0 {
		config.AuthRateLimitRPS = c.AuthRateLimitRPS
	}
	if c.AuthRateLimitBurst > 0 {
		config.AuthRateLimitBurst = c.AuthRateLimitBurst
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
