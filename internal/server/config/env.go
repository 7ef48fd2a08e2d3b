package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays configuration from environment variables. Values set
// earlier (defaults, JSON) survive unless the variable is present.
// Durations accept time.ParseDuration syntax, e.g. "15m" or "168h".
func parseEnv(config *Config) {
	setString(&config.EndpointAddr, "ENDPOINT_ADDR")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.RedisAddr, "REDIS_ADDR")
	setString(&config.RedisPassword, "REDIS_PASSWORD")
	setInt(&config.RedisDB, "REDIS_DB")
	setString(&config.SecretKey, "SECRET_KEY")
	setDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_VALIDITY_DURATION")
	setDuration(&config.RefreshTokenValidityDuration, "REFRESH_TOKEN_VALIDITY_DURATION")
	setDuration(&config.EmailTokenValidityDuration, "EMAIL_TOKEN_VALIDITY_DURATION")
	setDuration(&config.UserCacheTTL, "USER_CACHE_TTL")
	setString(&config.BaseURL, "BASE_URL")
	setString(&config.SMTPHost, "SMTP_HOST")
	setInt(&config.SMTPPort, "SMTP_PORT")
	setString(&config.SMTPUsername, "SMTP_USERNAME")
	setString(&config.SMTPPassword, "SMTP_PASSWORD")
	setString(&config.SMTPFrom, "SMTP_FROM")
	setString(&config.S3RootUser, "S3_ROOT_USER")
	setString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	setString(&config.S3Bucket, "S3_BUCKET")
	setString(&config.S3Region, "S3_REGION")
	setString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
