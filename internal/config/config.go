package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode string `mapstructure:"mode"` // debug or release
	Addr string `mapstructure:"addr"`

	DatabaseURL string `mapstructure:"database_url"`
	RedisAddr   string `mapstructure:"redis_addr"`
	RedisDB     int    `mapstructure:"redis_db"`

	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`

	CORSOrigins []string `mapstructure:"cors_origins"`

	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	GatewayBaseURL string        `mapstructure:"gateway_base_url"`
	GatewayAPIKey  string        `mapstructure:"gateway_api_key"`
	GatewayTimeout time.Duration `mapstructure:"gateway_timeout"`

	AdminEmail string `mapstructure:"admin_email"`
	SMTPAddr   string `mapstructure:"smtp_addr"`
	SMTPFrom   string `mapstructure:"smtp_from"`

	OutboxWorkers      int           `mapstructure:"outbox_workers"`
	OutboxBatchSize    int           `mapstructure:"outbox_batch_size"`
	OutboxPoll         time.Duration `mapstructure:"outbox_poll"`
	OutboxMaxAttempts  int           `mapstructure:"outbox_max_attempts"`

	SpamMaxRequests   int           `mapstructure:"spam_max_requests"`
	SpamWindow        time.Duration `mapstructure:"spam_window"`
	SpamBlockDuration time.Duration `mapstructure:"spam_block_duration"`
	SpamUseRedis      bool          `mapstructure:"spam_use_redis"`

	// RateLimitRPS throttles the write endpoints globally.
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`

	SentryDSN    string `mapstructure:"sentry_dsn"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// Load reads config from environment variables (prefix STUDAHUB_) with the
// defaults below; a .env file is merged beforehand by the caller.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("studahub")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", "debug")
	v.SetDefault("addr", ":8080")
	v.SetDefault("database_url", "host=localhost user=postgres password=postgres dbname=studahub port=5432 sslmode=disable")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("jwt_secret", "dev-secret-change-me")
	v.SetDefault("token_ttl", "24h")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("cache_ttl", "5m")
	v.SetDefault("gateway_base_url", "https://sandbox.asaas.com/api")
	v.SetDefault("gateway_timeout", "15s")
	v.SetDefault("admin_email", "")
	v.SetDefault("smtp_addr", "")
	v.SetDefault("smtp_from", "no-reply@studahub.com")
	v.SetDefault("outbox_workers", 2)
	v.SetDefault("outbox_batch_size", 50)
	v.SetDefault("outbox_poll", "5s")
	v.SetDefault("outbox_max_attempts", 3)
	v.SetDefault("spam_max_requests", 5)
	v.SetDefault("spam_window", "1m")
	v.SetDefault("spam_block_duration", "15m")
	v.SetDefault("spam_use_redis", false)
	v.SetDefault("rate_limit_rps", 20.0)
	v.SetDefault("rate_limit_burst", 40)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
