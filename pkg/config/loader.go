package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/app/configs")

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	viper.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	viper.BindEnv("database.url", "DATABASE_URL", "APP_DATABASE_URL")
	viper.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	viper.BindEnv("nats.url", "NATS_URL", "APP_NATS_URL")
	viper.BindEnv("jwt.secret", "JWT_SECRET", "APP_JWT_SECRET")
	viper.BindEnv("vault.address", "VAULT_ADDR", "APP_VAULT_ADDRESS")
	viper.BindEnv("vault.token", "VAULT_TOKEN", "APP_VAULT_TOKEN")
	viper.BindEnv("notification.email.api_key", "SENDGRID_API_KEY", "APP_NOTIFICATION_EMAIL_API_KEY")
	viper.BindEnv("notification.sms.api_key", "TERMII_API_KEY", "APP_NOTIFICATION_SMS_API_KEY")
	viper.BindEnv("app.environment", "APP_ENVIRONMENT")
	viper.BindEnv("logging.level", "LOG_LEVEL")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// no config file: env vars and defaults only
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "paradox")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("http.port", 8080)
	viper.SetDefault("http.read_timeout", "15s")
	viper.SetDefault("http.write_timeout", "15s")
	viper.SetDefault("http.idle_timeout", "60s")
	viper.SetDefault("database.auto_migrate", true)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.conn_max_lifetime", "30m")
	viper.SetDefault("redis.url", "redis://localhost:6379")
	viper.SetDefault("nats.url", "nats://localhost:4222")
	viper.SetDefault("nats.max_reconnects", -1)
	viper.SetDefault("nats.reconnect_wait", "2s")
	viper.SetDefault("nats.timeout", "5s")
	viper.SetDefault("jwt.access_token_duration", "15m")
	viper.SetDefault("jwt.refresh_token_duration", "168h")
	viper.SetDefault("jwt.issuer", "paradox")
	viper.SetDefault("prometheus.enabled", true)
	viper.SetDefault("prometheus.path", "/metrics")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("opentelemetry.enabled", false)
	viper.SetDefault("opentelemetry.jaeger.endpoint", "http://localhost:14268/api/traces")

	viper.SetDefault("cors.enabled", true)
	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.max_requests", 100)
	viper.SetDefault("rate_limiting.window", "1m")
	viper.SetDefault("circuit_breaker.enabled", true)
	viper.SetDefault("circuit_breaker.max_requests", 3)
	viper.SetDefault("circuit_breaker.interval", "1m")
	viper.SetDefault("circuit_breaker.timeout", "30s")
	viper.SetDefault("circuit_breaker.failure_threshold", 0.6)

	viper.SetDefault("notification.email.provider", "smtp")
	viper.SetDefault("notification.email.from", "noreply@viprus.com")
	viper.SetDefault("notification.email.from_name", "Paradox")
	viper.SetDefault("notification.email.smtp_host", "localhost")
	viper.SetDefault("notification.email.smtp_port", 1025)
	viper.SetDefault("notification.admin", "support@viprus.com")
	viper.SetDefault("notification.sms.provider", "termii")
	viper.SetDefault("notification.sms.sender_id", "Paradox")

	viper.SetDefault("roles.admin_phones", []string{
		"+13124202900",
		"+2348146417776",
	})
	viper.SetDefault("roles.vendor_phones", []string{
		"+2347084174994",
		"+2347040759259",
		"+2348143662936",
		"+2347044035084",
		"+2347089902875",
		"+2347048787493",
		"+2349163483144",
		"+2349046428186",
		"+2347071401650",
		"+2348132725834",
	})

	viper.SetDefault("coupons.single_use", false)

	viper.SetDefault("verification.email_code_ttl", "15m")
	viper.SetDefault("verification.phone_code_ttl", "10m")
	viper.SetDefault("verification.max_attempts", 3)
	viper.SetDefault("verification.sweep_interval", "5m")

	viper.SetDefault("withdrawal.processing_hours", 48)
	viper.SetDefault("withdrawal.window_days", 7)

	viper.SetDefault("share.base_url", "https://viprus.com")
}
