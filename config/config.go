package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port         int           `mapstructure:"port" envconfig:"SERVER_PORT"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" envconfig:"DB_HOST"`
	Port     int    `mapstructure:"port" envconfig:"DB_PORT"`
	User     string `mapstructure:"user" envconfig:"DB_USER"`
	Password string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name     string `mapstructure:"name" envconfig:"DB_NAME"`
	SSLMode  string `mapstructure:"sslmode" envconfig:"DB_SSLMODE"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url" envconfig:"REDIS_URL"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret" envconfig:"JWT_SECRET"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

// AdvisorConfig configures the external scoring service used for hospital
// selection and health-risk assessment. An empty APIKey means both
// consumers are constructed in fallback-only mode; the decision is made
// once at startup, not per call.
type AdvisorConfig struct {
	APIKey  string        `mapstructure:"api_key" envconfig:"ADVISOR_API_KEY"`
	BaseURL string        `mapstructure:"base_url" envconfig:"ADVISOR_BASE_URL"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether a credential is configured.
func (c AdvisorConfig) Enabled() bool { return c.APIKey != "" }

type MatchingConfig struct {
	FanoutRadiusKm    float64       `mapstructure:"fanout_radius_km"`
	BrowseRadiusKm    float64       `mapstructure:"browse_radius_km"`
	BestDonorRadiusKm float64       `mapstructure:"best_donor_radius_km"`
	HospitalCacheTTL  time.Duration `mapstructure:"hospital_cache_ttl"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host" envconfig:"SMTP_HOST"`
	Port     int    `mapstructure:"port" envconfig:"SMTP_PORT"`
	Username string `mapstructure:"username" envconfig:"SMTP_USERNAME"`
	Password string `mapstructure:"password" envconfig:"SMTP_PASSWORD"`
	From     string `mapstructure:"from"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Advisor   AdvisorConfig   `mapstructure:"advisor"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
}

// Load reads config.yml from the usual locations and then applies
// environment overrides via envconfig.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app")
	viper.AddConfigPath("/app/config")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.JWT.ExpiryHours == 0 {
		c.JWT.ExpiryHours = 24
	}
	if c.Advisor.BaseURL == "" {
		c.Advisor.BaseURL = "https://api.openai.com/v1"
	}
	if c.Advisor.Model == "" {
		c.Advisor.Model = "gpt-3.5-turbo"
	}
	if c.Advisor.Timeout == 0 {
		c.Advisor.Timeout = 15 * time.Second
	}
	if c.Matching.FanoutRadiusKm == 0 {
		c.Matching.FanoutRadiusKm = 50
	}
	if c.Matching.BrowseRadiusKm == 0 {
		c.Matching.BrowseRadiusKm = 20
	}
	if c.Matching.BestDonorRadiusKm == 0 {
		c.Matching.BestDonorRadiusKm = 100
	}
	if c.Matching.HospitalCacheTTL == 0 {
		c.Matching.HospitalCacheTTL = 5 * time.Minute
	}
	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 50
		c.RateLimit.Burst = 100
	}
}
