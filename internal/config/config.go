package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration, loaded from a YAML file with
// AEGIS_-prefixed environment overrides.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Token      TokenConfig      `mapstructure:"token"`
	Webhook    WebhookConfig    `mapstructure:"webhook"`
	Revocation RevocationConfig `mapstructure:"revocation"`
	Admin      AdminConfig      `mapstructure:"admin"`
	IdP        IdPConfig        `mapstructure:"idp"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type NATSConfig struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type TokenConfig struct {
	Issuer      string        `mapstructure:"issuer"`
	Audience    string        `mapstructure:"audience"`
	SigningKey  string        `mapstructure:"signing_key"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

type WebhookConfig struct {
	Secret string `mapstructure:"secret"`
}

// RevocationConfig tunes the revocation store and its enforcement.
type RevocationConfig struct {
	// TemporaryTTL is the window a temporary record stays effective. It
	// must cover the longest-lived token plus clock skew, otherwise a
	// revocation could lapse while a token it targets is still valid.
	TemporaryTTL time.Duration `mapstructure:"temporary_ttl"`

	// ClockSkew is the safety margin added on top of the token lifetime
	// when validating TemporaryTTL.
	ClockSkew time.Duration `mapstructure:"clock_skew"`

	// FailurePolicy must be set explicitly to fail_open or fail_closed.
	FailurePolicy string `mapstructure:"failure_policy"`

	// CheckTimeout bounds the per-request store lookup.
	CheckTimeout time.Duration `mapstructure:"check_timeout"`

	// MaxWriteRetries caps the retry attempts for a revocation write.
	MaxWriteRetries uint `mapstructure:"max_write_retries"`
}

type AdminConfig struct {
	Token string `mapstructure:"token"`
}

type IdPConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load reads the configuration file at path (optional when all values come
// from the environment) and applies environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("nats.subject_prefix", "aegis")
	v.SetDefault("token.max_lifetime", time.Hour)
	v.SetDefault("revocation.temporary_ttl", 25*time.Hour)
	v.SetDefault("revocation.clock_skew", 5*time.Minute)
	v.SetDefault("revocation.check_timeout", 100*time.Millisecond)
	v.SetDefault("revocation.max_write_retries", 3)
	v.SetDefault("idp.timeout", 5*time.Second)
	v.SetDefault("logging.level", "info")

	// Keys with no sensible default still need registering so that
	// environment-only deployments are picked up by Unmarshal.
	for _, key := range []string{
		"database.dsn", "redis.addr", "redis.password", "nats.url",
		"token.issuer", "token.audience", "token.signing_key",
		"webhook.secret", "revocation.failure_policy",
		"admin.token", "idp.base_url", "idp.api_key",
	} {
		v.SetDefault(key, "")
	}

	v.SetEnvPrefix("AEGIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that would undermine enforcement. In
// particular the temporary revocation window must outlive every token it may
// need to cover, and the failure policy is a deliberate choice, never a
// default.
func (c *Config) Validate() error {
	if c.Token.SigningKey == "" {
		return errors.New("config: token.signing_key is required")
	}
	if c.Token.MaxLifetime <= 0 {
		return errors.New("config: token.max_lifetime must be positive")
	}
	if c.Webhook.Secret == "" {
		return errors.New("config: webhook.secret is required")
	}

	minTTL := c.Token.MaxLifetime + c.Revocation.ClockSkew
	if c.Revocation.TemporaryTTL < minTTL {
		return fmt.Errorf(
			"config: revocation.temporary_ttl %s is below token.max_lifetime + revocation.clock_skew (%s); temporary revocations would expire before the tokens they cover",
			c.Revocation.TemporaryTTL, minTTL,
		)
	}

	switch c.Revocation.FailurePolicy {
	case "fail_open", "fail_closed":
	case "":
		return errors.New("config: revocation.failure_policy must be set explicitly to fail_open or fail_closed")
	default:
		return fmt.Errorf("config: unknown revocation.failure_policy %q", c.Revocation.FailurePolicy)
	}

	return nil
}
