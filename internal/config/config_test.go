package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Token: TokenConfig{
			SigningKey:  "key",
			MaxLifetime: time.Hour,
		},
		Webhook: WebhookConfig{Secret: "secret"},
		Revocation: RevocationConfig{
			TemporaryTTL:  25 * time.Hour,
			ClockSkew:     5 * time.Minute,
			FailurePolicy: "fail_open",
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("accepts valid config", func(t *testing.T) {
		if err := validConfig().Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("rejects window shorter than token lifetime plus skew", func(t *testing.T) {
		cfg := validConfig()
		cfg.Revocation.TemporaryTTL = time.Hour
		cfg.Revocation.ClockSkew = 5 * time.Minute

		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected error: revocations could expire before the tokens they cover")
		}
		if !strings.Contains(err.Error(), "temporary_ttl") {
			t.Errorf("error should name the offending setting: %v", err)
		}
	})

	t.Run("accepts window exactly at the boundary", func(t *testing.T) {
		cfg := validConfig()
		cfg.Revocation.TemporaryTTL = cfg.Token.MaxLifetime + cfg.Revocation.ClockSkew

		if err := cfg.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("requires explicit failure policy", func(t *testing.T) {
		cfg := validConfig()
		cfg.Revocation.FailurePolicy = ""

		if err := cfg.Validate(); err == nil {
			t.Fatal("the failure policy must be a deliberate choice")
		}
	})

	t.Run("rejects unknown failure policy", func(t *testing.T) {
		cfg := validConfig()
		cfg.Revocation.FailurePolicy = "fail_sideways"

		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error for unknown policy")
		}
	})

	t.Run("requires signing key and webhook secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.Token.SigningKey = ""
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error for missing signing key")
		}

		cfg = validConfig()
		cfg.Webhook.Secret = ""
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error for missing webhook secret")
		}
	})
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AEGIS_TOKEN_SIGNING_KEY", "env-key")
	t.Setenv("AEGIS_WEBHOOK_SECRET", "env-secret")
	t.Setenv("AEGIS_REVOCATION_FAILURE_POLICY", "fail_closed")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Token.SigningKey != "env-key" {
		t.Errorf("signing key not taken from environment: %q", cfg.Token.SigningKey)
	}
	if cfg.Revocation.FailurePolicy != "fail_closed" {
		t.Errorf("failure policy not taken from environment: %q", cfg.Revocation.FailurePolicy)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr expected, got %q", cfg.Server.Addr)
	}
}
