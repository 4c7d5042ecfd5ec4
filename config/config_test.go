package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("DB_CONNECT_ATTEMPTS", "")
	t.Setenv("TOKEN_DURATION", "")

	cfg := Load()

	if cfg.LLMProvider != "gemini" {
		t.Errorf("provider = %q, want gemini", cfg.LLMProvider)
	}
	if cfg.DBConnectAttempts != 6 {
		t.Errorf("db connect attempts = %d, want 6", cfg.DBConnectAttempts)
	}
	if cfg.TokenDuration != 24*time.Hour {
		t.Errorf("token duration = %v, want 24h", cfg.TokenDuration)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_CONNECT_ATTEMPTS", "3")
	t.Setenv("TOKEN_DURATION", "1h")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "key-123")

	cfg := Load()
	if cfg.DBConnectAttempts != 3 {
		t.Errorf("db connect attempts = %d, want 3", cfg.DBConnectAttempts)
	}
	if cfg.TokenDuration != time.Hour {
		t.Errorf("token duration = %v, want 1h", cfg.TokenDuration)
	}
	if cfg.APIKey() != "key-123" {
		t.Errorf("APIKey() = %q, want the OpenAI key for the openai provider", cfg.APIKey())
	}
}

func TestLoadBadIntFallsBack(t *testing.T) {
	t.Setenv("DB_CONNECT_ATTEMPTS", "not-a-number")

	cfg := Load()
	if cfg.DBConnectAttempts != 6 {
		t.Errorf("db connect attempts = %d, want default 6 on unparsable value", cfg.DBConnectAttempts)
	}
}
