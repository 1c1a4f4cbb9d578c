package config

import (
	"strings"
	"testing"
	"time"
)

// TestParseEnv 环境名解析
func TestParseEnv(t *testing.T) {
	tests := []struct {
		input string
		want  Environment
	}{
		{"test", EnvTest},
		{"prod", EnvProduction},
		{"production", EnvProduction},
		{"dev", EnvDevelopment},
		{"", EnvDevelopment},
		{"staging", EnvDevelopment},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseEnv(tt.input); got != tt.want {
				t.Errorf("parseEnv(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestLoad_Defaults 无配置文件时使用默认值
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("MONGO_URI", "")
	t.Setenv("API_PORT", "")

	cfg := Load()

	if cfg.Env != EnvTest {
		t.Errorf("Env = %v, want test", cfg.Env)
	}
	if cfg.APIPort == "" {
		t.Error("APIPort should have a default")
	}
	if cfg.MongoDB == "" {
		t.Error("MongoDB should have a default")
	}
	if cfg.Auth.TokenTTL == 0 {
		t.Error("TokenTTL should have a default")
	}
}

// TestLoad_EnvOverrides 环境变量覆盖 YAML
func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("API_PORT", "9999")
	t.Setenv("MONGO_URI", "mongodb://override:27017")
	t.Setenv("MONGO_DB", "override_db")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := Load()

	if cfg.APIPort != "9999" {
		t.Errorf("APIPort = %q, want 9999", cfg.APIPort)
	}
	if cfg.MongoURI != "mongodb://override:27017" {
		t.Errorf("MongoURI = %q", cfg.MongoURI)
	}
	if cfg.MongoDB != "override_db" {
		t.Errorf("MongoDB = %q", cfg.MongoDB)
	}
	if cfg.Auth.JWTSecret != "test-secret" {
		t.Errorf("JWTSecret = %q", cfg.Auth.JWTSecret)
	}
}

// TestValidate 默认值填充
func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.validate()

	if cfg.APIPort != "5000" {
		t.Errorf("APIPort = %q, want 5000", cfg.APIPort)
	}
	if cfg.Auth.TokenTTL != 12*time.Hour {
		t.Errorf("TokenTTL = %v, want 12h", cfg.Auth.TokenTTL)
	}
}

// TestString_NoSecrets 配置摘要不泄漏密钥
func TestString_NoSecrets(t *testing.T) {
	cfg := &Config{
		Env:      EnvDevelopment,
		APIPort:  "5000",
		MongoURI: "mongodb://127.0.0.1:27017",
		MongoDB:  "ty-db",
		Auth:     AuthConfig{JWTSecret: "super-secret"},
	}
	s := cfg.String()
	if strings.Contains(s, "super-secret") {
		t.Errorf("String() leaks JWT secret: %s", s)
	}
}
