// Package config 统一配置管理
//
// 配置加载策略：
//  1. 从 .env 加载敏感信息（JWT 密钥、对象存储凭证）和 APP_ENV
//  2. 根据 APP_ENV 加载对应的 configs/{env}.yaml 配置文件
//  3. 环境变量可覆盖 YAML 配置
//
// 使用方式：
//   - 开发环境: APP_ENV=dev (默认)
//   - 测试环境: APP_ENV=test
//   - 生产环境: APP_ENV=prod
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"modelagency/internal/shared/objstore"
)

// Environment 环境类型
type Environment string

const (
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
	EnvDevelopment Environment = "dev"
)

// YAMLConfig YAML 配置文件结构
type YAMLConfig struct {
	Server ServerConfig    `yaml:"server"`
	Mongo  MongoConfig     `yaml:"mongo"`
	Auth   AuthConfig      `yaml:"auth"`
	MinIO  objstore.Config `yaml:"minio"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// AuthConfig 管理端令牌配置
type AuthConfig struct {
	JWTSecret string        `yaml:"-"` // 从 JWT_SECRET 环境变量读取
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// Config 应用配置（最终使用的配置）
type Config struct {
	Env      Environment
	APIPort  string
	MongoURI string
	MongoDB  string
	Auth     AuthConfig
	MinIO    objstore.Config
}

var configPaths = []string{
	"configs",
	"../configs",
	"../../configs",
	"../../../configs",
}

var envPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"../../../.env",
}

// Load 加载配置
// 1. 加载 .env（敏感信息 + APP_ENV）
// 2. 根据 APP_ENV 加载 configs/{env}.yaml
// 3. 构建最终配置，环境变量优先
func Load() *Config {
	// 加载 .env
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	// 解析环境
	env := parseEnv(getEnv("APP_ENV", "dev"))

	// 加载 YAML 配置
	yamlCfg := loadYAMLConfig(env)

	// 构建最终配置
	cfg := &Config{
		Env:      env,
		APIPort:  getEnv("API_PORT", yamlCfg.Server.Port),
		MongoURI: getEnv("MONGO_URI", yamlCfg.Mongo.URI),
		MongoDB:  getEnv("MONGO_DB", yamlCfg.Mongo.Database),
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  yamlCfg.Auth.TokenTTL,
		},
		MinIO: objstore.Config{
			Endpoint:  getEnv("MINIO_ENDPOINT", yamlCfg.MinIO.Endpoint),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    yamlCfg.MinIO.Bucket,
			UseSSL:    yamlCfg.MinIO.UseSSL,
		},
	}

	cfg.validate()
	return cfg
}

// loadYAMLConfig 加载 YAML 配置文件
// 加载顺序：默认值 → common.yaml → {env}.yaml
func loadYAMLConfig(env Environment) *YAMLConfig {
	// 1. 初始化默认值
	cfg := &YAMLConfig{
		Server: ServerConfig{Port: "5000"},
		Mongo:  MongoConfig{URI: "mongodb://127.0.0.1:27017", Database: "ty-db"},
		Auth:   AuthConfig{TokenTTL: 12 * time.Hour},
	}

	// 2. 加载 common.yaml（公共配置）
	for _, base := range configPaths {
		path := filepath.Join(base, "common.yaml")
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	// 3. 加载 {env}.yaml（环境特定配置，覆盖公共配置）
	filename := fmt.Sprintf("%s.yaml", env)
	for _, base := range configPaths {
		path := filepath.Join(base, filename)
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	return cfg
}

func parseEnv(env string) Environment {
	switch strings.ToLower(env) {
	case "test":
		return EnvTest
	case "prod", "production":
		return EnvProduction
	default:
		return EnvDevelopment
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// validate 填充缺失的默认值
func (c *Config) validate() {
	if c.APIPort == "" {
		c.APIPort = "5000"
	}
	if c.MongoDB == "" {
		c.MongoDB = "ty-db"
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 12 * time.Hour
	}
}

// IsTest 是否为测试环境
func (c *Config) IsTest() bool {
	return c.Env == EnvTest
}

// String 返回配置摘要（不含密钥）
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, Port: %s, Mongo: %s/%s, MinIO: %v}",
		c.Env, c.APIPort, c.MongoURI, c.MongoDB, c.MinIO.Enabled())
}
