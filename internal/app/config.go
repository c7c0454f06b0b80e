package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
	"github.com/shikhonhub/shikhon-backend/internal/utils"
)

type Config struct {
	Port         string        `yaml:"port"`
	Environment  string        `yaml:"environment"`
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	TokenTTL     time.Duration `yaml:"-"`
	AdminEmail   string        `yaml:"admin_email"`
}

// fileConfig mirrors Config for the optional CONFIG_FILE overlay. Only
// non-empty values override what the environment provided.
type fileConfig struct {
	Port            string `yaml:"port"`
	Environment     string `yaml:"environment"`
	JWTSecretKey    string `yaml:"jwt_secret_key"`
	TokenTTLSeconds int    `yaml:"token_ttl_seconds"`
	AdminEmail      string `yaml:"admin_email"`
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:         utils.GetEnv("PORT", "8080", log),
		Environment:  utils.GetEnv("ENVIRONMENT", "development", log),
		JWTSecretKey: utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		TokenTTL:     time.Duration(utils.GetEnvAsInt("TOKEN_TTL", 86400, log)) * time.Second,
		AdminEmail:   utils.GetEnv("ADMIN_EMAIL", "admin@admin.com", log),
	}

	path := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if fc.Port != "" {
		cfg.Port = fc.Port
	}
	if fc.Environment != "" {
		cfg.Environment = fc.Environment
	}
	if fc.JWTSecretKey != "" {
		cfg.JWTSecretKey = fc.JWTSecretKey
	}
	if fc.TokenTTLSeconds > 0 {
		cfg.TokenTTL = time.Duration(fc.TokenTTLSeconds) * time.Second
	}
	if fc.AdminEmail != "" {
		cfg.AdminEmail = fc.AdminEmail
	}
	log.Info("config file applied", "path", path)
	return cfg, nil
}
