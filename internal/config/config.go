package config

import (
	"fmt"
	"time"

	"projecttracker/pkg/config"
)

type Config struct {
	Server config.ServerConfig `yaml:"server"`
	DB     config.DBConfig     `yaml:"db"`
	Vault  config.VaultConfig  `yaml:"vault"`
	Log    config.LogConfig    `yaml:"log"`
	Otel   config.OtelConfig   `yaml:"otel"`
}

// Load 使用统一配置中心加载配置；env/dir 为空时读取 CONFIG_ENV / CONFIG_DIR
func Load(env, dir string) (*Config, error) {
	if env == "" {
		env = config.GetConfigEnv()
	}
	if dir == "" {
		dir = config.GetEnv("CONFIG_DIR", "config")
	}

	raw, err := config.LoadConfig(env, dir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg := Default()
	if err := config.Decode(raw, cfg); err != nil {
		return nil, err
	}

	// 环境变量覆盖（优先级最高）
	config.OverrideServerFromEnv(&cfg.Server)
	config.OverrideDBFromEnv(&cfg.DB)
	config.OverrideVaultFromEnv(&cfg.Vault)
	config.OverrideLogFromEnv(&cfg.Log)
	config.OverrideOtelFromEnv(&cfg.Otel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Server: config.ServerConfig{
			Port:            ":8080",
			ShutdownTimeout: 30 * time.Second,
		},
		DB: config.DBConfig{
			Port:               5432,
			SlowQueryThreshold: 100 * time.Millisecond,
		},
		Vault: config.VaultConfig{
			Provider:   "azure",
			SecretName: "ProjectTrackerSecret5",
		},
		Log: config.LogConfig{Level: "info"},
		Otel: config.OtelConfig{
			ServiceName: "project-tracker",
		},
	}
}

func (c *Config) Validate() error {
	switch c.Vault.Provider {
	case "azure":
		if c.Vault.URL == "" {
			return fmt.Errorf("vault.url is required for provider azure (set VAULT_URL)")
		}
		if c.Vault.SecretName == "" {
			return fmt.Errorf("vault.secret_name is required for provider azure")
		}
	case "env":
		if c.Vault.SecretName == "" {
			return fmt.Errorf("vault.secret_name is required for provider env")
		}
	case "", "none":
		if c.DB.Host == "" || c.DB.Name == "" {
			return fmt.Errorf("db.host and db.name are required when no vault is configured")
		}
	default:
		return fmt.Errorf("unknown vault provider %q", c.Vault.Provider)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	return nil
}
