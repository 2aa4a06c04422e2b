package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"projecttracker/internal/config"
	"projecttracker/internal/migrate"
	pkgconfig "projecttracker/pkg/config"
	"projecttracker/pkg/db"
	"projecttracker/pkg/logger"
	"projecttracker/pkg/secrets"
)

type app struct {
	cfg  *config.Config
	log  *zap.Logger
	pool *pgxpool.Pool
}

// bootstrap 加载配置、取连接串、建立连接池；任何一步失败都返回错误
func bootstrap(ctx context.Context) (*app, error) {
	configDir := flagConfigDir
	if configDir == "" {
		configDir = pkgconfig.GetEnv("CONFIG_DIR", "config")
	}

	cfg, err := config.Load(flagEnv, configDir)
	if err != nil {
		return nil, err
	}

	log, err := logger.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	log.Info("Configuration loaded",
		zap.String("vault_provider", cfg.Vault.Provider),
		zap.String("secret_name", cfg.Vault.SecretName),
		zap.String("port", cfg.Server.Port),
	)

	dsn, err := resolveDSN(ctx, cfg, configDir, log)
	if err != nil {
		log.Error("Failed to resolve connection string", zap.Error(err))
		return nil, err
	}

	pool, err := db.NewConnection(ctx, dsn, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, log: log, pool: pool}, nil
}

func resolveDSN(ctx context.Context, cfg *config.Config, configDir string, log *zap.Logger) (string, error) {
	store, err := secrets.New(cfg.Vault, configDir, log)
	if err != nil {
		return "", err
	}
	if store == nil {
		log.Info("No secret store configured, using db section")
		return cfg.DB.DSN(), nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	dsn, err := store.GetSecret(ctx, cfg.Vault.SecretName)
	if err != nil {
		return "", fmt.Errorf("read connection string: %w", err)
	}
	log.Info("Connection string retrieved from secret store", zap.String("secret_name", cfg.Vault.SecretName))
	return dsn, nil
}

func (a *app) migrate(ctx context.Context) error {
	return migrate.Apply(ctx, a.pool, a.log)
}

func (a *app) close() {
	a.pool.Close()
	_ = a.log.Sync()
}
