package migrate

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"projecttracker/pkg/otel"
)

//go:embed schema.sql
var schema string

// lockKey 多副本同时迁移时串行执行
const lockKey int64 = 0x70726f6a

func Schema() string {
	return schema
}

// Apply 在一个事务内执行内嵌的建表脚本
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	start := time.Now()
	logger.Info("Applying database schema")

	err := otel.Traced(ctx, "migrate", "schema.sql", func(ctx context.Context) error {
		return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
				return fmt.Errorf("acquire migration lock: %w", err)
			}
			// 无参数时 pgx 走简单协议，可以一次执行多条语句
			if _, err := tx.Exec(ctx, schema); err != nil {
				return fmt.Errorf("execute schema: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		logger.Error("Schema migration failed", zap.Error(err))
		return err
	}

	logger.Info("Schema applied", zap.Duration("took", time.Since(start)))
	return nil
}
