// Package procedure 调用数据库存储过程
//
// 每次调用传入过程名和按位置排列的标量参数，返回 Result：过程产生的行（如有）和状态值。
// 状态值取代了输出参数：返回行的过程为行数，无结果集的过程为 OUT 参数 return_value 的值。
package procedure

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"projecttracker/pkg/metrics"
	"projecttracker/pkg/otel"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ErrInvalidName 过程名不是合法标识符
var ErrInvalidName = errors.New("invalid procedure name")

// Status 过程随结果集一起返回的状态值
type Status int

type Result[T any] struct {
	Rows   []T    `json:"rows"`
	Status Status `json:"status"`
}

// Gateway 只做参数和结果的转换，除连接池外不持有状态
type Gateway struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewGateway(pool *pgxpool.Pool, logger *zap.Logger) *Gateway {
	return &Gateway{pool: pool, logger: logger}
}

// Query 执行返回结果集的过程，按列名映射到 T
func Query[T any](ctx context.Context, g *Gateway, name string, args ...any) (Result[T], error) {
	stmt, err := callStatement("SELECT *", name, len(args))
	if err != nil {
		return Result[T]{}, err
	}

	var result Result[T]
	err = g.withConn(ctx, name, stmt, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, stmt, args...)
		if err != nil {
			return err
		}
		items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
		if err != nil {
			return err
		}
		if items == nil {
			items = []T{}
		}
		result = Result[T]{Rows: items, Status: Status(len(items))}
		return nil
	})
	return result, err
}

// Exec 执行只输出 return_value 的过程
func (g *Gateway) Exec(ctx context.Context, name string, args ...any) (Status, error) {
	stmt, err := callStatement("SELECT return_value", name, len(args))
	if err != nil {
		return 0, err
	}

	var status Status
	err = g.withConn(ctx, name, stmt, func(ctx context.Context, conn *pgxpool.Conn) error {
		var v *int32
		if err := conn.QueryRow(ctx, stmt, args...).Scan(&v); err != nil {
			return err
		}
		if v != nil {
			status = Status(*v)
		}
		return nil
	})
	return status, err
}

// withConn 在 fn 执行期间占用一个连接，任何路径下都会归还
func (g *Gateway) withConn(ctx context.Context, name, stmt string, fn func(context.Context, *pgxpool.Conn) error) error {
	start := time.Now()
	err := otel.Traced(ctx, "procedure", stmt, func(ctx context.Context) error {
		conn, err := g.pool.Acquire(ctx)
		if err != nil {
			return fmt.Errorf("acquire connection: %w", err)
		}
		defer conn.Release()
		return fn(ctx, conn)
	})
	duration := time.Since(start)
	metrics.RecordDBQueryDuration("procedure", name, duration)

	if err != nil {
		metrics.IncrementProcedureCall(name, "failed")
		g.logger.Error("Stored procedure call failed",
			zap.String("procedure", name),
			zap.Duration("took", duration),
			zap.Error(err),
		)
		return fmt.Errorf("call %s: %w", name, err)
	}

	metrics.IncrementProcedureCall(name, "success")
	g.logger.Debug("Stored procedure call finished",
		zap.String("procedure", name),
		zap.Duration("took", duration),
	)
	return nil
}

// callStatement 拼出 "<selectList> FROM name($1, ..., $n)"
func callStatement(selectList, name string, nargs int) (string, error) {
	if !identifierPattern.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	placeholders := make([]string, nargs)
	for i := range placeholders {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	return fmt.Sprintf("%s FROM %s(%s)", selectList, name, strings.Join(placeholders, ", ")), nil
}
