package db

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSlowQueryTracerLogsQueriesOverThreshold(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	tracer := NewSlowQueryTracer(zap.New(core), time.Nanosecond)

	ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT * FROM sp_select_projects()"})
	time.Sleep(time.Millisecond)
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("SELECT 2")})

	entries := logs.FilterMessage("slow-query").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "SELECT * FROM sp_select_projects()", entries[0].ContextMap()["sql"])
}

func TestSlowQueryTracerIgnoresFastQueries(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	tracer := NewSlowQueryTracer(zap.New(core), time.Hour)

	ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("SELECT 1")})

	assert.Zero(t, logs.Len())
}

func TestSlowQueryTracerWithoutStartIsNoop(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tracer := NewSlowQueryTracer(zap.New(core), time.Nanosecond)
	tracer.TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{})
	assert.Zero(t, logs.Len())
}

func TestCommandName(t *testing.T) {
	assert.Equal(t, "insert", commandName("INSERT 0 1", "insert into tasks ..."))
	assert.Equal(t, "update", commandName("", "  UPDATE tasks SET"))
	assert.Equal(t, "unknown", commandName("", ""))
}

func TestTruncateSQL(t *testing.T) {
	long := "SELECT " + strings.Repeat("x, ", 100) + "y FROM tasks"
	out := truncateSQL(long, 50)
	assert.Len(t, out, 53)
	assert.True(t, strings.HasSuffix(out, "..."))
	assert.Equal(t, "SELECT 1 FROM tasks", truncateSQL("SELECT 1\n\tFROM   tasks", 50))
}
