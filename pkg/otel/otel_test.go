package otel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"

	"projecttracker/pkg/config"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := tracer
	tracer = tp.Tracer("test")
	t.Cleanup(func() { tracer = prev })
	return rec
}

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(config.OtelConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	shutdown()
}

func TestTracedRecordsStatus(t *testing.T) {
	rec := withRecorder(t)

	require.NoError(t, Traced(context.Background(), "select", "SELECT 1", func(context.Context) error { return nil }))
	assert.ErrorIs(t, Traced(context.Background(), "select", "SELECT 1", func(context.Context) error { return pgx.ErrNoRows }), pgx.ErrNoRows)
	boom := errors.New("boom")
	assert.ErrorIs(t, Traced(context.Background(), "procedure", "SELECT * FROM sp_delete_task($1)", func(context.Context) error { return boom }), boom)

	spans := rec.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "db.select", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, codes.Ok, spans[1].Status().Code)
	assert.Equal(t, codes.Error, spans[2].Status().Code)
}

func TestGinMiddlewareCreatesServerSpan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := withRecorder(t)

	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/tasks", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/tasks", "/fail"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "GET /tasks", spans[0].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
