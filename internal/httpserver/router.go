package httpserver

import (
	"context"
	_ "embed"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"projecttracker/internal/handler"
	"projecttracker/pkg/config"
	"projecttracker/pkg/otel"
)

//go:embed openapi.yaml
var openAPISpec []byte

// Pinger *pgxpool.Pool 即满足
type Pinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(
	taskHandler *handler.TaskHandler,
	projectHandler *handler.ProjectHandler,
	cfg config.ServerConfig,
	logger *zap.Logger,
	db Pinger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.HTTPSRedirect {
		r.Use(HTTPSRedirect())
	}
	r.Use(AllowAll())
	r.Use(TraceID())
	r.Use(otel.GinMiddleware())
	r.Use(RequestLogger(logger))

	// 健康检查
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Warn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_not_ready"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", openAPISpec)
	})

	r.GET("/tasks", taskHandler.ListTasks)
	r.GET("/tasks/projects", taskHandler.ListTasksWithProjects)
	r.POST("/task", taskHandler.CreateTask)
	r.PUT("/task", taskHandler.UpdateTask)
	r.DELETE("/task/:id", taskHandler.DeleteTask)
	r.GET("/projects", projectHandler.ListProjects)

	return r
}
