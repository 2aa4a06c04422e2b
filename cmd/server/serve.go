package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"projecttracker/internal/handler"
	"projecttracker/internal/httpserver"
	"projecttracker/internal/procedure"
	"projecttracker/internal/repository"
	"projecttracker/pkg/db"
	"projecttracker/pkg/otel"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	log := a.log

	shutdownTracing, err := otel.Init(a.cfg.Otel, log)
	if err != nil {
		log.Fatal("Failed to init OpenTelemetry", zap.Error(err))
	}
	defer shutdownTracing()

	if a.cfg.DB.AutoMigrate {
		if err := a.migrate(ctx); err != nil {
			log.Fatal("Failed to apply schema", zap.Error(err))
		}
	}

	gdb, err := db.NewGorm(a.pool, log)
	if err != nil {
		log.Fatal("Failed to init GORM", zap.Error(err))
	}

	taskRepo := repository.NewTaskRepository(gdb, log)
	gateway := procedure.NewGateway(a.pool, log)

	taskHandler := handler.NewTaskHandler(taskRepo, gateway, log)
	projectHandler := handler.NewProjectHandler(gateway, log)

	if !a.cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpserver.NewRouter(taskHandler, projectHandler, a.cfg.Server, log, a.pool)

	srv := &http.Server{
		Addr:              a.cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 优雅退出处理
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully...")

	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("Shutdown complete")
	return nil
}
