package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"projecttracker/internal/model"
	"projecttracker/internal/procedure"
	"projecttracker/pkg/logger"
)

type ProjectProcedures interface {
	SelectProjects(ctx context.Context) (procedure.Result[model.Project], error)
}

type ProjectHandler struct {
	procs  ProjectProcedures
	logger *zap.Logger
}

func NewProjectHandler(procs ProjectProcedures, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{procs: procs, logger: logger}
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("ListProjects request received", zap.String("client_ip", c.ClientIP()))

	result, err := h.procs.SelectProjects(c.Request.Context())
	if err != nil {
		respondStorageError(c, log, "ListProjects", err)
		return
	}

	log.Info("ListProjects: success",
		zap.Int("project_count", len(result.Rows)),
		zap.Int("status", int(result.Status)),
	)
	c.JSON(http.StatusOK, result.Rows)
}
