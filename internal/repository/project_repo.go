package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"projecttracker/internal/model"
)

type ProjectRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewProjectRepository(db *gorm.DB, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ProjectRepository) Create(ctx context.Context, p *model.Project) error {
	r.logger.Debug("Inserting project", zap.String("project_name", p.ProjectName))

	p.ProjectID = 0
	p.Tasks = nil
	db := r.db.WithContext(ctx)
	if err := db.Create(p).Error; err != nil {
		r.logger.Error("Failed to insert project", zap.Error(err))
		return fmt.Errorf("insert project: %w", err)
	}
	if err := db.First(p, "project_id = ?", p.ProjectID).Error; err != nil {
		return fmt.Errorf("reload project %d: %w", p.ProjectID, err)
	}

	r.logger.Info("Project inserted successfully",
		zap.Int("project_id", p.ProjectID),
		zap.String("project_name", p.ProjectName),
	)
	return nil
}
