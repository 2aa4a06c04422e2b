package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"projecttracker/internal/model"
)

// ErrNotFound 按 id 查不到记录
var ErrNotFound = errors.New("record not found")

type TaskRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewTaskRepository(db *gorm.DB, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

// List 按 task_id 升序返回全部任务
func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	r.logger.Debug("Listing tasks")

	tasks := []model.Task{}
	if err := r.db.WithContext(ctx).Order("task_id ASC").Find(&tasks).Error; err != nil {
		r.logger.Error("Failed to query tasks", zap.Error(err))
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	r.logger.Info("Tasks listed successfully", zap.Int("count", len(tasks)))
	return tasks, nil
}

// ListWithProjects 读取 vw_tasks_projects 视图
func (r *TaskRepository) ListWithProjects(ctx context.Context) ([]model.TaskWithProject, error) {
	r.logger.Debug("Listing tasks with projects")

	rows := []model.TaskWithProject{}
	if err := r.db.WithContext(ctx).Order("task_id ASC").Find(&rows).Error; err != nil {
		r.logger.Error("Failed to query tasks view", zap.Error(err))
		return nil, fmt.Errorf("list tasks with projects: %w", err)
	}

	r.logger.Info("Tasks with projects listed successfully", zap.Int("count", len(rows)))
	return rows, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id int) (*model.Task, error) {
	var t model.Task
	err := r.db.WithContext(ctx).First(&t, "task_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to find task", zap.Int("task_id", id), zap.Error(err))
		return nil, fmt.Errorf("find task %d: %w", id, err)
	}
	return &t, nil
}

// Create 插入后重新读取一次，带回数据库生成的字段
func (r *TaskRepository) Create(ctx context.Context, t *model.Task) error {
	r.logger.Debug("Inserting task",
		zap.String("task_name", t.TaskName),
		zap.String("assigned_to", t.AssignedToEmail),
	)

	t.TaskID = 0
	t.Project = nil
	db := r.db.WithContext(ctx)
	if err := db.Create(t).Error; err != nil {
		r.logger.Error("Failed to insert task", zap.Error(err))
		return fmt.Errorf("insert task: %w", err)
	}
	if err := db.First(t, "task_id = ?", t.TaskID).Error; err != nil {
		r.logger.Error("Failed to reload task", zap.Int("task_id", t.TaskID), zap.Error(err))
		return fmt.Errorf("reload task %d: %w", t.TaskID, err)
	}

	r.logger.Info("Task inserted successfully", zap.Int("task_id", t.TaskID))
	return nil
}

// Save 覆盖写入全部可变列，只做 UPDATE
// 读取之后记录已被删除时返回 ErrNotFound；并发写同一行以最后一次为准
func (r *TaskRepository) Save(ctx context.Context, t *model.Task) error {
	r.logger.Debug("Updating task", zap.Int("task_id", t.TaskID))

	t.Project = nil
	res := r.db.WithContext(ctx).Model(t).Select("*").Updates(t)
	if res.Error != nil {
		r.logger.Error("Failed to update task", zap.Int("task_id", t.TaskID), zap.Error(res.Error))
		return fmt.Errorf("update task %d: %w", t.TaskID, res.Error)
	}
	if res.RowsAffected == 0 {
		r.logger.Warn("Task vanished before update", zap.Int("task_id", t.TaskID))
		return ErrNotFound
	}

	r.logger.Info("Task updated successfully", zap.Int("task_id", t.TaskID))
	return nil
}
