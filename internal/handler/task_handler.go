package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"projecttracker/internal/model"
	"projecttracker/internal/procedure"
	"projecttracker/internal/repository"
	"projecttracker/pkg/logger"
	"projecttracker/pkg/metrics"
)

type TaskStore interface {
	List(ctx context.Context) ([]model.Task, error)
	ListWithProjects(ctx context.Context) ([]model.TaskWithProject, error)
	FindByID(ctx context.Context, id int) (*model.Task, error)
	Create(ctx context.Context, t *model.Task) error
	Save(ctx context.Context, t *model.Task) error
}

type TaskProcedures interface {
	DeleteTask(ctx context.Context, id int) (procedure.Result[model.Task], error)
	SelectTask(ctx context.Context, id int) (procedure.Result[model.Task], error)
}

// taskRequest 任务中客户端可写的字段
// 必填和长度在绑定阶段校验，失败直接返回 400
type taskRequest struct {
	TaskID          int         `json:"taskId"`
	TaskName        string      `json:"taskName" binding:"required,max=100,ascii"`
	DateDue         *model.Date `json:"dateDue"`
	ProjectID       *int        `json:"projectId"`
	AssignedToEmail string      `json:"assignedToEmail" binding:"required,max=100,ascii"`
	Priority        int         `json:"priority"`
}

func (r taskRequest) toTask() model.Task {
	return model.Task{
		TaskID:          r.TaskID,
		TaskName:        r.TaskName,
		DateDue:         r.DateDue,
		ProjectID:       r.ProjectID,
		AssignedToEmail: r.AssignedToEmail,
		Priority:        r.Priority,
	}
}

type TaskHandler struct {
	store  TaskStore
	procs  TaskProcedures
	logger *zap.Logger
	now    func() time.Time
}

func NewTaskHandler(store TaskStore, procs TaskProcedures, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{store: store, procs: procs, logger: logger, now: time.Now}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("ListTasks request received", zap.String("client_ip", c.ClientIP()))

	tasks, err := h.store.List(c.Request.Context())
	if err != nil {
		respondStorageError(c, log, "ListTasks", err)
		return
	}

	log.Info("ListTasks: success", zap.Int("task_count", len(tasks)))
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) ListTasksWithProjects(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("ListTasksWithProjects request received", zap.String("client_ip", c.ClientIP()))

	rows, err := h.store.ListWithProjects(c.Request.Context())
	if err != nil {
		respondStorageError(c, log, "ListTasksWithProjects", err)
		return
	}

	log.Info("ListTasksWithProjects: success", zap.Int("row_count", len(rows)))
	c.JSON(http.StatusOK, rows)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("CreateTask request received", zap.String("client_ip", c.ClientIP()))

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("CreateTask: invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task: " + err.Error()})
		return
	}

	task := req.toTask()
	task.TaskID = 0
	now := h.now()
	task.DateUpdated = &now

	if err := h.store.Create(c.Request.Context(), &task); err != nil {
		respondStorageError(c, log, "CreateTask", err)
		return
	}

	metrics.IncrementTaskMutation("create")
	log.Info("CreateTask: success", zap.Int("task_id", task.TaskID))
	c.JSON(http.StatusOK, task)
}

// UpdateTask 整体覆盖任务的可变字段
// 任务不存在时返回 200 + null，不会新建记录
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("UpdateTask request received", zap.String("client_ip", c.ClientIP()))

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("UpdateTask: invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task: " + err.Error()})
		return
	}
	if req.TaskID <= 0 {
		log.Warn("UpdateTask: taskId is required", zap.Int("task_id", req.TaskID))
		c.JSON(http.StatusBadRequest, gin.H{"error": "taskId required"})
		return
	}

	existing, err := h.store.FindByID(c.Request.Context(), req.TaskID)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.IncrementTaskMutation("update_missing")
		log.Warn("UpdateTask: task not found, nothing updated", zap.Int("task_id", req.TaskID))
		c.JSON(http.StatusOK, nil)
		return
	}
	if err != nil {
		respondStorageError(c, log, "UpdateTask", err)
		return
	}

	existing.Apply(req.toTask(), h.now())
	err = h.store.Save(c.Request.Context(), existing)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.IncrementTaskMutation("update_missing")
		log.Warn("UpdateTask: task deleted before save, nothing updated", zap.Int("task_id", req.TaskID))
		c.JSON(http.StatusOK, nil)
		return
	}
	if err != nil {
		respondStorageError(c, log, "UpdateTask", err)
		return
	}

	metrics.IncrementTaskMutation("update")
	log.Info("UpdateTask: success", zap.Int("task_id", existing.TaskID))
	c.JSON(http.StatusOK, existing)
}

// DeleteTask 先调用 sp_delete_task，再用 sp_select_task 查同一个 id 并返回结果
// 两次调用不在同一个事务内
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	idStr := c.Param("id")
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("DeleteTask request received",
		zap.String("task_id", idStr),
		zap.String("client_ip", c.ClientIP()),
	)

	taskID, err := strconv.Atoi(idStr)
	if err != nil {
		log.Warn("DeleteTask: invalid task id format",
			zap.String("task_id", idStr),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	deleted, err := h.procs.DeleteTask(c.Request.Context(), taskID)
	if err != nil {
		respondStorageError(c, log, "DeleteTask", err)
		return
	}

	remaining, err := h.procs.SelectTask(c.Request.Context(), taskID)
	if err != nil {
		respondStorageError(c, log, "DeleteTask", err)
		return
	}

	metrics.IncrementTaskMutation("delete")
	log.Info("DeleteTask: success",
		zap.Int("task_id", taskID),
		zap.Int("delete_status", int(deleted.Status)),
		zap.Int("remaining", len(remaining.Rows)),
	)
	c.JSON(http.StatusOK, remaining.Rows)
}
