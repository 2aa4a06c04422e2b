package procedure

import (
	"context"

	"projecttracker/internal/model"
)

const (
	deleteTask     = "sp_delete_task"
	selectTask     = "sp_select_task"
	selectProjects = "sp_select_projects"
)

// DeleteTask 删除任务，Status 为删除的行数
func (g *Gateway) DeleteTask(ctx context.Context, id int) (Result[model.Task], error) {
	status, err := g.Exec(ctx, deleteTask, id)
	if err != nil {
		return Result[model.Task]{}, err
	}
	return Result[model.Task]{Rows: []model.Task{}, Status: status}, nil
}

func (g *Gateway) SelectTask(ctx context.Context, id int) (Result[model.Task], error) {
	return Query[model.Task](ctx, g, selectTask, id)
}

func (g *Gateway) SelectProjects(ctx context.Context) (Result[model.Project], error) {
	return Query[model.Project](ctx, g, selectProjects)
}
