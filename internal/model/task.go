package model

import "time"

type Task struct {
	TaskID          int        `gorm:"primaryKey" db:"task_id" json:"taskId"`
	TaskName        string     `gorm:"size:100;not null" db:"task_name" json:"taskName"`
	DateAdded       time.Time  `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:false" db:"date_added" json:"dateAdded"`
	DateDue         *Date      `gorm:"type:date" db:"date_due" json:"dateDue"`
	DateUpdated     *time.Time `gorm:"type:timestamp" db:"date_updated" json:"dateUpdated"`
	ProjectID       *int       `db:"project_id" json:"projectId"`
	AssignedToEmail string     `gorm:"size:100;not null" db:"assigned_to_email" json:"assignedToEmail"`
	Priority        int        `gorm:"not null" db:"priority" json:"priority"`
	Project         *Project   `db:"-" json:"project,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}

// Apply 用 in 覆盖客户端可写的全部字段
// 主键和数据库生成的列保持不变
func (t *Task) Apply(in Task, now time.Time) {
	t.ProjectID = in.ProjectID
	t.TaskName = in.TaskName
	t.DateDue = in.DateDue
	t.AssignedToEmail = in.AssignedToEmail
	t.Priority = in.Priority
	t.DateUpdated = &now
}

// TaskWithProject 对应 vw_tasks_projects 视图，无主键，只读
type TaskWithProject struct {
	TaskID          int        `gorm:"->" db:"task_id" json:"taskId"`
	TaskName        string     `gorm:"->;size:100" db:"task_name" json:"taskName"`
	DateAdded       time.Time  `gorm:"->;type:timestamp" db:"date_added" json:"dateAdded"`
	DateDue         *Date      `gorm:"->;type:date" db:"date_due" json:"dateDue"`
	DateUpdated     *time.Time `gorm:"->;type:timestamp" db:"date_updated" json:"dateUpdated"`
	ProjectID       int        `gorm:"->" db:"project_id" json:"projectId"`
	ProjectName     string     `gorm:"->;size:100" db:"project_name" json:"projectName"`
	AssignedToEmail string     `gorm:"->;size:100" db:"assigned_to_email" json:"assignedToEmail"`
	Priority        int        `gorm:"->" db:"priority" json:"priority"`
}

func (TaskWithProject) TableName() string {
	return "vw_tasks_projects"
}
