package model

import "time"

// Project 下挂零到多个任务
// 仍被任务引用时数据库拒绝删除，需先清空任务上的 project_id
type Project struct {
	ProjectID   int       `gorm:"primaryKey" db:"project_id" json:"projectId"`
	ProjectName string    `gorm:"size:100;not null" db:"project_name" json:"projectName"`
	DateAdded   time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:false" db:"date_added" json:"dateAdded"`
	Tasks       []Task    `gorm:"foreignKey:ProjectID;constraint:OnDelete:NO ACTION" db:"-" json:"tasks,omitempty"`
}

func (Project) TableName() string {
	return "projects"
}
