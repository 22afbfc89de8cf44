package models

import (
	"time"
)

// Task statuses
const (
	TaskStatusTodo       = "TODO"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusDone       = "DONE"
)

// Task belongs to a project and may be assigned to a workspace member.
type Task struct {
	ID         string     `gorm:"primaryKey;size:64" json:"id"`
	ProjectID  string     `gorm:"size:64;index;not null" json:"project_id"`
	Project    *Project   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	Title      string     `gorm:"size:300;not null" json:"title"`
	Status     string     `gorm:"size:20;default:TODO" json:"status"`
	AssigneeID *string    `gorm:"size:64;index" json:"assignee_id"`
	Assignee   *User      `gorm:"foreignKey:AssigneeID;constraint:OnDelete:SET NULL" json:"assignee,omitempty"`
	DueDate    *time.Time `json:"due_date"`
	Comments   []Comment  `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Task) TableName() string { return "tasks" }
