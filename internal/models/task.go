package models

import "time"

type TaskProgress string

const (
	ProgressNotStarted TaskProgress = "not-started"
	ProgressInProgress TaskProgress = "in-progress"
	ProgressCompleted  TaskProgress = "completed"
)

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	UserID      uint64       `gorm:"not null;index:idx_tasks_owner_created,priority:1" json:"user_id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	DueDate     *time.Time   `gorm:"index" json:"due_date"`
	Progress    TaskProgress `gorm:"type:varchar(20);not null;default:'not-started'" json:"progress"`
	CreatedAt   time.Time    `gorm:"index:idx_tasks_owner_created,priority:2" json:"created_at"`
	UpdatedAt   time.Time    `json:"-"`

	// Relations
	Owner User `gorm:"foreignKey:UserID" json:"-"`
}
