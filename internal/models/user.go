package models

import "time"

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         UserRole  `gorm:"type:varchar(20);not null" json:"role"`
	TeacherID    *uint64   `gorm:"index" json:"teacher_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Teacher *User  `gorm:"foreignKey:TeacherID" json:"-"`
	Tasks   []Task `gorm:"foreignKey:UserID" json:"-"`
}
