package repository

import (
	"time"

	"github.com/hkawano/student-task-api/internal/models"
)

// TaskFilter expresses a scoped task query independently of the store's own
// query DSL. The owner-ID set is computed by the authorization layer; the
// due-window fields implement the list date filters. Tasks with no due date
// never match a due window (SQL NULL comparison semantics).
type TaskFilter struct {
	// OwnerIDs is the set of user ids whose tasks are visible. An empty set
	// yields an empty result.
	OwnerIDs []uint64

	// DueFrom/DueTo bound the due date inclusively on both ends.
	DueFrom *time.Time
	DueTo   *time.Time

	// DueBefore bounds the due date strictly (used for overdue).
	DueBefore *time.Time

	// ExcludeCompleted drops completed tasks (used for overdue).
	ExcludeCompleted bool
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// List retrieves tasks matching the filter, most recently created first.
	// Tasks with equal creation times are ordered by descending id.
	List(filter TaskFilter) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete removes a task
	Delete(id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email (exact, case-sensitive match)
	FindByEmail(email string) (*models.User, error)

	// ListStudentIDs returns the ids of all students assigned to a teacher
	ListStudentIDs(teacherID uint64) ([]uint64, error)
}
