package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hkawano/student-task-api/internal/models"
	"github.com/hkawano/student-task-api/internal/repository"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	// ErrNotTaskOwner is returned whenever a non-owner tries to mutate a
	// task. A teacher who can list a student's task still cannot change it:
	// reads are scoped by the teaching relationship, writes by ownership only.
	ErrNotTaskOwner = errors.New("only task owner can modify this task")
	ErrTitleEmpty   = errors.New("title cannot be empty")
	// ErrUnknownRole guards the role switch; unreachable with the two-role
	// model but kept so a new role fails loudly instead of leaking tasks.
	ErrUnknownRole = errors.New("unknown role")
)

// DueFilter selects the optional date filter on task lists.
type DueFilter string

const (
	DueAll     DueFilter = ""
	DueWeek    DueFilter = "week"
	DueOverdue DueFilter = "overdue"
)

// TaskService owns the authorization and query-scoping rules for tasks.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Progress    models.TaskProgress
}

// UpdateTaskInput represents input for updating a task. Only fields present
// in the request are changed; the owner and due date are never updatable.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Progress    *models.TaskProgress
}

// ListTasks returns the tasks visible to the identity, newest first.
func (s *TaskService) ListTasks(identity models.Identity, due DueFilter) ([]models.Task, error) {
	ownerIDs, err := s.visibleOwnerIDs(identity)
	if err != nil {
		return nil, err
	}

	filter := repository.TaskFilter{OwnerIDs: ownerIDs}

	switch due {
	case DueWeek:
		now := time.Now()
		weekOut := now.Add(7 * 24 * time.Hour)
		filter.DueFrom = &now
		filter.DueTo = &weekOut
	case DueOverdue:
		now := time.Now()
		filter.DueBefore = &now
		filter.ExcludeCompleted = true
	}

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// CreateTask creates a task owned by the identity. Any owner supplied by the
// caller is irrelevant: ownership is always forced to the identity.
func (s *TaskService) CreateTask(identity models.Identity, input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleEmpty
	}

	if input.Progress == "" {
		input.Progress = models.ProgressNotStarted
	}

	task := &models.Task{
		UserID:      identity.ID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Progress:    input.Progress,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask applies a partial update to a task owned by the identity.
func (s *TaskService) UpdateTask(identity models.Identity, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findOwnedTask(identity, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Progress != nil {
		task.Progress = *input.Progress
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task owned by the identity.
func (s *TaskService) DeleteTask(identity models.Identity, taskID uint64) error {
	if _, err := s.findOwnedTask(identity, taskID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// visibleOwnerIDs resolves the set of user ids whose tasks the identity may
// read. Students see their own tasks; teachers see their own plus those of
// their assigned students (one level, never transitively).
func (s *TaskService) visibleOwnerIDs(identity models.Identity) ([]uint64, error) {
	switch identity.Role {
	case models.RoleStudent:
		return []uint64{identity.ID}, nil
	case models.RoleTeacher:
		studentIDs, err := s.userRepo.ListStudentIDs(identity.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list assigned students: %w", err)
		}
		return append([]uint64{identity.ID}, studentIDs...), nil
	default:
		return nil, ErrUnknownRole
	}
}

// findOwnedTask loads a task and enforces the ownership check shared by
// update and delete.
func (s *TaskService) findOwnedTask(identity models.Identity, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.UserID != identity.ID {
		return nil, ErrNotTaskOwner
	}

	return task, nil
}
