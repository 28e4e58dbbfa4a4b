package service

import (
	"context"
	"strings"
	"time"

	"github.com/yangzhijiany/plan-project/internal/model"
	"github.com/yangzhijiany/plan-project/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Name        string
	Description string
	Importance  string
	IsLongTerm  bool
	Deadline    string // YYYY-MM-DD, empty for long-term tasks
}

// TaskService wraps task and subtask business logic.
type TaskService struct {
	userRepo    *repository.UserRepository
	taskRepo    *repository.TaskRepository
	subtaskRepo *repository.SubtaskRepository
}

func NewTaskService(userRepo *repository.UserRepository, taskRepo *repository.TaskRepository, subtaskRepo *repository.SubtaskRepository) *TaskService {
	return &TaskService{userRepo: userRepo, taskRepo: taskRepo, subtaskRepo: subtaskRepo}
}

// CreateTask validates input and stores a new task for the user. A deadline
// on a non-long-term task must not already be in the past.
func (s *TaskService) CreateTask(ctx context.Context, userPublicID string, input TaskInput) (*model.TaskView, error) {
	user, err := s.userRepo.FindByPublicID(ctx, userPublicID)
	if err != nil {
		return nil, notFound(err, "user")
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, validationf("task name is required")
	}
	if !model.ValidImportance(input.Importance) {
		return nil, validationf("importance must be low, medium or high")
	}

	var deadline *time.Time
	if input.Deadline != "" && !input.IsLongTerm {
		parsed, err := time.ParseInLocation(model.DateLayout, input.Deadline, time.UTC)
		if err != nil {
			return nil, validationf("deadline %q is not a valid YYYY-MM-DD date", input.Deadline)
		}
		if parsed.Before(model.DateOnly(time.Now())) {
			return nil, validationf("deadline cannot be before today")
		}
		deadline = &parsed
	}

	task := model.Task{
		UserID:      user.ID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Importance:  input.Importance,
		IsLongTerm:  input.IsLongTerm,
		Deadline:    deadline,
	}
	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return taskView(&task), nil
}

// ListTasks returns the user's tasks, newest first, with their subtasks.
func (s *TaskService) ListTasks(ctx context.Context, userPublicID string) ([]model.TaskView, error) {
	user, err := s.userRepo.FindByPublicID(ctx, userPublicID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	tasks, err := s.taskRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	views := make([]model.TaskView, 0, len(tasks))
	for i := range tasks {
		views = append(views, *taskView(&tasks[i]))
	}
	return views, nil
}

// GetTask returns one task with its subtasks, enforcing ownership when a
// user id is supplied.
func (s *TaskService) GetTask(ctx context.Context, userPublicID string, taskID uint) (*model.TaskView, error) {
	task, err := resolveOwnedTask(ctx, s.taskRepo, s.userRepo, taskID, userPublicID)
	if err != nil {
		return nil, err
	}
	return taskView(task), nil
}

// DeleteTask removes the task; subtasks and schedule items cascade away with
// it.
func (s *TaskService) DeleteTask(ctx context.Context, userPublicID string, taskID uint) error {
	task, err := resolveOwnedTask(ctx, s.taskRepo, s.userRepo, taskID, userPublicID)
	if err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, task.ID)
}

// UpdateSubtaskHours sets a subtask's estimated-hours budget.
func (s *TaskService) UpdateSubtaskHours(ctx context.Context, userPublicID string, subtaskID uint, hours float64) (*model.SubtaskView, error) {
	if hours < 0 {
		return nil, validationf("estimated hours cannot be negative")
	}
	subtask, err := s.subtaskRepo.FindByID(ctx, subtaskID)
	if err != nil {
		return nil, notFound(err, "subtask")
	}
	if _, err := resolveOwnedTask(ctx, s.taskRepo, s.userRepo, subtask.TaskID, userPublicID); err != nil {
		return nil, err
	}
	if err := s.subtaskRepo.UpdateEstimatedHours(ctx, subtask, hours); err != nil {
		return nil, err
	}
	return subtaskView(subtask), nil
}

func taskView(task *model.Task) *model.TaskView {
	var deadline *string
	if task.Deadline != nil {
		d := task.Deadline.Format(model.DateLayout)
		deadline = &d
	}
	subtasks := make([]model.SubtaskView, 0, len(task.Subtasks))
	for i := range task.Subtasks {
		subtasks = append(subtasks, *subtaskView(&task.Subtasks[i]))
	}
	return &model.TaskView{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		Importance:  task.Importance,
		IsLongTerm:  task.IsLongTerm,
		Deadline:    deadline,
		Subtasks:    subtasks,
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
	}
}

func subtaskView(subtask *model.Subtask) *model.SubtaskView {
	return &model.SubtaskView{
		ID:             subtask.ID,
		Name:           subtask.Name,
		Description:    subtask.Description,
		EstimatedHours: subtask.EstimatedHours,
		IsCompleted:    subtask.IsCompleted,
	}
}
