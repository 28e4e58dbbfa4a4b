package service

import (
	"context"
	"fmt"

	"github.com/yangzhijiany/plan-project/internal/model"
	"github.com/yangzhijiany/plan-project/internal/repository"
)

// resolveOwnedTask loads a task and, when a user public id is supplied,
// verifies the task belongs to that user. A missing user counts as a
// forbidden access, not a missing resource, so task ids cannot be probed
// with made-up user ids.
func resolveOwnedTask(ctx context.Context, taskRepo *repository.TaskRepository, userRepo *repository.UserRepository, taskID uint, userPublicID string) (*model.Task, error) {
	task, err := taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, notFound(err, "task")
	}
	if userPublicID != "" {
		user, err := userRepo.FindByPublicID(ctx, userPublicID)
		if err != nil || task.UserID != user.ID {
			return nil, fmt.Errorf("task %d: %w", taskID, ErrForbidden)
		}
	}
	return task, nil
}
