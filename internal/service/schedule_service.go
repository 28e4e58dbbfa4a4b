package service

import (
	"context"
	"fmt"

	"github.com/yangzhijiany/plan-project/internal/model"
	"github.com/yangzhijiany/plan-project/internal/repository"
)

// ScheduleService covers manual edits to individual schedule items: hour
// changes, completion toggles and deletes, including the future cascade.
type ScheduleService struct {
	userRepo     *repository.UserRepository
	taskRepo     *repository.TaskRepository
	subtaskRepo  *repository.SubtaskRepository
	scheduleRepo *repository.ScheduleRepository
}

func NewScheduleService(userRepo *repository.UserRepository, taskRepo *repository.TaskRepository, subtaskRepo *repository.SubtaskRepository, scheduleRepo *repository.ScheduleRepository) *ScheduleService {
	return &ScheduleService{userRepo: userRepo, taskRepo: taskRepo, subtaskRepo: subtaskRepo, scheduleRepo: scheduleRepo}
}

// resolveItem loads an item and enforces optional ownership through its task.
func (s *ScheduleService) resolveItem(ctx context.Context, userPublicID string, itemID uint) (*model.ScheduleItem, *model.Task, error) {
	item, err := s.scheduleRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, nil, notFound(err, "schedule item")
	}
	task, err := resolveOwnedTask(ctx, s.taskRepo, s.userRepo, item.TaskID, userPublicID)
	if err != nil {
		return nil, nil, err
	}
	return item, task, nil
}

// UpdateHours sets an item's allocated hours.
func (s *ScheduleService) UpdateHours(ctx context.Context, userPublicID string, itemID uint, hours float64) (*model.DailyItemView, error) {
	if hours < 0 {
		return nil, validationf("allocated hours cannot be negative")
	}
	item, task, err := s.resolveItem(ctx, userPublicID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.scheduleRepo.UpdateHours(ctx, item, hours); err != nil {
		return nil, err
	}
	return s.itemView(ctx, item, task)
}

// ToggleComplete flips an item's completion flag.
func (s *ScheduleService) ToggleComplete(ctx context.Context, userPublicID string, itemID uint) (*model.DailyItemView, error) {
	item, task, err := s.resolveItem(ctx, userPublicID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.scheduleRepo.ToggleCompleted(ctx, item); err != nil {
		return nil, err
	}
	return s.itemView(ctx, item, task)
}

// DeleteItem removes one item, or, with deleteFuture, the item plus every
// same-task item on or after its date (long-term slots cascade only across
// other long-term slots). Returns the number of deleted items.
func (s *ScheduleService) DeleteItem(ctx context.Context, userPublicID string, itemID uint, deleteFuture bool) (int64, error) {
	item, _, err := s.resolveItem(ctx, userPublicID, itemID)
	if err != nil {
		return 0, err
	}
	if deleteFuture {
		return s.scheduleRepo.DeleteFuture(ctx, item)
	}
	if err := s.scheduleRepo.Delete(ctx, item.ID); err != nil {
		return 0, err
	}
	return 1, nil
}

// ClearCalendar deletes every schedule item belonging to the user's tasks.
func (s *ScheduleService) ClearCalendar(ctx context.Context, userPublicID string) (int64, error) {
	user, err := s.userRepo.FindByPublicID(ctx, userPublicID)
	if err != nil {
		return 0, notFound(err, "user")
	}
	taskIDs, err := s.taskRepo.ListIDsByUser(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("list tasks: %w", err)
	}
	return s.scheduleRepo.DeleteForTasks(ctx, taskIDs)
}

// itemView flattens a single item for display. A vanished subtask leaves the
// name empty rather than failing the edit that just succeeded.
func (s *ScheduleService) itemView(ctx context.Context, item *model.ScheduleItem, task *model.Task) (*model.DailyItemView, error) {
	view := &model.DailyItemView{
		ID:             item.ID,
		Date:           item.Date.Format(model.DateLayout),
		TaskID:         item.TaskID,
		TaskName:       task.Name,
		SubtaskID:      0,
		SubtaskName:    task.Name,
		AllocatedHours: item.AllocatedHours,
		IsCompleted:    item.IsCompleted,
		Importance:     task.Importance,
	}
	if item.SubtaskID != nil {
		view.SubtaskID = *item.SubtaskID
		view.SubtaskName = ""
		if subtask, err := s.subtaskRepo.FindByID(ctx, *item.SubtaskID); err == nil {
			view.SubtaskName = subtask.Name
		}
	}
	return view, nil
}
