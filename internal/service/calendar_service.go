package service

import (
	"context"
	"time"

	"github.com/yangzhijiany/plan-project/internal/model"
	"github.com/yangzhijiany/plan-project/internal/repository"
)

// Default calendar window when no explicit range is asked for.
const defaultRangeDays = 60

// CalendarService serves the read-side views: the calendar range and the
// today listing, both flattened against task and subtask names.
type CalendarService struct {
	userRepo     *repository.UserRepository
	taskRepo     *repository.TaskRepository
	scheduleRepo *repository.ScheduleRepository
}

func NewCalendarService(userRepo *repository.UserRepository, taskRepo *repository.TaskRepository, scheduleRepo *repository.ScheduleRepository) *CalendarService {
	return &CalendarService{userRepo: userRepo, taskRepo: taskRepo, scheduleRepo: scheduleRepo}
}

// Range lists the user's schedule between two dates, ordered by date. Empty
// bounds default to today through 60 days ahead.
func (s *CalendarService) Range(ctx context.Context, userPublicID, startStr, endStr string) ([]model.DailyItemView, error) {
	user, err := s.userRepo.FindByPublicID(ctx, userPublicID)
	if err != nil {
		return nil, notFound(err, "user")
	}

	start := model.DateOnly(time.Now())
	if startStr != "" {
		if start, err = time.ParseInLocation(model.DateLayout, startStr, time.UTC); err != nil {
			return nil, validationf("start date %q is not a valid YYYY-MM-DD date", startStr)
		}
	}
	end := start.AddDate(0, 0, defaultRangeDays)
	if endStr != "" {
		if end, err = time.ParseInLocation(model.DateLayout, endStr, time.UTC); err != nil {
			return nil, validationf("end date %q is not a valid YYYY-MM-DD date", endStr)
		}
	}

	items, err := s.scheduleRepo.ListRangeForUser(ctx, user.ID, start, end)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, user.ID, items)
}

// Today lists the user's items for the current day, ordered by creation
// time so fresh additions land after older ones.
func (s *CalendarService) Today(ctx context.Context, userPublicID string) ([]model.DailyItemView, error) {
	user, err := s.userRepo.FindByPublicID(ctx, userPublicID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	items, err := s.scheduleRepo.ListDayForUser(ctx, user.ID, time.Now())
	if err != nil {
		return nil, err
	}
	return s.project(ctx, user.ID, items)
}

// project joins items back to their task and subtask names. Items whose
// task or subtask has vanished under a concurrent delete are skipped, not
// surfaced as errors.
func (s *CalendarService) project(ctx context.Context, userID uint, items []model.ScheduleItem) ([]model.DailyItemView, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	taskByID := make(map[uint]*model.Task, len(tasks))
	subtaskByID := make(map[uint]*model.Subtask)
	for i := range tasks {
		taskByID[tasks[i].ID] = &tasks[i]
		for j := range tasks[i].Subtasks {
			subtaskByID[tasks[i].Subtasks[j].ID] = &tasks[i].Subtasks[j]
		}
	}

	views := make([]model.DailyItemView, 0, len(items))
	for i := range items {
		item := &items[i]
		task, ok := taskByID[item.TaskID]
		if !ok {
			continue
		}
		view := model.DailyItemView{
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
			subtask, ok := subtaskByID[*item.SubtaskID]
			if !ok {
				continue
			}
			view.SubtaskID = subtask.ID
			view.SubtaskName = subtask.Name
		}
		views = append(views, view)
	}
	return views, nil
}
