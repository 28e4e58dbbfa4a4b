package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yangzhijiany/plan-project/internal/model"
)

func newScheduleService(f *fixture) *ScheduleService {
	return NewScheduleService(f.userRepo, f.taskRepo, f.subtaskRepo, f.scheduleRepo)
}

func (f *fixture) createItem(t *testing.T, taskID uint, subtaskID *uint, day time.Time, hours float64) *model.ScheduleItem {
	t.Helper()
	item := &model.ScheduleItem{Date: day, TaskID: taskID, SubtaskID: subtaskID, AllocatedHours: hours}
	if err := f.scheduleRepo.Create(context.Background(), item); err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}

func TestDeleteFutureCascadeLongTermIsolation(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "Mixed", false, daysFromToday(10))
	subtask := f.createSubtask(t, task.ID, "step", 4)

	// Long-term slots on days 0..3, subtask items on days 1..3.
	var slots []*model.ScheduleItem
	for d := 0; d <= 3; d++ {
		slots = append(slots, f.createItem(t, task.ID, nil, *daysFromToday(d), 1.5))
	}
	for d := 1; d <= 3; d++ {
		id := subtask.ID
		f.createItem(t, task.ID, &id, *daysFromToday(d), 2)
	}

	svc := newScheduleService(f)
	count, err := svc.DeleteItem(context.Background(), f.user.PublicID, slots[1].ID, true)
	if err != nil {
		t.Fatalf("delete future: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 deleted long-term slots (days 1-3), got %d", count)
	}

	var remaining []model.ScheduleItem
	if err := f.db.Find(&remaining).Error; err != nil {
		t.Fatalf("load remaining: %v", err)
	}
	if len(remaining) != 4 {
		t.Fatalf("expected 4 remaining rows, got %d", len(remaining))
	}
	for _, item := range remaining {
		if item.SubtaskID == nil && !item.Date.Equal(*daysFromToday(0)) {
			t.Errorf("long-term slot on %v survived the cascade", item.Date)
		}
	}
}

func TestDeleteFutureCascadeSubtaskItems(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "Deadline work", false, daysFromToday(10))
	st1 := f.createSubtask(t, task.ID, "first", 4)
	st2 := f.createSubtask(t, task.ID, "second", 3)

	id1, id2 := st1.ID, st2.ID
	f.createItem(t, task.ID, &id1, *daysFromToday(0), 2)
	target := f.createItem(t, task.ID, &id1, *daysFromToday(1), 2)
	f.createItem(t, task.ID, &id2, *daysFromToday(2), 1)
	longTerm := f.createItem(t, task.ID, nil, *daysFromToday(2), 1.5)

	svc := newScheduleService(f)
	count, err := svc.DeleteItem(context.Background(), f.user.PublicID, target.ID, true)
	if err != nil {
		t.Fatalf("delete future: %v", err)
	}
	// Days 1 and 2 across both subtasks go; day 0 and the daily slot stay.
	if count != 2 {
		t.Fatalf("expected 2 deleted items, got %d", count)
	}

	var remaining []model.ScheduleItem
	if err := f.db.Find(&remaining).Error; err != nil {
		t.Fatalf("load remaining: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 remaining rows, got %d", len(remaining))
	}
	for _, item := range remaining {
		if item.ID != longTerm.ID && !item.Date.Equal(*daysFromToday(0)) {
			t.Errorf("unexpected survivor: %+v", item)
		}
	}
}

func TestDeleteSingleItem(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "Single", true, nil)
	a := f.createItem(t, task.ID, nil, *daysFromToday(0), 1.5)
	f.createItem(t, task.ID, nil, *daysFromToday(1), 1.5)

	svc := newScheduleService(f)
	count, err := svc.DeleteItem(context.Background(), f.user.PublicID, a.ID, false)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 deleted item, got %d", count)
	}
	if got := f.countItems(t); got != 1 {
		t.Errorf("expected 1 remaining row, got %d", got)
	}
}

func TestUpdateHours(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "Edit me", true, nil)
	item := f.createItem(t, task.ID, nil, *daysFromToday(0), 1.5)

	svc := newScheduleService(f)
	view, err := svc.UpdateHours(context.Background(), f.user.PublicID, item.ID, 4.5)
	if err != nil {
		t.Fatalf("update hours: %v", err)
	}
	if view.AllocatedHours != 4.5 {
		t.Errorf("view hours = %v, want 4.5", view.AllocatedHours)
	}
	if view.SubtaskID != 0 || view.SubtaskName != task.Name {
		t.Errorf("long-term view should use the task name and sentinel id, got %+v", view)
	}

	var reloaded model.ScheduleItem
	if err := f.db.First(&reloaded, item.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.AllocatedHours != 4.5 || reloaded.IsCompleted {
		t.Errorf("stored item wrong after edit: %+v", reloaded)
	}
}

func TestUpdateHoursNegative(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "Edit me", true, nil)
	item := f.createItem(t, task.ID, nil, *daysFromToday(0), 1.5)

	svc := newScheduleService(f)
	if _, err := svc.UpdateHours(context.Background(), f.user.PublicID, item.ID, -1); !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestToggleComplete(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "Toggle", true, nil)
	item := f.createItem(t, task.ID, nil, *daysFromToday(0), 1.5)

	svc := newScheduleService(f)
	view, err := svc.ToggleComplete(context.Background(), f.user.PublicID, item.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !view.IsCompleted {
		t.Errorf("expected completed=true after first toggle")
	}
	view, err = svc.ToggleComplete(context.Background(), f.user.PublicID, item.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if view.IsCompleted {
		t.Errorf("expected completed=false after second toggle")
	}
}

func TestItemOwnership(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "Mine", true, nil)
	item := f.createItem(t, task.ID, nil, *daysFromToday(0), 1.5)

	other, err := f.userRepo.GetOrCreate(context.Background(), "mallory", "mal12345")
	if err != nil {
		t.Fatalf("create other user: %v", err)
	}

	svc := newScheduleService(f)
	if _, err := svc.ToggleComplete(context.Background(), other.PublicID, item.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.UpdateHours(context.Background(), f.user.PublicID, 9999, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing item, got %v", err)
	}
}

func TestClearCalendar(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "A", true, nil)
	f.createItem(t, task.ID, nil, *daysFromToday(0), 1.5)
	f.createItem(t, task.ID, nil, *daysFromToday(1), 1.5)

	// Another user's schedule must survive the clear.
	other, err := f.userRepo.GetOrCreate(context.Background(), "bob", "bob12345")
	if err != nil {
		t.Fatalf("create other user: %v", err)
	}
	otherTask := &model.Task{UserID: other.ID, Name: "B", Importance: model.ImportanceLow, IsLongTerm: true}
	if err := f.taskRepo.Create(context.Background(), otherTask); err != nil {
		t.Fatalf("create other task: %v", err)
	}
	f.createItem(t, otherTask.ID, nil, *daysFromToday(0), 1)

	svc := newScheduleService(f)
	count, err := svc.ClearCalendar(context.Background(), f.user.PublicID)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 cleared items, got %d", count)
	}
	if got := f.countItems(t); got != 1 {
		t.Errorf("expected the other user's row to survive, have %d rows", got)
	}
}
