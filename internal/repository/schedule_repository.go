package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yangzhijiany/plan-project/internal/model"
)

// ScheduleRepository manages daily schedule items. Its Upsert is the single
// write path generation goes through, which is what keeps repeated runs from
// duplicating rows for the same (date, task, subtask) key.
type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// keyQuery scopes db to the natural key. A nil subtask id matches the
// long-term daily slot rather than any subtask row.
func keyQuery(db *gorm.DB, date time.Time, taskID uint, subtaskID *uint) *gorm.DB {
	db = db.Where("date = ? AND task_id = ?", model.DateOnly(date), taskID)
	if subtaskID == nil {
		return db.Where("subtask_id IS NULL")
	}
	return db.Where("subtask_id = ?", *subtaskID)
}

func (r *ScheduleRepository) Create(ctx context.Context, item *model.ScheduleItem) error {
	item.Date = model.DateOnly(item.Date)
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create schedule item: %w", err)
	}
	return nil
}

// FindByKey returns the item on the (date, task, subtask) key, or nil when
// no such item exists.
func (r *ScheduleRepository) FindByKey(ctx context.Context, date time.Time, taskID uint, subtaskID *uint) (*model.ScheduleItem, error) {
	var item model.ScheduleItem
	err := keyQuery(r.db.WithContext(ctx), date, taskID, subtaskID).First(&item).Error
	switch {
	case err == nil:
		return &item, nil
	case err == gorm.ErrRecordNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("find schedule item: %w", err)
	}
}

// Upsert overwrites the hours of an existing item on the key, or inserts a
// new one. An existing item keeps its identity, completion flag and creation
// timestamp. Returns the resulting item and whether it was newly created.
func (r *ScheduleRepository) Upsert(ctx context.Context, date time.Time, taskID uint, subtaskID *uint, hours float64) (*model.ScheduleItem, bool, error) {
	existing, err := r.FindByKey(ctx, date, taskID, subtaskID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if err := r.db.WithContext(ctx).Model(existing).
			Update("allocated_hours", hours).Error; err != nil {
			return nil, false, fmt.Errorf("update schedule item: %w", err)
		}
		existing.AllocatedHours = hours
		return existing, false, nil
	}

	item := model.ScheduleItem{
		Date:           model.DateOnly(date),
		TaskID:         taskID,
		SubtaskID:      subtaskID,
		AllocatedHours: hours,
	}
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, false, fmt.Errorf("create schedule item: %w", err)
	}
	return &item, true, nil
}

func (r *ScheduleRepository) FindByID(ctx context.Context, itemID uint) (*model.ScheduleItem, error) {
	var item model.ScheduleItem
	if err := r.db.WithContext(ctx).First(&item, itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ScheduleRepository) UpdateHours(ctx context.Context, item *model.ScheduleItem, hours float64) error {
	if err := r.db.WithContext(ctx).Model(item).
		Update("allocated_hours", hours).Error; err != nil {
		return fmt.Errorf("update hours: %w", err)
	}
	item.AllocatedHours = hours
	return nil
}

func (r *ScheduleRepository) ToggleCompleted(ctx context.Context, item *model.ScheduleItem) error {
	if err := r.db.WithContext(ctx).Model(item).
		Update("is_completed", !item.IsCompleted).Error; err != nil {
		return fmt.Errorf("toggle completed: %w", err)
	}
	item.IsCompleted = !item.IsCompleted
	return nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, itemID uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.ScheduleItem{}, itemID).Error; err != nil {
		return fmt.Errorf("delete schedule item: %w", err)
	}
	return nil
}

// DeleteFuture removes the item together with every same-task item on or
// after its date. The cascade never crosses the long-term boundary: deleting
// a daily slot (nil subtask) stays within the other daily slots, and
// deleting a subtask-bound item stays within subtask-bound items.
func (r *ScheduleRepository) DeleteFuture(ctx context.Context, item *model.ScheduleItem) (int64, error) {
	db := r.db.WithContext(ctx).
		Where("task_id = ? AND date >= ?", item.TaskID, model.DateOnly(item.Date))
	if item.SubtaskID == nil {
		db = db.Where("subtask_id IS NULL")
	} else {
		db = db.Where("subtask_id IS NOT NULL")
	}
	res := db.Delete(&model.ScheduleItem{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete future items: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteForTasks clears every item belonging to the given tasks.
func (r *ScheduleRepository) DeleteForTasks(ctx context.Context, taskIDs []uint) (int64, error) {
	if len(taskIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("task_id IN ?", taskIDs).
		Delete(&model.ScheduleItem{})
	if res.Error != nil {
		return 0, fmt.Errorf("clear schedule items: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ListRangeForUser returns the user's items with date in [start, end],
// ordered by date.
func (r *ScheduleRepository) ListRangeForUser(ctx context.Context, userID uint, start, end time.Time) ([]model.ScheduleItem, error) {
	var items []model.ScheduleItem
	if err := r.db.WithContext(ctx).
		Joins("JOIN tasks ON tasks.id = schedule_items.task_id").
		Where("tasks.user_id = ? AND schedule_items.date >= ? AND schedule_items.date <= ?",
			userID, model.DateOnly(start), model.DateOnly(end)).
		Order("schedule_items.date ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListDayForUser returns the user's items on one day, ordered by creation
// time so items added later sort after earlier ones.
func (r *ScheduleRepository) ListDayForUser(ctx context.Context, userID uint, day time.Time) ([]model.ScheduleItem, error) {
	var items []model.ScheduleItem
	if err := r.db.WithContext(ctx).
		Joins("JOIN tasks ON tasks.id = schedule_items.task_id").
		Where("tasks.user_id = ? AND schedule_items.date = ?", userID, model.DateOnly(day)).
		Order("schedule_items.created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
