package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yangzhijiany/plan-project/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := NewDB(fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedTask(t *testing.T, db *gorm.DB) *model.Task {
	t.Helper()
	user := model.User{PublicID: "seed0001", Nickname: "seed"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	task := model.Task{UserID: user.ID, Name: "seeded", Importance: model.ImportanceMedium}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return &task
}

func TestUpsertPreservesIdentity(t *testing.T) {
	db := newTestDB(t)
	repo := NewScheduleRepository(db)
	task := seedTask(t, db)
	ctx := context.Background()

	subtask := model.Subtask{TaskID: task.ID, Name: "step", EstimatedHours: 4}
	if err := db.Create(&subtask).Error; err != nil {
		t.Fatalf("seed subtask: %v", err)
	}

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	id := subtask.ID

	first, created, err := repo.Upsert(ctx, day, task.ID, &id, 2.0)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !created {
		t.Fatal("first upsert should create")
	}
	if err := repo.ToggleCompleted(ctx, first); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	second, created, err := repo.Upsert(ctx, day, task.ID, &id, 3.5)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Fatal("second upsert must overwrite, not create")
	}
	if second.ID != first.ID {
		t.Errorf("upsert changed row identity: %d -> %d", first.ID, second.ID)
	}

	var rows []model.ScheduleItem
	if err := db.Find(&rows).Error; err != nil {
		t.Fatalf("load rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].AllocatedHours != 3.5 {
		t.Errorf("hours = %v, want 3.5", rows[0].AllocatedHours)
	}
	if !rows[0].IsCompleted {
		t.Error("overwrite must preserve the completion flag")
	}
	if !rows[0].CreatedAt.Equal(first.CreatedAt) {
		t.Error("overwrite must preserve the creation timestamp")
	}
}

func TestUpsertKeySeparatesSubtaskFromDailySlot(t *testing.T) {
	db := newTestDB(t)
	repo := NewScheduleRepository(db)
	task := seedTask(t, db)
	ctx := context.Background()

	subtask := model.Subtask{TaskID: task.ID, Name: "step", EstimatedHours: 1}
	if err := db.Create(&subtask).Error; err != nil {
		t.Fatalf("seed subtask: %v", err)
	}

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	id := subtask.ID

	if _, _, err := repo.Upsert(ctx, day, task.ID, nil, 1.5); err != nil {
		t.Fatalf("daily slot upsert: %v", err)
	}
	if _, _, err := repo.Upsert(ctx, day, task.ID, &id, 2.0); err != nil {
		t.Fatalf("subtask upsert: %v", err)
	}

	var n int64
	if err := db.Model(&model.ScheduleItem{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("nil and non-nil subtask must be distinct keys, got %d rows", n)
	}

	found, err := repo.FindByKey(ctx, day, task.ID, nil)
	if err != nil {
		t.Fatalf("find daily slot: %v", err)
	}
	if found == nil || found.SubtaskID != nil {
		t.Errorf("daily-slot lookup returned %+v", found)
	}

	missing, err := repo.FindByKey(ctx, day.AddDate(0, 0, 1), task.ID, nil)
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for an absent key, got %+v", missing)
	}
}
