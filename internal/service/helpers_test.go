package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yangzhijiany/plan-project/internal/model"
	"github.com/yangzhijiany/plan-project/internal/repository"
)

// newTestDB opens a fresh shared in-memory database per test. The name is
// derived from the test so parallel packages do not collide.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.NewDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
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

type fixture struct {
	db           *gorm.DB
	userRepo     *repository.UserRepository
	taskRepo     *repository.TaskRepository
	subtaskRepo  *repository.SubtaskRepository
	scheduleRepo *repository.ScheduleRepository
	user         *model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:           db,
		userRepo:     repository.NewUserRepository(db),
		taskRepo:     repository.NewTaskRepository(db),
		subtaskRepo:  repository.NewSubtaskRepository(db),
		scheduleRepo: repository.NewScheduleRepository(db),
	}
	user, err := f.userRepo.GetOrCreate(context.Background(), "alice", "abc12345")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	f.user = user
	return f
}

// createTask stores a task directly through the repository, bypassing the
// service validation so tests can set up states like past deadlines.
func (f *fixture) createTask(t *testing.T, name string, isLongTerm bool, deadline *time.Time) *model.Task {
	t.Helper()
	task := &model.Task{
		UserID:     f.user.ID,
		Name:       name,
		Importance: model.ImportanceMedium,
		IsLongTerm: isLongTerm,
		Deadline:   deadline,
	}
	if err := f.taskRepo.Create(context.Background(), task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func (f *fixture) createSubtask(t *testing.T, taskID uint, name string, hours float64) *model.Subtask {
	t.Helper()
	subtask := &model.Subtask{TaskID: taskID, Name: name, EstimatedHours: hours}
	if err := f.subtaskRepo.Create(context.Background(), subtask); err != nil {
		t.Fatalf("create subtask: %v", err)
	}
	return subtask
}

func (f *fixture) countItems(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&model.ScheduleItem{}).Count(&n).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	return n
}

func daysFromToday(n int) *time.Time {
	d := model.DateOnly(time.Now()).AddDate(0, 0, n)
	return &d
}

// stubLLM fakes the text-generation service.
type stubLLM struct {
	response string
	err      error
	calls    int
}

func (s *stubLLM) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}
