package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/yangzhijiany/plan-project/internal/llm"
	"github.com/yangzhijiany/plan-project/internal/model"
	"github.com/yangzhijiany/plan-project/internal/repository"
)

const (
	// Long-term tasks get one generic slot per day over a rolling horizon.
	longTermHorizonDays = 30
	longTermDailyHours  = 1.5

	samplingTemperature = 0.7
)

// Envelope schemas for model output. Only the top level is schema-checked;
// entries are validated one by one so a single bad entry cannot fail the
// whole batch.
var (
	planEnvelope = jsonschema.MustCompileString("plan.json",
		`{"type": "object", "required": ["plan"], "properties": {"plan": {"type": "array"}}}`)
	subtasksEnvelope = jsonschema.MustCompileString("subtasks.json",
		`{"type": "object", "required": ["subtasks"], "properties": {"subtasks": {"type": "array"}}}`)
)

// PlanEntry is one committed allocation reported back to the caller.
type PlanEntry struct {
	Date           string  `json:"date"`
	SubtaskName    string  `json:"subtask_name"`
	AllocatedHours float64 `json:"allocated_hours"`
}

// PlanService turns tasks into day-by-day schedules, either algorithmically
// for long-term tasks or through the text-generation service for
// deadline-bound ones.
type PlanService struct {
	userRepo     *repository.UserRepository
	taskRepo     *repository.TaskRepository
	subtaskRepo  *repository.SubtaskRepository
	scheduleRepo *repository.ScheduleRepository
	llm          llm.Client
}

func NewPlanService(userRepo *repository.UserRepository, taskRepo *repository.TaskRepository, subtaskRepo *repository.SubtaskRepository, scheduleRepo *repository.ScheduleRepository, client llm.Client) *PlanService {
	return &PlanService{
		userRepo:     userRepo,
		taskRepo:     taskRepo,
		subtaskRepo:  subtaskRepo,
		scheduleRepo: scheduleRepo,
		llm:          client,
	}
}

// GeneratePlan builds the task's daily schedule. Re-running it never
// duplicates rows: long-term generation skips days that already have a slot,
// and deadline-bound generation upserts on the (date, task, subtask) key.
func (s *PlanService) GeneratePlan(ctx context.Context, userPublicID string, taskID uint) ([]PlanEntry, error) {
	task, err := resolveOwnedTask(ctx, s.taskRepo, s.userRepo, taskID, userPublicID)
	if err != nil {
		return nil, err
	}

	if task.IsLongTerm {
		return s.generateLongTerm(ctx, task)
	}
	return s.generateDeadlineBound(ctx, task)
}

// generateLongTerm creates one fixed daily slot for each of the next 31
// days (today included). Existing days are left untouched so user edits to
// hours or completion survive a re-run.
func (s *PlanService) generateLongTerm(ctx context.Context, task *model.Task) ([]PlanEntry, error) {
	today := model.DateOnly(time.Now())
	var created []PlanEntry
	for d := 0; d <= longTermHorizonDays; d++ {
		day := today.AddDate(0, 0, d)
		existing, err := s.scheduleRepo.FindByKey(ctx, day, task.ID, nil)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}
		item := model.ScheduleItem{
			Date:           day,
			TaskID:         task.ID,
			SubtaskID:      nil,
			AllocatedHours: longTermDailyHours,
		}
		if err := s.scheduleRepo.Create(ctx, &item); err != nil {
			return nil, err
		}
		created = append(created, PlanEntry{
			Date:           day.Format(model.DateLayout),
			SubtaskName:    task.Name,
			AllocatedHours: longTermDailyHours,
		})
	}
	return created, nil
}

// generateDeadlineBound asks the text-generation service for a per-subtask
// allocation and reconciles the proposal into the schedule. Malformed or
// unresolvable entries are dropped; only a failed call or an unparseable
// top-level response aborts the operation.
func (s *PlanService) generateDeadlineBound(ctx context.Context, task *model.Task) ([]PlanEntry, error) {
	if len(task.Subtasks) == 0 {
		return nil, validationf("task has no subtasks yet; generate subtasks first")
	}
	if task.Deadline == nil {
		return nil, validationf("a deadline is required before a plan can be generated")
	}

	today := model.DateOnly(time.Now())
	days := int(model.DateOnly(*task.Deadline).Sub(today).Hours()/24) + 1
	if days <= 0 {
		return nil, validationf("deadline cannot be before today")
	}

	raw, err := s.llm.Complete(ctx, systemPrompt, planPrompt(task, today), samplingTemperature)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	doc, err := decodeEnvelope(raw, planEnvelope)
	if err != nil {
		return nil, err
	}

	entries, _ := doc["plan"].([]any)
	return s.reconcileProposals(ctx, task, entries)
}

// reconcileProposals applies a list of loosely-typed proposed allocations,
// keeping every entry that resolves and silently dropping the rest.
func (s *PlanService) reconcileProposals(ctx context.Context, task *model.Task, entries []any) ([]PlanEntry, error) {
	committed := make([]PlanEntry, 0, len(entries))
	for _, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		date, err := time.ParseInLocation(model.DateLayout, stringField(entry, "date"), time.UTC)
		if err != nil {
			continue
		}

		subtask := resolveSubtask(task.Subtasks, entry)
		if subtask == nil {
			continue
		}

		hours := numberField(entry, "allocated_hours", 0)
		subtaskID := subtask.ID
		if _, _, err := s.scheduleRepo.Upsert(ctx, date, task.ID, &subtaskID, hours); err != nil {
			return nil, err
		}
		committed = append(committed, PlanEntry{
			Date:           date.Format(model.DateLayout),
			SubtaskName:    subtask.Name,
			AllocatedHours: hours,
		})
	}
	return committed, nil
}

// resolveSubtask maps a proposal entry to one of the task's subtasks, first
// by 1-based ordinal, then by exact name. Nil when neither resolves.
func resolveSubtask(subtasks []model.Subtask, entry map[string]any) *model.Subtask {
	idx := int(numberField(entry, "subtask_id", 1)) - 1
	if idx >= 0 && idx < len(subtasks) {
		return &subtasks[idx]
	}
	name := stringField(entry, "subtask_name")
	for i := range subtasks {
		if subtasks[i].Name == name {
			return &subtasks[i]
		}
	}
	return nil
}

// GenerateSubtasks decomposes a task description into subtask rows. Hours
// default to zero when the model omits them; entries without a name are
// dropped.
func (s *PlanService) GenerateSubtasks(ctx context.Context, userPublicID string, taskID uint, description, deadline string, isLongTerm bool) ([]model.SubtaskView, error) {
	task, err := resolveOwnedTask(ctx, s.taskRepo, s.userRepo, taskID, userPublicID)
	if err != nil {
		return nil, err
	}
	if description == "" {
		description = task.Description
	}

	raw, err := s.llm.Complete(ctx, systemPrompt, subtasksPrompt(task, description, deadline, isLongTerm), samplingTemperature)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	doc, err := decodeEnvelope(raw, subtasksEnvelope)
	if err != nil {
		return nil, err
	}

	entries, _ := doc["subtasks"].([]any)
	created := make([]model.SubtaskView, 0, len(entries))
	for _, rawEntry := range entries {
		entry, ok := rawEntry.(map[string]any)
		if !ok {
			continue
		}
		name := stringField(entry, "name")
		if name == "" {
			continue
		}
		subtask := model.Subtask{
			TaskID:         task.ID,
			Name:           name,
			Description:    stringField(entry, "description"),
			EstimatedHours: numberField(entry, "estimated_hours", 0),
		}
		if err := s.subtaskRepo.Create(ctx, &subtask); err != nil {
			return nil, err
		}
		created = append(created, *subtaskView(&subtask))
	}
	return created, nil
}

// decodeEnvelope strips code fences, parses the JSON object and checks the
// top-level shape against the given schema. Any failure here is an upstream
// error; per-entry problems are handled by the callers instead.
func decodeEnvelope(raw string, schema *jsonschema.Schema) (map[string]any, error) {
	text := llm.ExtractJSON(raw)
	if text == "" {
		return nil, upstreamf("no JSON object in response")
	}
	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, upstreamf("parse response: %v", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, upstreamf("unexpected response shape: %v", err)
	}
	return doc.(map[string]any), nil
}

func stringField(entry map[string]any, key string) string {
	s, _ := entry[key].(string)
	return s
}

func numberField(entry map[string]any, key string, fallback float64) float64 {
	if v, ok := entry[key].(float64); ok {
		return v
	}
	return fallback
}
