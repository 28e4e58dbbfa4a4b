package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/yangzhijiany/plan-project/internal/model"
)

const systemPrompt = "You are a professional study and work planning assistant. Always respond with valid JSON."

// subtasksPrompt asks the model to decompose a task description into
// subtasks with hour estimates.
func subtasksPrompt(task *model.Task, description, deadline string, isLongTerm bool) string {
	if deadline == "" {
		deadline = "none (long-term task)"
	}
	longTerm := "no"
	if isLongTerm {
		longTerm = "yes"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Break the following task into a detailed subtask list.

Task name: %s
Task description: %s
Deadline: %s
Long-term task: %s

Requirements:
1. Identify every step needed to complete the task.
2. Each subtask must be concrete and actionable.
3. Estimate the hours each subtask needs; be realistic.
4. Split large steps into several subtasks.
5. Respond with JSON in exactly this shape:
{
  "subtasks": [
    {"name": "subtask 1", "estimated_hours": 2.0},
    {"name": "subtask 2", "estimated_hours": 3.5}
  ]
}

Return only the JSON object, no other text. estimated_hours must be numbers.`,
		task.Name, description, deadline, longTerm)
	return b.String()
}

// planPrompt asks the model for a day-by-day allocation of the task's
// subtasks between today and the deadline.
func planPrompt(task *model.Task, today time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Create a detailed daily plan for the following task.

Task name: %s
Task description: %s
Importance: %s
Deadline: %s

Subtasks (numbered in order):
`, task.Name, task.Description, task.Importance, task.Deadline.Format(model.DateLayout))

	for i, st := range task.Subtasks {
		fmt.Fprintf(&b, "%d. %s (estimated %.1f hours)\n", i+1, st.Name, st.EstimatedHours)
	}

	fmt.Fprintf(&b, `
Requirements:
1. Plan every day from today (%s) through the deadline (%s).
2. A single day may carry several subtasks.
3. Spread the subtasks so everything finishes before the deadline; a subtask
   may span multiple days.
4. Keep the daily load balanced, roughly 2-4 hours, weighted by importance.
5. Allocated hours should not exceed a subtask's estimated hours in total.
6. Respond with JSON in exactly this shape:
{
  "plan": [
    {"date": "YYYY-MM-DD", "subtask_id": 1, "allocated_hours": 2.0, "subtask_name": "subtask 1"},
    {"date": "YYYY-MM-DD", "subtask_id": 2, "allocated_hours": 1.5, "subtask_name": "subtask 2"}
  ]
}

Notes:
- subtask_id is the 1-based number from the list above.
- subtask_name is the subtask's name, used for verification.
- Dates must be formatted YYYY-MM-DD.
- Every subtask must appear in the plan.

Return only the JSON object, no other text.`,
		today.Format(model.DateLayout), task.Deadline.Format(model.DateLayout))
	return b.String()
}
