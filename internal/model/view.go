package model

// DailyItemView is the flattened read shape for calendar and today listings.
// SubtaskID 0 marks a long-term slot, in which case SubtaskName carries the
// task's own name as a display substitute.
type DailyItemView struct {
	ID             uint    `json:"id"`
	Date           string  `json:"date"`
	TaskID         uint    `json:"task_id"`
	TaskName       string  `json:"task_name"`
	SubtaskID      uint    `json:"subtask_id"`
	SubtaskName    string  `json:"subtask_name"`
	AllocatedHours float64 `json:"allocated_hours"`
	IsCompleted    bool    `json:"is_completed"`
	Importance     string  `json:"importance"`
}

// SubtaskView is the read shape for a task's subtask listing.
type SubtaskView struct {
	ID             uint    `json:"id"`
	Name           string  `json:"subtask_name"`
	Description    string  `json:"description,omitempty"`
	EstimatedHours float64 `json:"estimated_hours"`
	IsCompleted    bool    `json:"is_completed"`
}

// TaskView is the read shape for task listings and detail.
type TaskView struct {
	ID          uint          `json:"id"`
	Name        string        `json:"task_name"`
	Description string        `json:"description"`
	Importance  string        `json:"importance"`
	IsLongTerm  bool          `json:"is_long_term"`
	Deadline    *string       `json:"deadline"`
	Subtasks    []SubtaskView `json:"subtasks"`
	CreatedAt   string        `json:"created_at"`
}

// UserView is the read shape for user lookups.
type UserView struct {
	ID        uint   `json:"id"`
	UserID    string `json:"user_id"`
	Nickname  string `json:"nickname"`
	CreatedAt string `json:"created_at"`
}
