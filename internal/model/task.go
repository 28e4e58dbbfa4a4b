package model

import "time"

// Importance tiers for a task.
const (
	ImportanceLow    = "low"
	ImportanceMedium = "medium"
	ImportanceHigh   = "high"
)

// ValidImportance reports whether s is one of the known tiers.
func ValidImportance(s string) bool {
	return s == ImportanceLow || s == ImportanceMedium || s == ImportanceHigh
}

// Task is a single planning unit. Long-term tasks carry no deadline and are
// scheduled as a rolling daily slot; deadline-bound tasks are scheduled per
// subtask.
type Task struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"index"`
	Name        string
	Description string
	Importance  string
	IsLongTerm  bool
	Deadline    *time.Time `gorm:"index"`
	CreatedAt   time.Time
	Subtasks    []Subtask      `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Items       []ScheduleItem `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}
