package model

import "time"

// Subtask is one decomposed step of a task with an hour budget.
type Subtask struct {
	ID             uint `gorm:"primaryKey"`
	TaskID         uint `gorm:"index"`
	Name           string
	Description    string
	EstimatedHours float64
	IsCompleted    bool `gorm:"default:false"`
	CreatedAt      time.Time
	Items          []ScheduleItem `gorm:"foreignKey:SubtaskID;constraint:OnDelete:CASCADE"`
}
