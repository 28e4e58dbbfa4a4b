package model

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ScheduleItem allocates hours of one task to one calendar day. SubtaskID is
// nil for a long-term task's generic daily slot. At most one item may exist
// per (date, task, subtask) key; the schedule repository's upsert is what
// maintains that, since a unique index cannot cover NULL subtask ids on
// SQLite.
type ScheduleItem struct {
	ID             uint      `gorm:"primaryKey"`
	Date           time.Time `gorm:"index:idx_schedule_day"`
	TaskID         uint      `gorm:"index:idx_schedule_day"`
	SubtaskID      *uint     `gorm:"index"`
	AllocatedHours float64
	IsCompleted    bool `gorm:"default:false"`
	CreatedAt      time.Time
}

// DateOnly truncates t to midnight UTC so stored dates compare by calendar
// day regardless of the wall clock they were built from.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
