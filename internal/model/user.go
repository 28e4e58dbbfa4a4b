package model

import "time"

// User owns tasks. PublicID is the opaque identifier handed out to clients.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	PublicID  string `gorm:"uniqueIndex"`
	Nickname  string `gorm:"index"`
	CreatedAt time.Time
	Tasks     []Task `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
