package domain

import "time"

// Owner types of activity entries, equal to the owners' table names
const (
	OwnerUsers    = "users"
	OwnerAdmins   = "admins"
	OwnerPartners = "partners"
)

// Activity is one append-only entry of an owner's activity log
type Activity struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	OwnerID   uint      `gorm:"index:idx_activity_owner" json:"-"`
	OwnerType string    `gorm:"size:32;index:idx_activity_owner" json:"-"`
	Message   string    `gorm:"not null" json:"message"`
	Date      time.Time `gorm:"autoCreateTime" json:"date"`
}
