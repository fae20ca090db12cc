package domain

import "time"

// Admin Model, one per installation
type Admin struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Username   string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password   string     `gorm:"not null" json:"-"`
	Activities []Activity `gorm:"polymorphic:Owner;" json:"activities,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
