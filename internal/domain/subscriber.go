package domain

import "time"

// Subscriber Model, a mailing-list entry
type Subscriber struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	FullName string    `gorm:"size:191" json:"fullName"`
	Email    string    `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Date     time.Time `gorm:"autoCreateTime" json:"date"`
	SoftDelete
}
