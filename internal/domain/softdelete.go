package domain

import "gorm.io/gorm"

// SoftDelete is embedded by entities that are flagged instead of removed.
// Default queries skip flagged rows; Unscoped queries see them.
type SoftDelete struct {
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt"`
}

// IsDeleted reports whether the row is flagged as deleted
func (s SoftDelete) IsDeleted() bool {
	return s.DeletedAt.Valid
}
