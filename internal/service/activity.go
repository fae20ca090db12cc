package service

import (
	"coffee_platform/internal/domain" // Activity model
	"context"                         // Request context

	"github.com/sirupsen/logrus" // Logrus for swallowed failures
	"gorm.io/gorm"               // GORM ORM library
)

// ActivityLog appends entries to an owner's activity log.
// Recording may silently fail: errors are logged and never returned.
type ActivityLog struct {
	db *gorm.DB
}

// NewActivityLog writes through db
func NewActivityLog(db *gorm.DB) *ActivityLog {
	return &ActivityLog{db: db}
}

// Record appends message to the log of the given owner
func (a *ActivityLog) Record(ctx context.Context, ownerType string, ownerID uint, message string) {
	entry := domain.Activity{OwnerType: ownerType, OwnerID: ownerID, Message: message}
	if err := a.db.WithContext(ctx).Create(&entry).Error; err != nil {
		logrus.WithFields(logrus.Fields{
			"owner_type": ownerType,
			"owner_id":   ownerID,
			"message":    message,
		}).WithError(err).Warn("Failed to record activity")
	}
}

// Admin appends message to an admin's log
func (a *ActivityLog) Admin(ctx context.Context, adminID uint, message string) {
	a.Record(ctx, domain.OwnerAdmins, adminID, message)
}

// User appends message to a user's log
func (a *ActivityLog) User(ctx context.Context, userID uint, message string) {
	a.Record(ctx, domain.OwnerUsers, userID, message)
}

// Partner appends message to a partner's log
func (a *ActivityLog) Partner(ctx context.Context, partnerID uint, message string) {
	a.Record(ctx, domain.OwnerPartners, partnerID, message)
}

// Recent returns the newest entries of an owner's log
func (a *ActivityLog) Recent(ctx context.Context, ownerType string, ownerID uint, limit int) ([]domain.Activity, error) {
	var out []domain.Activity
	err := a.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}
