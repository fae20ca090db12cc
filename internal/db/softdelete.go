package db

import (
	"coffee_platform/internal/domain" // Domain errors
	"context"                         // Request context

	"gorm.io/gorm" // GORM ORM library
)

// Deletable is satisfied by models embedding domain.SoftDelete
type Deletable interface {
	IsDeleted() bool
}

// SoftDelete flags the live row with the given ID as deleted.
// A missing or already deleted row yields domain.ErrNotFound.
func SoftDelete[T Deletable](ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Restore clears the deleted flag of the row with the given ID.
// A missing or live row yields domain.ErrNotFound.
func Restore[T Deletable](ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Unscoped().Model(new(T)).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		UpdateColumn("deleted_at", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
