package db

import (
	"coffee_platform/internal/domain" // Importing domain models
	"coffee_platform/internal/utils"  // Password hashing
	"context"                         // Request context
	"errors"                          // Error inspection

	"github.com/sirupsen/logrus" // Logrus for bootstrap logging
	"gorm.io/gorm"               // GORM ORM library
)

// EnsureAdmin creates the singleton admin account unless one already exists.
// The returned bool reports whether a new account was created.
func EnsureAdmin(ctx context.Context, db *gorm.DB, username, password string) (*domain.Admin, bool, error) {
	var admin domain.Admin
	err := db.WithContext(ctx).Order("id").First(&admin).Error
	if err == nil {
		return &admin, false, nil // Already bootstrapped
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	admin = domain.Admin{
		Username:   username,
		Password:   hash,
		Activities: []domain.Activity{{Message: "Admin account created for first time"}},
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return nil, false, err
	}
	logrus.WithField("username", username).Info("Bootstrap admin created")
	return &admin, true, nil
}
