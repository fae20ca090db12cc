package db

import (
	"coffee_platform/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logrus for migration logging
	"gorm.io/gorm"               // GORM ORM library
)

// Models lists every persisted entity in dependency order
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Admin{},
		&domain.Shop{},
		&domain.Product{},
		&domain.Partner{},
		&domain.PartnerAccount{},
		&domain.Subscriber{},
		&domain.Activity{},
	}
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
