package main

import (
	"coffee_platform/internal/config" // Custom import path (Config)
	"coffee_platform/internal/db"     // Custom import path (Database)
	"context"                         // Bootstrap context

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	database, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	if _, created, err := db.EnsureAdmin(context.Background(), database, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logrus.Fatalf("failed to bootstrap admin: %v", err)
	} else if created {
		logrus.WithField("username", cfg.AdminUsername).Info("Admin account created")
	}
	logrus.Info("Migration completed")
}
