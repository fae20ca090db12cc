// Package testutil builds throwaway databases and Redis servers for tests.
package testutil

import (
	"bytes"                       // Image encoding
	"coffee_platform/internal/db" // Schema
	"image"                       // Test image
	"image/png"                   // PNG encoding
	"testing"                     // Test helpers

	"github.com/alicebob/miniredis/v2" // In-memory Redis
	"github.com/google/uuid"           // Unique database names
	"github.com/redis/go-redis/v9"     // Redis client
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite" // SQLite driver for GORM
	"gorm.io/gorm"          // GORM ORM library
	"gorm.io/gorm/logger"   // Silent logging
)

// DB opens a private in-memory SQLite database with the full schema
func DB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// Redis starts a miniredis server and a client connected to it
func Redis(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

// PNG returns a tiny valid PNG image
func PNG(t testing.TB) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}
