// Package testdb opens migrated in-memory sqlite databases for tests.
package testdb

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/masteryyh/scaffold/pkg/config"
	"github.com/masteryyh/scaffold/pkg/conn"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Open returns a fresh database private to t, closed when t finishes.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString()),
	}

	db, err := conn.Open(cfg)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, conn.Migrate(context.Background(), db, cfg.Driver), "failed to migrate test database")
	return db
}
