// Package dbtest opens throwaway in-memory databases carrying the full schema.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/MyelinBots/statbot-go/internal/db"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/badge"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/guild"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/stats"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/user"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
)

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&guild.Guild{},
		&stats.CommunityStat{},
		&stats.ChannelStat{},
		&badge.Badge{},
		&badge.UserBadge{},
	}
}

// Open returns a private SQLite database that lives until the test ends.
// A single connection keeps every statement on the same in-memory database.
func Open(t testing.TB) *db.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	database, err := db.Open(sqlite.Open(dsn), "silent")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := database.DB.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.DB.AutoMigrate(Models()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	t.Cleanup(func() { _ = database.Close() })
	return database
}
