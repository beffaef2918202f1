package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openBareDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "tally-migrations-test.db")
	database, err := gorm.Open(sqlite.Open(fmt.Sprintf("%s?_foreign_keys=on", dbPath)), &gorm.Config{
		Logger: gormlogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormlogger.Config{LogLevel: gormlogger.Silent},
		),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return database
}

func TestMigrationsBootstrapFreshDatabase(t *testing.T) {
	database := openTestDatabase(t)

	for _, table := range []string{"users", "entries", "schema_migrations"} {
		var count int64
		if err := database.Raw(
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&count).Error; err != nil {
			t.Fatalf("inspect schema: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected table %s to exist", table)
		}
	}

	// Running the migrations again must be a no-op.
	if err := ApplyMigrations(database); err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}
}

func TestMigrationsBackfillLegacyStringEncodedEntries(t *testing.T) {
	database := openBareDatabase(t)

	// Recreate the pre-breakdown schema by hand, then mark migrations 001
	// and 002 as applied so only the backfill runs.
	if err := ensureSchemaMigrationsTable(database); err != nil {
		t.Fatalf("create schema_migrations: %v", err)
	}
	legacySchema := []string{
		`CREATE TABLE users (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  email TEXT NOT NULL DEFAULT '',
	  password_hash TEXT NOT NULL DEFAULT '',
	  twitter_id TEXT NOT NULL DEFAULT '',
	  display_name TEXT NOT NULL DEFAULT '',
	  must_change_password BOOLEAN NOT NULL DEFAULT 0,
	  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
		`CREATE TABLE entries (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  user_id INTEGER NOT NULL,
	  date DATE NOT NULL,
	  title TEXT NOT NULL,
	  notes TEXT NOT NULL DEFAULT '',
	  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
		`INSERT INTO schema_migrations(version, name) VALUES ('001', '001_create_users.sql')`,
		`INSERT INTO schema_migrations(version, name) VALUES ('002', '002_create_entries.sql')`,
	}
	for _, statement := range legacySchema {
		if err := database.Exec(statement).Error; err != nil {
			t.Fatalf("prepare legacy schema: %v", err)
		}
	}

	legacyRows := []struct {
		title string
		notes string
	}{
		{"Sales - Training", "2500"},
		{"Delivery - Coaching", "1800"},
		{"Sales - Speaking", "free talk"},
	}
	for _, row := range legacyRows {
		if err := database.Exec(
			`INSERT INTO entries(user_id, date, title, notes) VALUES (1, '2024-01-15', ?, ?)`,
			row.title, row.notes,
		).Error; err != nil {
			t.Fatalf("insert legacy row: %v", err)
		}
	}

	if err := ApplyMigrations(database); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	type decodedEntry struct {
		Title    string  `gorm:"column:title"`
		Type     string  `gorm:"column:type"`
		Category string  `gorm:"column:category"`
		Amount   float64 `gorm:"column:amount"`
	}
	decoded := make([]decodedEntry, 0)
	if err := database.Raw(`SELECT title, type, category, amount FROM entries ORDER BY id`).Scan(&decoded).Error; err != nil {
		t.Fatalf("load entries: %v", err)
	}
	if len(decoded) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(decoded))
	}

	if decoded[0].Type != "sales" || decoded[0].Category != "Training" || decoded[0].Amount != 2500 {
		t.Fatalf("sales training row decoded wrong: %+v", decoded[0])
	}
	if decoded[1].Type != "delivery" || decoded[1].Category != "Coaching" || decoded[1].Amount != 1800 {
		t.Fatalf("delivery coaching row decoded wrong: %+v", decoded[1])
	}
	if decoded[2].Type != "sales" || decoded[2].Category != "Speaking" || decoded[2].Amount != 0 {
		t.Fatalf("non-numeric notes should leave amount 0: %+v", decoded[2])
	}
}

func TestSplitSQLStatementsKeepsTriggerBodyIntact(t *testing.T) {
	t.Parallel()

	sqlText := strings.Join([]string{
		"CREATE TABLE demo (id INTEGER);",
		"",
		"CREATE TRIGGER trg_demo",
		"AFTER UPDATE ON demo",
		"FOR EACH ROW",
		"BEGIN",
		"  UPDATE demo SET id = NEW.id WHERE id = NEW.id;",
		"END;",
		"",
		"CREATE INDEX idx_demo ON demo(id)",
	}, "\n")

	statements := splitSQLStatements(sqlText)
	if len(statements) != 3 {
		t.Fatalf("expected 3 statements, got %d: %q", len(statements), statements)
	}
	if !strings.Contains(statements[1], "BEGIN") || !strings.Contains(statements[1], "END") {
		t.Fatalf("trigger body was split: %q", statements[1])
	}
}

func TestUpdatedAtAdvancesOnMutation(t *testing.T) {
	database := openTestDatabase(t)
	repo := NewEntryRepository(database)

	entry := createTestEntry(t, repo, 1, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), 100)
	initial := entry.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	entry.Amount = 200
	if err := repo.Save(&entry); err != nil {
		t.Fatalf("save entry: %v", err)
	}

	reloaded, found, err := repo.FindByIDForUser(1, entry.ID)
	if err != nil || !found {
		t.Fatalf("reload entry: found=%v err=%v", found, err)
	}
	if !reloaded.UpdatedAt.After(initial) {
		t.Fatalf("expected updated_at to advance: %s -> %s", initial, reloaded.UpdatedAt)
	}
}
