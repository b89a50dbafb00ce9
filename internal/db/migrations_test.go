package db

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/glebarez/sqlite"
	embeddedmigrations "github.com/terraincognita07/dailypulse/migrations"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestOpenSQLiteAppliesEmbeddedMigrationsOnCleanDatabase(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "dailypulse-clean.db")
	database := openSQLiteForTest(t, databasePath)

	assertColumnsExist(t, database, "users", "sleep_goal", "water_goal", "steps_goal", "exercise_goal", "badges", "must_change_password")
	assertColumnsExist(t, database, "daily_entries", "date", "sleep", "total_active_minutes", "hydration_percent", "note")
	assertAllEmbeddedMigrationsApplied(t, database)
}

func TestOpenSQLiteUpgradesInitOnlySchema(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "dailypulse-legacy.db")
	seedInitOnlySchema(t, databasePath)

	database := openSQLiteForTest(t, databasePath)

	assertColumnsExist(t, database, "users", "badges", "must_change_password")
	assertAllEmbeddedMigrationsApplied(t, database)

	var migrated struct {
		Email  string `gorm:"column:email"`
		Badges string `gorm:"column:badges"`
	}
	if err := database.Table("users").Select("email", "badges").Where("email = ?", "legacy@example.com").First(&migrated).Error; err != nil {
		t.Fatalf("load migrated user: %v", err)
	}
	if migrated.Badges != "[]" {
		t.Fatalf("expected badges default [], got %q", migrated.Badges)
	}
}

func TestOpenSQLiteMigrationBootstrapIsIdempotent(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "dailypulse-idempotent.db")

	firstOpen, err := OpenSQLite(databasePath, zap.NewNop())
	if err != nil {
		t.Fatalf("first open sqlite: %v", err)
	}
	firstRecords := loadMigrationRecords(t, firstOpen)

	firstSQLDB, err := firstOpen.DB()
	if err != nil {
		t.Fatalf("first open sql db: %v", err)
	}
	if err := firstSQLDB.Close(); err != nil {
		t.Fatalf("close first sql db: %v", err)
	}

	secondOpen := openSQLiteForTest(t, databasePath)
	secondRecords := loadMigrationRecords(t, secondOpen)

	if !reflect.DeepEqual(firstRecords, secondRecords) {
		t.Fatalf("expected migration records to remain unchanged between boots, before=%v after=%v", firstRecords, secondRecords)
	}
}

func TestLoadEmbeddedMigrationsOrdersAndRejectsDuplicates(t *testing.T) {
	ordered, err := loadEmbeddedMigrations(fstest.MapFS{
		"0010_late.sql":  {Data: []byte("SELECT 1;")},
		"0002_early.sql": {Data: []byte("SELECT 1;")},
		"README.md":      {Data: []byte("ignored")},
	})
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}
	if len(ordered) != 2 || ordered[0].Name != "0002_early.sql" || ordered[1].Name != "0010_late.sql" {
		t.Fatalf("expected numeric ordering, got %#v", ordered)
	}

	_, err = loadEmbeddedMigrations(fstest.MapFS{
		"0001_a.sql": {Data: []byte("SELECT 1;")},
		"0001_b.sql": {Data: []byte("SELECT 1;")},
	})
	if err == nil || !strings.Contains(err.Error(), "duplicate migration version") {
		t.Fatalf("expected duplicate version error, got %v", err)
	}
}

func TestSplitSQLStatementsSkipsComments(t *testing.T) {
	statements := splitSQLStatements("-- users; goals\nCREATE TABLE a (id INT);\n  -- trailing note\n")
	if len(statements) != 1 || statements[0] != "CREATE TABLE a (id INT)" {
		t.Fatalf("expected comment lines to be dropped, got %#v", statements)
	}
}

func TestApplyMigrationsRejectsChangedMigration(t *testing.T) {
	database, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "dailypulse-drift.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	original := fstest.MapFS{
		"0001_notes.sql": {Data: []byte("CREATE TABLE notes (id INTEGER PRIMARY KEY);")},
	}
	applied, err := applyMigrations(database, original)
	if err != nil || len(applied) != 1 {
		t.Fatalf("first run applied=%v err=%v", applied, err)
	}
	records := loadMigrationRecords(t, database)
	if len(records) != 1 || len(records[0].Checksum) != 64 {
		t.Fatalf("expected recorded sha256 checksum, got %#v", records)
	}

	again, err := applyMigrations(database, original)
	if err != nil || len(again) != 0 {
		t.Fatalf("second run applied=%v err=%v", again, err)
	}

	edited := fstest.MapFS{
		"0001_notes.sql": {Data: []byte("CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT);")},
		"0002_more.sql":  {Data: []byte("CREATE TABLE more (id INTEGER PRIMARY KEY);")},
	}
	if _, err := applyMigrations(database, edited); !errors.Is(err, errMigrationChanged) {
		t.Fatalf("expected changed migration error, got %v", err)
	}
	if database.Migrator().HasTable("more") {
		t.Fatal("expected no new migration to run after a checksum mismatch")
	}
}

func TestSplitSQLStatementsDropsEmptyParts(t *testing.T) {
	statements := splitSQLStatements("CREATE TABLE a (id INT);\n\n; ALTER TABLE a ADD COLUMN b TEXT;  ")
	if len(statements) != 2 {
		t.Fatalf("expected 2 statements, got %#v", statements)
	}
	if statements[1] != "ALTER TABLE a ADD COLUMN b TEXT" {
		t.Fatalf("unexpected second statement %q", statements[1])
	}
}

func openSQLiteForTest(t *testing.T, databasePath string) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(databasePath, zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database
}

func seedInitOnlySchema(t *testing.T, databasePath string) {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{})
	if err != nil {
		t.Fatalf("open legacy sqlite: %v", err)
	}

	initSQL, err := fs.ReadFile(embeddedmigrations.Files, "0001_init.sql")
	if err != nil {
		t.Fatalf("read 0001 migration: %v", err)
	}
	for _, statement := range splitSQLStatements(string(initSQL)) {
		if err := database.Exec(statement).Error; err != nil {
			t.Fatalf("apply 0001 statement: %v", err)
		}
	}

	if err := database.Exec(
		`INSERT INTO users (email, password_hash, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		"legacy@example.com",
		"legacy-hash",
	).Error; err != nil {
		t.Fatalf("insert legacy user: %v", err)
	}

	if database.Migrator().HasTable("schema_migrations") {
		t.Fatal("expected legacy schema to not have schema_migrations table")
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open legacy sql db: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close legacy sql db: %v", err)
	}
}

func assertColumnsExist(t *testing.T, database *gorm.DB, tableName string, expected ...string) {
	t.Helper()

	columns := loadTableColumns(t, database, tableName)
	for _, column := range expected {
		if _, exists := columns[column]; !exists {
			t.Fatalf("expected %s.%s column to exist after migrations", tableName, column)
		}
	}
}

func assertAllEmbeddedMigrationsApplied(t *testing.T, database *gorm.DB) {
	t.Helper()

	migrations, err := loadEmbeddedMigrations(embeddedmigrations.Files)
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}
	expectedVersions := make([]string, 0, len(migrations))
	for _, migration := range migrations {
		expectedVersions = append(expectedVersions, migration.Version)
	}

	actualVersions := make([]string, 0)
	for _, record := range loadMigrationRecords(t, database) {
		actualVersions = append(actualVersions, record.Version)
	}

	if !reflect.DeepEqual(expectedVersions, actualVersions) {
		t.Fatalf("unexpected applied migration versions: expected=%v actual=%v", expectedVersions, actualVersions)
	}
}

type appliedMigrationRow struct {
	Version   string `gorm:"column:version"`
	Name      string `gorm:"column:name"`
	Checksum  string `gorm:"column:checksum"`
	AppliedAt string `gorm:"column:applied_at"`
}

func loadMigrationRecords(t *testing.T, database *gorm.DB) []appliedMigrationRow {
	t.Helper()

	records := make([]appliedMigrationRow, 0)
	if err := database.Raw(
		`SELECT version, name, checksum, applied_at FROM schema_migrations ORDER BY version ASC`,
	).Scan(&records).Error; err != nil {
		t.Fatalf("load migration records: %v", err)
	}
	return records
}

func loadTableColumns(t *testing.T, database *gorm.DB, tableName string) map[string]struct{} {
	t.Helper()

	escapedTable := strings.ReplaceAll(tableName, `"`, `""`)
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, escapedTable)

	var rows []struct {
		Name string `gorm:"column:name"`
	}
	if err := database.Raw(query).Scan(&rows).Error; err != nil {
		t.Fatalf("load table columns for %s: %v", tableName, err)
	}

	columns := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		columns[strings.ToLower(strings.TrimSpace(row.Name))] = struct{}{}
	}
	return columns
}
