package test

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/uuid"

	"taskapp/internal/adapter/database/sqlite"
)

type TestSetup[T any] struct {
	DB   *sqlite.DB
	Repo T
}

// FindProjectRoot finds the project root directory by looking for go.mod
func FindProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)

		if parent == dir {
			break
		}

		dir = parent
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	log.Fatal("Could not find project root directory")
	return ""
}

func MigrationsPath(driver string) string {
	return filepath.Join(FindProjectRoot(), "db", "migrations", driver)
}

// InitTestDB opens a private in-memory database with the schema applied.
// A single connection keeps every query on the same memory database.
func InitTestDB() *sqlite.DB {
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"

	db, err := sql.Open(sqlite.DriverName, dsn)

	if err != nil {
		log.Fatal(err)
	}

	db.SetMaxOpenConns(1)

	if err := sqlite.RunMigrations(db, MigrationsPath("sqlite")); err != nil {
		log.Fatal(err)
	}

	return sqlite.Wrap(db)
}

func SetupTest[T any](t *testing.T, build func(db *sqlite.DB) T) *TestSetup[T] {
	t.Helper()

	db := InitTestDB()

	return &TestSetup[T]{
		DB:   db,
		Repo: build(db),
	}
}

func TeardownTest[T any](t *testing.T, setup *TestSetup[T]) {
	t.Helper()

	if setup.DB != nil {
		CleanDB(t, setup.DB.DB)
		setup.DB.Close()
	}
}

func CleanDB(t *testing.T, db *sql.DB) {
	t.Helper()

	if _, err := db.Exec("DELETE FROM tasks"); err != nil {
		t.Fatalf("Failed to clean tasks table: %v", err)
	}
}
