package testutil

import (
	"os"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/openswad/swad/storage/database"
)

// PrepareDB connects to the database named by SWAD_TEST_DSN, migrates it and
// empties it. Tests are skipped when the variable is not set.
func PrepareDB(t *testing.T) *sqlx.DB {
	dsn := os.Getenv("SWAD_TEST_DSN")
	if dsn == "" {
		t.Skip("SWAD_TEST_DSN not set")
	}
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db.DB); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	ResetDB(t, db)
	return db
}

func ResetDB(t *testing.T, db *sqlx.DB) {
	if _, err := db.Exec("TRUNCATE session"); err != nil {
		t.Fatalf("ResetDB() failed: %v", err)
	}
}
