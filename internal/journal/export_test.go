package journal

import "database/sql"

// DB exposes the internal *sql.DB for test helpers in journal_test.
// This file only compiles during `go test`.
func (j *Journal) DB() *sql.DB {
	return j.db
}

// SanitizeFTS exposes sanitizeFTS to journal_test.
var SanitizeFTS = sanitizeFTS

// SetOpenDB swaps the database opener and returns a restore func.
func SetOpenDB(fn func(driver, dsn string) (*sql.DB, error)) func() {
	orig := openDB
	openDB = fn
	return func() { openDB = orig }
}
