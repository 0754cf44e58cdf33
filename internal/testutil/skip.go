// Package testutil provides testing utilities.
package testutil

import (
	"os"
	"testing"
)

// RemoteDatabaseURL skips the test unless STRAINSYNC_TEST_DATABASE_URL is
// set, returning the DSN. Use this for tests that need a real Postgres
// backend.
//
// Run them with: STRAINSYNC_TEST_DATABASE_URL=postgres://... go test ./...
func RemoteDatabaseURL(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("STRAINSYNC_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping remote store test (set STRAINSYNC_TEST_DATABASE_URL to run)")
	}
	return dsn
}
