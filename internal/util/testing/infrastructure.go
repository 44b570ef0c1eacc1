package test_utils

import (
	"testing"

	"logkeeper/internal/config"
)

// SkipIfNoDatabase skips tests that need a real PostgreSQL instance.
func SkipIfNoDatabase(t *testing.T) {
	t.Helper()

	if config.GetEnv().DatabaseDsn == "" {
		t.Skip("DATABASE_DSN is not set, skipping database test")
	}
}

// SkipIfNoCache skips tests that need a real Valkey instance.
func SkipIfNoCache(t *testing.T) {
	t.Helper()

	if config.GetEnv().ValkeyHost == "" {
		t.Skip("VALKEY_HOST is not set, skipping cache test")
	}
}
