package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestUsersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_users.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS users",
		"email TEXT NOT NULL UNIQUE",
		"CHECK (char_length(name) BETWEEN 3 AND 25)",
		"role IN ('user', 'guide', 'lead-guide', 'admin')",
		"failed_attempts INTEGER NOT NULL DEFAULT 0",
		"blocked_until TIMESTAMPTZ",
		"password_reset_token_hash TEXT",
		"DROP TABLE IF EXISTS users",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestToursMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_tours.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS tours",
		"difficulty IN ('easy', 'medium', 'difficult')",
		"CHECK (average_ratings BETWEEN 1 AND 5)",
		"CHECK (price_discount < price)",
		"secret BOOLEAN NOT NULL DEFAULT FALSE",
		"DROP TABLE IF EXISTS tours",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %s", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
