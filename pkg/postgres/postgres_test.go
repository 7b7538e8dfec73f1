package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles(t *testing.T) {
	files, err := migrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001_roster.sql", files[0])
	assert.IsIncreasing(t, files)
}

func TestMigrations_CreateRosterTables(t *testing.T) {
	content, err := fs.ReadFile(migrationsFS, "migrations/001_roster.sql")
	require.NoError(t, err)

	for _, table := range []string{"staff", "availability", "absence", "consent", "month_schedule", "overtime_request"} {
		assert.True(t, strings.Contains(string(content), "CREATE TABLE IF NOT EXISTS "+table+" ("), table)
	}
}

func TestPendingMigrations(t *testing.T) {
	files := []string{"001_roster.sql", "002_indexes.sql", "003_more.sql"}

	assert.Equal(t, files, pendingMigrations(files, map[string]bool{}))
	assert.Equal(t, []string{"002_indexes.sql", "003_more.sql"}, pendingMigrations(files, map[string]bool{"001_roster.sql": true}))
	assert.Empty(t, pendingMigrations(files, map[string]bool{"001_roster.sql": true, "002_indexes.sql": true, "003_more.sql": true}))
}
