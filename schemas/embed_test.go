package schemas

import (
	"io/fs"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations(t *testing.T) {
	entries, err := fs.ReadDir(Migrations, MigrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	var all strings.Builder
	for _, e := range entries {
		body, err := fs.ReadFile(Migrations, path.Join(MigrationsDir, e.Name()))
		require.NoError(t, err)
		all.Write(body)
	}

	for _, table := range []string{
		"modules",
		"items",
		"module_grants",
		"sessions",
		"session_items",
		"scheduler_states",
		"progress_counters",
		"answer_events",
	} {
		assert.Contains(t, all.String(), "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
	// every table creation can be re-run after a partial failure
	assert.Equal(t,
		strings.Count(all.String(), "CREATE TABLE "),
		strings.Count(all.String(), "CREATE TABLE IF NOT EXISTS "))
}
