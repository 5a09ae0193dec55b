// Package testutil provides shared test helpers for config files and content fixtures.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recall/internal/content"
)

// WriteConfig writes body as config.yml under dir and returns its path.
func WriteConfig(t *testing.T, dir string, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	cfgPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0644))
	return cfgPath
}

// NewItem builds a stored item with its content hash stamped.
func NewItem(t *testing.T, moduleID, id int64, key string, position int, payload content.Payload) content.Item {
	t.Helper()
	item, err := content.NewItem(moduleID, key, position, payload)
	require.NoError(t, err)
	item.ID = id
	return item
}
