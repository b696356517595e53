package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"001_create_schema.up.sql",
		"001_create_schema.down.sql",
		"002_add_indexes.up.sql",
		"002_add_indexes.down.sql",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}

	t.Run("up in lexical order", func(t *testing.T) {
		files, err := migrationFiles(dir, "up")
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "001_create_schema.up.sql"),
			filepath.Join(dir, "002_add_indexes.up.sql"),
		}, files)
	})

	t.Run("down in reverse order", func(t *testing.T) {
		files, err := migrationFiles(dir, "down")
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "002_add_indexes.down.sql"),
			filepath.Join(dir, "001_create_schema.down.sql"),
		}, files)
	})

	t.Run("no matching files", func(t *testing.T) {
		empty := t.TempDir()
		_, err := migrationFiles(empty, "up")
		assert.Error(t, err)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := migrationFiles(filepath.Join(dir, "nope"), "up")
		assert.Error(t, err)
	})
}
