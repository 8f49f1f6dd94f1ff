package database

import (
	"path/filepath"
	"testing"

	"boardshelf/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "shelf.db"), logger.Discard)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, model := range []any{&models.User{}, &models.Game{}, &models.LibraryEntry{}} {
		assert.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}
	assert.True(t, db.Migrator().HasIndex(&models.LibraryEntry{}, "idx_library_user_game"))
}

func TestLibraryForeignKeyReferencesGames(t *testing.T) {
	db, err := Open("sqlite", ":memory:", logger.Discard)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	type foreignKey struct {
		Table    string
		From     string
		To       string
		OnDelete string
	}

	var keys []foreignKey
	require.NoError(t, db.Raw("PRAGMA foreign_key_list(user_library)").Scan(&keys).Error)
	require.Len(t, keys, 1)
	assert.Equal(t, "games", keys[0].Table)
	assert.Equal(t, "game_id", keys[0].From)
	assert.Equal(t, "game_id", keys[0].To)
	assert.Equal(t, "RESTRICT", keys[0].OnDelete)

	keys = nil
	require.NoError(t, db.Raw("PRAGMA foreign_key_list(games)").Scan(&keys).Error)
	assert.Empty(t, keys)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "whatever", logger.Discard)
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:", sqliteDSN(""))
	assert.Equal(t, "shelf.db?_pragma=busy_timeout(5000)", sqliteDSN("shelf.db"))
	assert.Equal(t, "shelf.db?mode=rwc&_pragma=busy_timeout(5000)", sqliteDSN("shelf.db?mode=rwc"))
}
