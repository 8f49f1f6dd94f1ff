package store

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"boardshelf/backend/internal/database"
	"boardshelf/backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:", logger.Discard)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// countQueries counts SELECT statements issued through db.
func countQueries(t *testing.T, db *gorm.DB) *int64 {
	t.Helper()
	var n int64
	err := db.Callback().Query().Before("gorm:query").Register("test:count_queries", func(*gorm.DB) {
		atomic.AddInt64(&n, 1)
	})
	require.NoError(t, err)
	return &n
}

func catan() *models.Game {
	return &models.Game{
		GameID:       "G1",
		GameName:     "Catan",
		Description:  "Trade, build, settle.",
		LeadDesigner: "Klaus Teuber",
		Publisher:    "KOSMOS",
		BoxArtURL:    "https://img.example/catan.jpg",
		ReleaseDate:  time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC),
		MinPlayers:   3,
		MaxPlayers:   4,
		PlayTime:     90,
		Age:          10,
	}
}

func mustCreateGame(t *testing.T, c *GameCatalog, g *models.Game) {
	t.Helper()
	created, err := c.CreateGame(context.Background(), g)
	require.NoError(t, err)
	require.True(t, created, "game %s was not inserted", g.GameID)
}
