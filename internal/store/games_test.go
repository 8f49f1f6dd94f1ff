package store

import (
	"context"
	"sync"
	"testing"

	"boardshelf/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateGameIgnoresReimport(t *testing.T) {
	ctx := context.Background()
	catalog := NewGameCatalog(newTestDB(t))

	mustCreateGame(t, catalog, catan())

	again := catan()
	again.GameName = "Settlers of Catan"
	again.MaxPlayers = 6
	created, err := catalog.CreateGame(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := catalog.ReadGame(ctx, "G1")
	require.NoError(t, err)
	assert.Equal(t, "Catan", got.GameName)
	assert.Equal(t, 4, got.MaxPlayers)
}

func TestCreateGameAssignsID(t *testing.T) {
	catalog := NewGameCatalog(newTestDB(t))

	g := &models.Game{GameName: "Azul", MinPlayers: 2, MaxPlayers: 4}
	mustCreateGame(t, catalog, g)
	assert.NotEmpty(t, g.GameID)

	got, err := catalog.ReadGame(context.Background(), g.GameID)
	require.NoError(t, err)
	assert.Equal(t, "Azul", got.GameName)
}

func TestCreateGameValidation(t *testing.T) {
	db := newTestDB(t)
	catalog := NewGameCatalog(db)
	queries := countQueries(t, db)

	tests := []struct {
		name string
		game *models.Game
	}{
		{"nil", nil},
		{"missing name", &models.Game{GameID: "x", MinPlayers: 1, MaxPlayers: 2}},
		{"zero min players", &models.Game{GameID: "x", GameName: "X", MinPlayers: 0, MaxPlayers: 2}},
		{"max below min", &models.Game{GameID: "x", GameName: "X", MinPlayers: 4, MaxPlayers: 2}},
		{"negative play time", &models.Game{GameID: "x", GameName: "X", MinPlayers: 1, MaxPlayers: 2, PlayTime: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.CreateGame(context.Background(), tt.game)
			assert.ErrorIs(t, err, ErrInvalidAttribute)
		})
	}
	assert.Zero(t, *queries)

	var n int64
	require.NoError(t, db.Model(&models.Game{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestReadGameNotFound(t *testing.T) {
	catalog := NewGameCatalog(newTestDB(t))

	_, err := catalog.ReadGame(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateGame(t *testing.T) {
	ctx := context.Background()
	catalog := NewGameCatalog(newTestDB(t))
	mustCreateGame(t, catalog, catan())

	got, err := catalog.UpdateGame(ctx, "G1", "maxPlayers", float64(6))
	require.NoError(t, err)
	assert.Equal(t, 6, got.MaxPlayers)

	got, err = catalog.UpdateGame(ctx, "G1", "publisher", "Catan Studio")
	require.NoError(t, err)
	assert.Equal(t, "Catan Studio", got.Publisher)

	got, err = catalog.UpdateGame(ctx, "G1", "release_date", "2015-06-01")
	require.NoError(t, err)
	assert.Equal(t, 2015, got.ReleaseDate.Year())

	got, err = catalog.ReadGame(ctx, "G1")
	require.NoError(t, err)
	assert.Equal(t, 6, got.MaxPlayers)
	assert.Equal(t, "Catan Studio", got.Publisher)
}

func TestUpdateGameRejectsUnknownColumn(t *testing.T) {
	db := newTestDB(t)
	catalog := NewGameCatalog(db)
	mustCreateGame(t, catalog, catan())
	queries := countQueries(t, db)

	for _, column := range []string{"gameId", "game_id", "created_at", "gameName = 'x'; DROP TABLE games; --"} {
		_, err := catalog.UpdateGame(context.Background(), "G1", column, "x")
		assert.ErrorIs(t, err, ErrInvalidColumn, column)
	}
	assert.Zero(t, *queries)
}

func TestUpdateGameKeepsPlayerBounds(t *testing.T) {
	ctx := context.Background()
	catalog := NewGameCatalog(newTestDB(t))
	mustCreateGame(t, catalog, catan())

	_, err := catalog.UpdateGame(ctx, "G1", "minPlayers", 5)
	assert.ErrorIs(t, err, ErrInvalidAttribute)

	_, err = catalog.UpdateGame(ctx, "G1", "maxPlayers", 2)
	assert.ErrorIs(t, err, ErrInvalidAttribute)

	_, err = catalog.UpdateGame(ctx, "G1", "minPlayers", "three")
	assert.ErrorIs(t, err, ErrInvalidAttribute)

	_, err = catalog.UpdateGame(ctx, "G1", "gameName", "  ")
	assert.ErrorIs(t, err, ErrInvalidAttribute)

	got, err := catalog.ReadGame(ctx, "G1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.MinPlayers)
	assert.Equal(t, 4, got.MaxPlayers)
	assert.Equal(t, "Catan", got.GameName)
}

func TestUpdateGameNotFound(t *testing.T) {
	catalog := NewGameCatalog(newTestDB(t))

	_, err := catalog.UpdateGame(context.Background(), "missing", "publisher", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteGame(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	catalog := NewGameCatalog(db)
	library := NewUserLibrary(db, catalog)
	mustCreateGame(t, catalog, catan())
	mustCreateGame(t, catalog, &models.Game{GameID: "G2", GameName: "Azul", MinPlayers: 2, MaxPlayers: 4})

	_, err := library.CreateEntry(ctx, "U1", "G1", models.StatusOwned)
	require.NoError(t, err)

	err = catalog.DeleteGame(ctx, "G1")
	assert.ErrorIs(t, err, ErrGameReferenced)
	_, err = catalog.ReadGame(ctx, "G1")
	assert.NoError(t, err)

	require.NoError(t, catalog.DeleteGame(ctx, "G2"))
	_, err = catalog.ReadGame(ctx, "G2")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, catalog.DeleteGame(ctx, "G2"), "deleting twice is a no-op")
}

func TestForeignKeyBlocksReferencedGameDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	catalog := NewGameCatalog(db)
	library := NewUserLibrary(db, catalog)
	mustCreateGame(t, catalog, catan())
	_, err := library.CreateEntry(ctx, "U1", "G1", models.StatusOwned)
	require.NoError(t, err)

	// Skips the reference count, as a delete racing a new entry would.
	err = db.WithContext(ctx).Exec("DELETE FROM games WHERE game_id = ?", "G1").Error
	require.Error(t, err)
	assert.True(t, isForeignKeyViolation(err), "unexpected error: %v", err)
	assert.ErrorIs(t, deleteGameError(err), ErrGameReferenced)

	_, err = catalog.ReadGame(ctx, "G1")
	assert.NoError(t, err)
}

func TestPlayerBoundsCheckConstraint(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	catalog := NewGameCatalog(db)
	mustCreateGame(t, catalog, catan())

	err := db.WithContext(ctx).Exec("UPDATE games SET min_players = 5 WHERE game_id = ?", "G1").Error
	require.Error(t, err)
	assert.True(t, isCheckViolation(err), "unexpected error: %v", err)

	err = db.WithContext(ctx).Exec("UPDATE games SET min_players = 0 WHERE game_id = ?", "G1").Error
	require.Error(t, err)
	assert.True(t, isCheckViolation(err), "unexpected error: %v", err)

	got, err := catalog.ReadGame(ctx, "G1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.MinPlayers)
	assert.Equal(t, 4, got.MaxPlayers)
}

func TestUpdateGameLocksRow(t *testing.T) {
	db := newTestDB(t)
	catalog := NewGameCatalog(db)
	mustCreateGame(t, catalog, catan())

	var locked bool
	err := db.Callback().Query().Before("gorm:query").Register("test:lock", func(tx *gorm.DB) {
		if tx.Statement.Table == "games" {
			if _, ok := tx.Statement.Clauses["FOR"]; ok {
				locked = true
			}
		}
	})
	require.NoError(t, err)

	_, err = catalog.UpdateGame(context.Background(), "G1", "minPlayers", 4)
	require.NoError(t, err)
	assert.True(t, locked, "bounds must be checked against a locked row")
}

func TestFilterByPlayerCount(t *testing.T) {
	ctx := context.Background()
	catalog := NewGameCatalog(newTestDB(t))
	mustCreateGame(t, catalog, &models.Game{GameID: "A", GameName: "A", MinPlayers: 2, MaxPlayers: 4})
	mustCreateGame(t, catalog, &models.Game{GameID: "B", GameName: "B", MinPlayers: 3, MaxPlayers: 6})

	games, err := catalog.FilterByPlayerCount(ctx, 2, 5)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "A", games[0].GameID)

	games, err = catalog.FilterByPlayerCount(ctx, 7, 9)
	require.NoError(t, err)
	assert.NotNil(t, games)
	assert.Empty(t, games)
}

func TestFilterByPlayerCountInvalidRange(t *testing.T) {
	db := newTestDB(t)
	catalog := NewGameCatalog(db)
	queries := countQueries(t, db)

	_, err := catalog.FilterByPlayerCount(context.Background(), 5, 2)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Zero(t, *queries)
}

func TestListGames(t *testing.T) {
	ctx := context.Background()
	catalog := NewGameCatalog(newTestDB(t))
	for _, name := range []string{"Catan", "Carcassonne", "Azul", "Cascadia", "100%_Orange"} {
		mustCreateGame(t, catalog, &models.Game{GameName: name, MinPlayers: 1, MaxPlayers: 4})
	}

	games, total, err := catalog.ListGames(ctx, GameQuery{Search: "ca", Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, games, 2)
	assert.Equal(t, "Carcassonne", games[0].GameName)
	assert.Equal(t, "Cascadia", games[1].GameName)

	games, _, err = catalog.ListGames(ctx, GameQuery{Search: "ca", Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Catan", games[0].GameName)

	games, total, err = catalog.ListGames(ctx, GameQuery{Search: "%_"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, games, 1)
	assert.Equal(t, "100%_Orange", games[0].GameName)

	_, total, err = catalog.ListGames(ctx, GameQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
}

type memoryCache struct {
	mu    sync.Mutex
	games map[string]models.Game
	hits  int
}

func (m *memoryCache) Get(_ context.Context, id string) (*models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, nil
	}
	m.hits++
	return &g, nil
}

func (m *memoryCache) Set(_ context.Context, g *models.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.GameID] = *g
	return nil
}

func (m *memoryCache) Invalidate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}

func TestReadGameUsesCache(t *testing.T) {
	ctx := context.Background()
	cache := &memoryCache{games: map[string]models.Game{}}
	catalog := NewGameCatalog(newTestDB(t), WithGameCache(cache))
	mustCreateGame(t, catalog, catan())

	_, err := catalog.ReadGame(ctx, "G1")
	require.NoError(t, err)
	assert.Zero(t, cache.hits)

	_, err = catalog.ReadGame(ctx, "G1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)

	_, err = catalog.UpdateGame(ctx, "G1", "gameName", "Catan: 5th Edition")
	require.NoError(t, err)

	got, err := catalog.ReadGame(ctx, "G1")
	require.NoError(t, err)
	assert.Equal(t, "Catan: 5th Edition", got.GameName)
	assert.Equal(t, 1, cache.hits, "update must invalidate the cached copy")
}
