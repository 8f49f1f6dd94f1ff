package store

import (
	"context"
	"fmt"
	"log"
	"strings"

	"boardshelf/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GameCache is an optional read-through cache in front of ReadGame.
// Get returns (nil, nil) on a miss.
type GameCache interface {
	Get(ctx context.Context, gameID string) (*models.Game, error)
	Set(ctx context.Context, game *models.Game) error
	Invalidate(ctx context.Context, gameID string) error
}

// GameCatalog owns the canonical game records.
type GameCatalog struct {
	db    *gorm.DB
	cache GameCache
}

// CatalogOption configures a GameCatalog.
type CatalogOption func(*GameCatalog)

// WithGameCache puts cache in front of game lookups.
func WithGameCache(cache GameCache) CatalogOption {
	return func(c *GameCatalog) { c.cache = cache }
}

// NewGameCatalog creates a catalog backed by db.
func NewGameCatalog(db *gorm.DB, opts ...CatalogOption) *GameCatalog {
	c := &GameCatalog{db: db}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ValidateGame checks the attributes required before a game can be stored.
func ValidateGame(g *models.Game) error {
	if g == nil {
		return fmt.Errorf("%w: game is nil", ErrInvalidAttribute)
	}
	if strings.TrimSpace(g.GameName) == "" {
		return fmt.Errorf("%w: game name is required", ErrInvalidAttribute)
	}
	if g.MinPlayers < 1 {
		return fmt.Errorf("%w: min players must be at least 1", ErrInvalidAttribute)
	}
	if g.MaxPlayers < g.MinPlayers {
		return fmt.Errorf("%w: max players (%d) is below min players (%d)", ErrInvalidAttribute, g.MaxPlayers, g.MinPlayers)
	}
	if g.PlayTime < 0 || g.Age < 0 {
		return fmt.Errorf("%w: play time and age cannot be negative", ErrInvalidAttribute)
	}
	return nil
}

// CreateGame inserts g. Importing a game whose ID already exists is not an
// error: the stored row is left as it was and created is false.
func (c *GameCatalog) CreateGame(ctx context.Context, g *models.Game) (created bool, err error) {
	if err := ValidateGame(g); err != nil {
		return false, err
	}
	if g.GameID == "" {
		g.GameID = uuid.NewString()
	}

	result := c.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(g)
	if result.Error != nil {
		if isCheckViolation(result.Error) {
			return false, fmt.Errorf("%w: %v", ErrInvalidAttribute, result.Error)
		}
		return false, wrap("create game", result.Error)
	}
	if result.RowsAffected == 0 {
		log.Printf("game %s already in catalog, import skipped", g.GameID)
		return false, nil
	}
	return true, nil
}

// ReadGame returns the game with the given ID.
func (c *GameCatalog) ReadGame(ctx context.Context, gameID string) (*models.Game, error) {
	if c.cache != nil {
		cached, err := c.cache.Get(ctx, gameID)
		if err != nil {
			log.Printf("game cache get %s: %v", gameID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	var g models.Game
	if err := c.db.WithContext(ctx).First(&g, "game_id = ?", gameID).Error; err != nil {
		return nil, wrap("read game", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, &g); err != nil {
			log.Printf("game cache set %s: %v", gameID, err)
		}
	}
	return &g, nil
}

// UpdateGame sets a single attribute of a game. column must be one of GameColumns.
func (c *GameCatalog) UpdateGame(ctx context.Context, gameID, column string, value any) (*models.Game, error) {
	col, err := lookupColumn(gameColumns, column)
	if err != nil {
		return nil, err
	}
	v, err := col.coerce(value)
	if err != nil {
		return nil, err
	}

	var g models.Game
	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Locked so concurrent updates of the opposite bound are checked in turn.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&g, "game_id = ?", gameID).Error; err != nil {
			return err
		}
		switch col.name {
		case "min_players":
			if n := v.(int); n > g.MaxPlayers {
				return fmt.Errorf("%w: min players (%d) exceeds max players (%d)", ErrInvalidAttribute, n, g.MaxPlayers)
			}
		case "max_players":
			if n := v.(int); n < g.MinPlayers {
				return fmt.Errorf("%w: max players (%d) is below min players (%d)", ErrInvalidAttribute, n, g.MinPlayers)
			}
		}
		if err := tx.Model(&models.Game{}).Where("game_id = ?", gameID).Update(col.name, v).Error; err != nil {
			return err
		}
		return tx.First(&g, "game_id = ?", gameID).Error
	})
	if err != nil {
		if isCheckViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAttribute, err)
		}
		return nil, wrap("update game", err)
	}

	c.invalidate(ctx, gameID)
	return &g, nil
}

// DeleteGame removes a game from the catalog. Deleting an unknown ID is a no-op.
// A game still referenced by library entries is not deleted; ErrGameReferenced
// is returned instead. The foreign key on user_library.game_id backs this check
// against entries created concurrently.
func (c *GameCatalog) DeleteGame(ctx context.Context, gameID string) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.LibraryEntry{}).Where("game_id = ?", gameID).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("%w: %d entries", ErrGameReferenced, refs)
		}
		return tx.Delete(&models.Game{}, "game_id = ?", gameID).Error
	})
	if err != nil {
		return deleteGameError(err)
	}

	c.invalidate(ctx, gameID)
	return nil
}

// deleteGameError maps a failed game delete. A foreign key violation means an
// entry was added between the reference count and the delete.
func deleteGameError(err error) error {
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: %v", ErrGameReferenced, err)
	}
	return wrap("delete game", err)
}

// FilterByPlayerCount returns the games playable with at least min and at most max players.
func (c *GameCatalog) FilterByPlayerCount(ctx context.Context, min, max int) ([]models.Game, error) {
	r := PlayerRange{Min: min, Max: max}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	games := []models.Game{}
	err := c.db.WithContext(ctx).
		Where("min_players >= ? AND max_players <= ?", r.Min, r.Max).
		Order("game_name ASC").
		Find(&games).Error
	if err != nil {
		return nil, wrap("filter games by player count", err)
	}
	return games, nil
}

// GameQuery selects a page of the catalog.
type GameQuery struct {
	Search string
	Page   int
	Limit  int
}

// ListGames returns one page of games whose name matches q.Search, and the
// total number of matches.
func (c *GameCatalog) ListGames(ctx context.Context, q GameQuery) ([]models.Game, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}

	search := func(tx *gorm.DB) *gorm.DB {
		if strings.TrimSpace(q.Search) == "" {
			return tx
		}
		return tx.Where("LOWER(game_name) LIKE ? ESCAPE '"+likeEscape+"'", likePattern(q.Search))
	}

	var total int64
	if err := c.db.WithContext(ctx).Model(&models.Game{}).Scopes(search).Count(&total).Error; err != nil {
		return nil, 0, wrap("count games", err)
	}

	games := []models.Game{}
	err := c.db.WithContext(ctx).Scopes(search).
		Order("game_name ASC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&games).Error
	if err != nil {
		return nil, 0, wrap("list games", err)
	}
	return games, total, nil
}

func (c *GameCatalog) invalidate(ctx context.Context, gameID string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Invalidate(ctx, gameID); err != nil {
		log.Printf("game cache invalidate %s: %v", gameID, err)
	}
}
