package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"boardshelf/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChangeKind names a write applied to a library entry.
type ChangeKind string

const (
	EntryCreated ChangeKind = "entry.created"
	EntryUpdated ChangeKind = "entry.updated"
	EntryDeleted ChangeKind = "entry.deleted"
)

// EntryChange describes a committed library write.
type EntryChange struct {
	Kind  ChangeKind
	Entry models.LibraryEntry
}

// UserLibrary owns the per-user library entries. It resolves games through a
// GameCatalog when entries are created or refreshed.
type UserLibrary struct {
	db       *gorm.DB
	games    *GameCatalog
	onChange func(EntryChange)
}

// LibraryOption configures a UserLibrary.
type LibraryOption func(*UserLibrary)

// WithChangeHook registers fn to be called after each committed write.
func WithChangeHook(fn func(EntryChange)) LibraryOption {
	return func(l *UserLibrary) { l.onChange = fn }
}

// NewUserLibrary creates a library backed by db.
func NewUserLibrary(db *gorm.DB, games *GameCatalog, opts ...LibraryOption) *UserLibrary {
	l := &UserLibrary{db: db, games: games}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CreateEntry adds gameID to userID's library with the given status.
//
// The existence pre-check only yields a friendly error for the common case.
// Two concurrent calls for the same pair can both pass it; the unique index on
// (user_id, game_id) then rejects the second insert, which is reported as
// ErrDuplicateEntry as well.
func (l *UserLibrary) CreateEntry(ctx context.Context, userID, gameID string, status models.LibraryStatus) (*models.LibraryEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidAttribute)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidAttribute, status)
	}

	game, err := l.games.ReadGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
		}
		return nil, err
	}

	exists, err := l.EntryExists(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateEntry
	}

	entry := models.LibraryEntry{
		UserID:    userID,
		GameID:    game.GameID,
		GameName:  game.GameName,
		BoxArtURL: game.BoxArtURL,
		Status:    status,
	}
	if err := l.db.WithContext(ctx).Omit(clause.Associations).Create(&entry).Error; err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, ErrDuplicateEntry
		case isForeignKeyViolation(err):
			return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
		}
		return nil, wrap("create library entry", err)
	}

	l.notify(EntryCreated, entry)
	return &entry, nil
}

// ReadEntry returns the entry with the given ownership ID.
func (l *UserLibrary) ReadEntry(ctx context.Context, ownershipID uint) (*models.LibraryEntry, error) {
	var entry models.LibraryEntry
	if err := l.db.WithContext(ctx).First(&entry, "ownership_id = ?", ownershipID).Error; err != nil {
		return nil, wrap("read library entry", err)
	}
	return &entry, nil
}

// ReadAllEntries returns every library entry. No entries yields an empty slice, not an error.
func (l *UserLibrary) ReadAllEntries(ctx context.Context, opts ListOptions) ([]models.LibraryEntry, error) {
	return l.list(ctx, "read library", opts, nil)
}

// ReadEntriesForUser returns userID's entries. A user with no entries yields an empty slice.
func (l *UserLibrary) ReadEntriesForUser(ctx context.Context, userID string, opts ListOptions) ([]models.LibraryEntry, error) {
	return l.list(ctx, "read user library", opts, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("user_id = ?", userID)
	})
}

// FilterEntries returns userID's entries whose game name or status contains text,
// ignoring case. A * in text acts as a wildcard.
func (l *UserLibrary) FilterEntries(ctx context.Context, userID, text string, opts ListOptions) ([]models.LibraryEntry, error) {
	pattern := likePattern(text)
	return l.list(ctx, "filter user library", opts, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("user_id = ?", userID).
			Where("(LOWER(game_name) LIKE ? ESCAPE '"+likeEscape+"' OR LOWER(status) LIKE ? ESCAPE '"+likeEscape+"')", pattern, pattern)
	})
}

func (l *UserLibrary) list(ctx context.Context, op string, opts ListOptions, scope func(*gorm.DB) *gorm.DB) ([]models.LibraryEntry, error) {
	order, err := opts.entryOrder()
	if err != nil {
		return nil, err
	}

	query := l.db.WithContext(ctx)
	if scope != nil {
		query = query.Scopes(scope)
	}

	entries := []models.LibraryEntry{}
	if err := query.Order(order).Find(&entries).Error; err != nil {
		return nil, wrap(op, err)
	}
	return entries, nil
}

// FilterByPlayerCount returns the games in userID's library playable with at
// least min and at most max players.
func (l *UserLibrary) FilterByPlayerCount(ctx context.Context, userID string, min, max int) ([]models.Game, error) {
	r := PlayerRange{Min: min, Max: max}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	games := []models.Game{}
	err := l.db.WithContext(ctx).
		Model(&models.Game{}).
		Joins("JOIN user_library ON user_library.game_id = games.game_id").
		Where("user_library.user_id = ?", userID).
		Where("games.min_players >= ? AND games.max_players <= ?", r.Min, r.Max).
		Order("games.game_name ASC").
		Find(&games).Error
	if err != nil {
		return nil, wrap("filter user library by player count", err)
	}
	return games, nil
}

// EntryExists reports whether userID already has an entry for gameID.
func (l *UserLibrary) EntryExists(ctx context.Context, userID, gameID string) (bool, error) {
	var n int64
	err := l.db.WithContext(ctx).
		Model(&models.LibraryEntry{}).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Count(&n).Error
	if err != nil {
		return false, wrap("check library entry", err)
	}
	return n > 0, nil
}

// UpdateEntry sets a single attribute of an entry. column must be one of EntryColumns.
func (l *UserLibrary) UpdateEntry(ctx context.Context, ownershipID uint, column string, value any) (*models.LibraryEntry, error) {
	col, err := lookupColumn(entryColumns, column)
	if err != nil {
		return nil, err
	}
	v, err := col.coerce(value)
	if err != nil {
		return nil, err
	}

	var entry models.LibraryEntry
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.LibraryEntry{}).Where("ownership_id = ?", ownershipID).Update(col.name, v)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.First(&entry, "ownership_id = ?", ownershipID).Error
	})
	if err != nil {
		return nil, wrap("update library entry", err)
	}

	l.notify(EntryUpdated, entry)
	return &entry, nil
}

// RefreshSnapshot copies the current game name and box art from the catalog
// into the entry.
func (l *UserLibrary) RefreshSnapshot(ctx context.Context, ownershipID uint) (*models.LibraryEntry, error) {
	var entry models.LibraryEntry
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entry, "ownership_id = ?", ownershipID).Error; err != nil {
			return err
		}
		var game models.Game
		if err := tx.First(&game, "game_id = ?", entry.GameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrGameNotFound, entry.GameID)
			}
			return err
		}
		entry.GameName = game.GameName
		entry.BoxArtURL = game.BoxArtURL
		return tx.Model(&models.LibraryEntry{}).
			Where("ownership_id = ?", ownershipID).
			Updates(map[string]any{"game_name": game.GameName, "box_art_url": game.BoxArtURL}).Error
	})
	if err != nil {
		return nil, wrap("refresh library entry", err)
	}

	l.notify(EntryUpdated, entry)
	return &entry, nil
}

// DeleteEntry removes the entry with the given ownership ID. Deleting an
// unknown ID is a no-op.
func (l *UserLibrary) DeleteEntry(ctx context.Context, ownershipID uint) error {
	return l.deleteWhere(ctx, "ownership_id = ?", ownershipID)
}

// DeleteEntryByUserAndGame removes userID's entry for gameID, if any.
func (l *UserLibrary) DeleteEntryByUserAndGame(ctx context.Context, userID, gameID string) error {
	return l.deleteWhere(ctx, "user_id = ? AND game_id = ?", userID, gameID)
}

func (l *UserLibrary) deleteWhere(ctx context.Context, cond string, args ...any) error {
	var entry models.LibraryEntry
	var deleted bool
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(cond, args...).First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		result := tx.Delete(&models.LibraryEntry{}, "ownership_id = ?", entry.OwnershipID)
		deleted = result.RowsAffected > 0
		return result.Error
	})
	if err != nil {
		return wrap("delete library entry", err)
	}

	if deleted {
		l.notify(EntryDeleted, entry)
	}
	return nil
}

func (l *UserLibrary) notify(kind ChangeKind, entry models.LibraryEntry) {
	if l.onChange != nil {
		l.onChange(EntryChange{Kind: kind, Entry: entry})
	}
}
