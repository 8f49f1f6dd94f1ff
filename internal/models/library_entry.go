package models

import "time"

// LibraryStatus defines how a user relates to a game in their library.
type LibraryStatus string

const (
	// StatusWishlist means the user wants the game but does not own it yet.
	StatusWishlist LibraryStatus = "wishlist"

	// StatusOwned means the game is on the user's shelf.
	StatusOwned LibraryStatus = "owned"
)

// Valid reports whether s is one of the known statuses.
func (s LibraryStatus) Valid() bool {
	return s == StatusWishlist || s == StatusOwned
}

// LibraryEntry represents a user's ownership or wishlist record for a game.
// GameName and BoxArtURL are a snapshot of the game taken when the entry was
// created; later catalog edits do not reach them unless the entry is refreshed.
// The unique index on (UserID, GameID) allows one entry per user and game.
type LibraryEntry struct {
	OwnershipID uint          `gorm:"primaryKey;autoIncrement"`
	UserID      string        `gorm:"size:64;not null;uniqueIndex:idx_library_user_game"`
	GameID      string        `gorm:"size:64;not null;uniqueIndex:idx_library_user_game;index"`
	GameName    string        `gorm:"size:255;not null"`
	BoxArtURL   string        `gorm:"size:512"`
	Status      LibraryStatus `gorm:"type:varchar(20);not null;default:'wishlist'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName keeps the record set name used by the web front end.
func (LibraryEntry) TableName() string {
	return "user_library"
}
