package models

import "time"

// Game represents a board game in the catalog.
// GameID is supplied by imports; the catalog generates one when it is empty.
// Entries carries the foreign key from user_library.game_id; a game with
// library entries cannot be deleted.
type Game struct {
	GameID       string `gorm:"primaryKey;size:64"`
	GameName     string `gorm:"size:255;not null;index"`
	Description  string `gorm:"type:text"`
	LeadDesigner string `gorm:"size:255"`
	Publisher    string `gorm:"size:255"`
	BoxArtURL    string `gorm:"size:512"`
	ReleaseDate  time.Time
	MinPlayers   int `gorm:"not null;index;check:chk_games_min_players,min_players >= 1"`
	MaxPlayers   int `gorm:"not null;index;check:chk_games_player_bounds,max_players >= min_players"`
	PlayTime     int
	Age          int
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Entries []LibraryEntry `gorm:"foreignKey:GameID;references:GameID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}
