package models

import (
	"strconv"

	"gorm.io/gorm"
)

// User represents an account that owns a library.
type User struct {
	gorm.Model
	Nickname     string `gorm:"size:255;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:50;not null;default:'user';index"`
}

// LibraryKey returns the identifier under which the user's library entries are stored.
func (u User) LibraryKey() string {
	return LibraryKey(u.ID)
}

// LibraryKey converts a numeric account ID into a library user ID.
func LibraryKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
