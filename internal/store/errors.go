package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup by identifier matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEntry is returned when a user already has an entry for a game.
	ErrDuplicateEntry = errors.New("library entry already exists")

	// ErrGameNotFound is returned when an entry references a game missing from the catalog.
	ErrGameNotFound = errors.New("game not found")

	// ErrGameReferenced is returned when deleting a game that library entries still point to.
	ErrGameReferenced = errors.New("game is referenced by library entries")

	// ErrInvalidRange is returned when a player-count filter has min > max.
	ErrInvalidRange = errors.New("minimum players is greater than maximum players")

	// ErrInvalidColumn is returned when an update targets a field outside the allow-list.
	ErrInvalidColumn = errors.New("column cannot be updated")

	// ErrInvalidAttribute is returned when a record carries a missing or out-of-range value.
	ErrInvalidAttribute = errors.New("invalid attribute")
)

// PersistenceError wraps a failure reported by the storage engine.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

var domainErrors = []error{
	ErrNotFound,
	ErrDuplicateEntry,
	ErrGameNotFound,
	ErrGameReferenced,
	ErrInvalidRange,
	ErrInvalidColumn,
	ErrInvalidAttribute,
}

// wrap maps a gorm result error onto the store's error taxonomy.
// Errors that already belong to the taxonomy pass through untouched.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isCheckViolation(err error) bool {
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23514"
	}
	return strings.Contains(err.Error(), "CHECK constraint failed")
}
