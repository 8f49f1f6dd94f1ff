package store

import (
	"fmt"
	"sort"
	"strings"

	"boardshelf/backend/internal/models"

	"github.com/spf13/cast"
)

type columnKind int

const (
	kindString columnKind = iota
	kindInt
	kindDate
	kindStatus
)

// column describes one updatable attribute and the database column behind it.
type column struct {
	name     string
	kind     columnKind
	required bool
	min      int
}

// gameColumns is the set of Game attributes that UpdateGame may target.
// The game identifier is immutable and deliberately absent.
var gameColumns = map[string]column{
	"gameName":     {name: "game_name", kind: kindString, required: true},
	"description":  {name: "description", kind: kindString},
	"leadDesigner": {name: "lead_designer", kind: kindString},
	"publisher":    {name: "publisher", kind: kindString},
	"boxArtUrl":    {name: "box_art_url", kind: kindString},
	"releaseDate":  {name: "release_date", kind: kindDate},
	"minPlayers":   {name: "min_players", kind: kindInt, min: 1},
	"maxPlayers":   {name: "max_players", kind: kindInt, min: 1},
	"playTime":     {name: "play_time", kind: kindInt},
	"age":          {name: "age", kind: kindInt},
}

// entryColumns is the set of LibraryEntry attributes that UpdateEntry may target.
// Snapshot fields change only through RefreshSnapshot.
var entryColumns = map[string]column{
	"status": {name: "status", kind: kindStatus, required: true},
}

// GameColumns lists the attribute names accepted by UpdateGame.
func GameColumns() []string {
	return columnNames(gameColumns)
}

// EntryColumns lists the attribute names accepted by UpdateEntry.
func EntryColumns() []string {
	return columnNames(entryColumns)
}

func columnNames(set map[string]column) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lookupColumn resolves an attribute name, or its database column name, against an allow-list.
func lookupColumn(set map[string]column, name string) (column, error) {
	if c, ok := set[name]; ok {
		return c, nil
	}
	for _, c := range set {
		if c.name == name {
			return c, nil
		}
	}
	return column{}, fmt.Errorf("%w: %q", ErrInvalidColumn, name)
}

// coerce converts an untyped update value to the column's Go type and checks its bounds.
func (c column) coerce(value any) (any, error) {
	switch c.kind {
	case kindInt:
		n, err := cast.ToIntE(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidAttribute, c.name)
		}
		if n < c.min {
			return nil, fmt.Errorf("%w: %s must be at least %d", ErrInvalidAttribute, c.name, c.min)
		}
		return n, nil
	case kindDate:
		t, err := cast.ToTimeE(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a date", ErrInvalidAttribute, c.name)
		}
		return t, nil
	case kindStatus:
		s, err := cast.ToStringE(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidAttribute, c.name)
		}
		status := models.LibraryStatus(strings.ToLower(strings.TrimSpace(s)))
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidAttribute, s)
		}
		return status, nil
	default:
		s, err := cast.ToStringE(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidAttribute, c.name)
		}
		if c.required && strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidAttribute, c.name)
		}
		return s, nil
	}
}
