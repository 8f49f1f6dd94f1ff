package store

import (
	"fmt"
	"strings"
)

// PlayerRange bounds a player-count filter. A game matches when it plays with
// at least Min and at most Max players.
type PlayerRange struct {
	Min int
	Max int
}

// Validate reports ErrInvalidRange when the bounds are inverted.
func (r PlayerRange) Validate() error {
	if r.Min > r.Max {
		return fmt.Errorf("%w: min=%d max=%d", ErrInvalidRange, r.Min, r.Max)
	}
	return nil
}

// ListOptions controls ordering of collection reads.
type ListOptions struct {
	// Sort is one of "", "name", "status" or "recent".
	Sort string
}

var entrySortColumns = map[string]string{
	"":       "ownership_id ASC",
	"name":   "game_name ASC",
	"status": "status ASC, game_name ASC",
	"recent": "created_at DESC",
}

func (o ListOptions) entryOrder() (string, error) {
	order, ok := entrySortColumns[o.Sort]
	if !ok {
		return "", fmt.Errorf("%w: cannot sort by %q", ErrInvalidColumn, o.Sort)
	}
	return order, nil
}

const likeEscape = `\`

// likePattern turns free text into a case-folded LIKE pattern.
// Literal % and _ are escaped; * acts as a wildcard. Text without a
// wildcard matches as a substring.
func likePattern(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	escaped := r.Replace(text)
	if !strings.Contains(escaped, "*") {
		return "%" + escaped + "%"
	}
	return strings.ReplaceAll(escaped, "*", "%")
}
