package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Category is a placement package tier. It is both the predictor output and the catalog filter key.
type Category string

const (
	Premium   Category = "Premium"
	Standard  Category = "Standard"
	Basic     Category = "Basic"
	NotPlaced Category = "Not Placed"
)

var ErrUnknownCategory = errors.New("unknown package category")

// Categories lists the tiers in classifier index order.
var Categories = []Category{Basic, NotPlaced, Premium, Standard}

// ParseCategory accepts the canonical names case-insensitively. "not-placed" and
// "not_placed" are accepted as spellings of NotPlaced.
func ParseCategory(raw string) (Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("-", " ", "_", " ").Replace(normalized)

	for _, category := range Categories {
		if strings.ToLower(string(category)) == normalized {
			return category, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
}

// Valid reports whether the category belongs to the closed set of tiers.
func (c Category) Valid() bool {
	for _, category := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
