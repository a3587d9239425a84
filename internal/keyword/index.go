// Package keyword provides BM25 keyword indexing and search over guides.
package keyword

import (
	"context"

	"github.com/fieldnotes/guidepost/internal/models"
)

// SearchOptions are optional keyword search parameters. Nil means defaults.
type SearchOptions struct {
	// TitleBoost multiplies the score contribution from title matches.
	// Values > 1 make title matches rank higher. Use 1.0 for no boost.
	TitleBoost float64
	// FuzzyEnabled enables fuzzy matching for typo tolerance.
	FuzzyEnabled bool
	// Fuzziness is the maximum edit distance for fuzzy matching (1 or 2).
	// Default is 2 when FuzzyEnabled is true.
	Fuzziness int
}

// Index defines keyword search operations.
type Index interface {
	Index(ctx context.Context, id string, doc *models.Document) error
	Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*Result, error)
	Delete(ctx context.Context, id string) error
	DocCount() (uint64, error)
	Close() error
}

// Result is a single keyword search hit.
type Result struct {
	ID    string
	Score float64
}
