package search

import (
	"github.com/fieldnotes/guidepost/internal/models"
	"github.com/fieldnotes/guidepost/pkg/utils"
)

// ProcessQuery normalizes, validates, and applies defaults to a search query.
func ProcessQuery(query *models.SearchQuery) error {
	query.Query = utils.CollapseWhitespace(query.Query)
	return query.Validate()
}
