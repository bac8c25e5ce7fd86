package wikidata

import (
	"context"

	"cinematix/models"
)

// API defines the entity search collaborator: given a Wikidata property id
// and free text, resolve id/label pairs for autocomplete.
type API interface {
	Search(ctx context.Context, property, query string) ([]models.SearchOption, error)
}

// Property ids used by the filter fields.
const (
	PropertyTheater = "P6644"
	PropertyMovie   = "P5693"
)
