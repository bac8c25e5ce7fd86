package handlers

import (
	"context"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"cinematix/api/wikidata"
)

const lookupTimeout = 10 * time.Second

// SearchHandler serves theater/movie name autocomplete.
type SearchHandler struct {
	api wikidata.API
	log *zap.Logger
}

func NewSearchHandler(api wikidata.API, log *zap.Logger) *SearchHandler {
	return &SearchHandler{api: api, log: log}
}

// GetOptions resolves ?field={theaters|movies}&q={partial name} into ranked
// id/label options.
func (h *SearchHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	var property string
	switch field := r.URL.Query().Get("field"); field {
	case "theaters":
		property = wikidata.PropertyTheater
	case "movies":
		property = wikidata.PropertyMovie
	default:
		http.Error(w, "invalid argument field", http.StatusBadRequest)
		return
	}

	ctx, cancel := contextWithTimeout(r, lookupTimeout)
	defer cancel()

	options, err := h.api.Search(ctx, property, r.URL.Query().Get("q"))
	if err != nil {
		h.log.Warn("entity search failed", zap.Error(err))
		http.Error(w, "upstream entity search failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(options); err != nil {
		h.log.Warn("failed to encode search response", zap.Error(err))
	}
}

func contextWithTimeout(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}
