package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"cinematix/models"
	services "cinematix/service"
	"cinematix/util"
)

const searchTimeout = 20 * time.Second

// ShowtimesResponse is the wire form of one resolved search.
type ShowtimesResponse struct {
	Today              string               `json:"today"`
	Query              models.Query         `json:"query"`
	Showtimes          []models.Showtime    `json:"showtimes"`
	HasFutureShowtimes bool                 `json:"hasFutureShowtimes"`
	Theaters           []models.Entity      `json:"theaters,omitempty"`
	Movies             []models.Entity      `json:"movies,omitempty"`
	Genres             []models.Entity      `json:"genres,omitempty"`
	Ratings            []models.Entity      `json:"ratings,omitempty"`
	Formats            []models.Entity      `json:"formats,omitempty"`
	Amenities          []models.Entity      `json:"amenities,omitempty"`
	Props              []models.Entity      `json:"props,omitempty"`
	Prices             []models.PriceAction `json:"prices,omitempty"`
}

type ShowtimeHandler struct {
	engine   *services.Engine
	validate *validator.Validate
	log      *zap.Logger
}

func NewShowtimeHandler(engine *services.Engine, log *zap.Logger) *ShowtimeHandler {
	return &ShowtimeHandler{
		engine:   engine,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// GetShowtimes resolves a full search in one request.
func (h *ShowtimeHandler) GetShowtimes(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseQuery(r.URL.Query())
	if err != nil {
		http.Error(w, "invalid query: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := contextWithTimeout(r, searchTimeout)
	defer cancel()

	state, visible, err := h.engine.SearchOnce(ctx, query)
	if err != nil {
		h.log.Error("showtimes search failed", zap.Error(err))
		http.Error(w, "upstream showtimes fetch failed", http.StatusBadGateway)
		return
	}

	_, hasFuture := services.VisibleShowtimes(state, h.engine.Previews)
	resp := ShowtimesResponse{
		Today:              state.Today,
		Query:              state.Query,
		Showtimes:          visible,
		HasFutureShowtimes: hasFuture,
		Theaters:           state.Theaters,
		Movies:             state.Movies,
		Genres:             state.Genres,
		Ratings:            state.Ratings,
		Formats:            state.Formats,
		Amenities:          state.Amenities,
		Props:              state.Props,
		Prices:             state.Prices,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Warn("failed to encode showtimes response", zap.Error(err))
	}
}

// GetShowtimesChart resolves a search and renders the per-hour histogram.
func (h *ShowtimeHandler) GetShowtimesChart(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseQuery(r.URL.Query())
	if err != nil {
		http.Error(w, "invalid query: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := contextWithTimeout(r, searchTimeout)
	defer cancel()

	_, visible, err := h.engine.SearchOnce(ctx, query)
	if err != nil {
		h.log.Error("showtimes search failed", zap.Error(err))
		http.Error(w, "upstream showtimes fetch failed", http.StatusBadGateway)
		return
	}

	plot := util.PlotShowtimesByHour
	if r.URL.Query().Get("group") == "day" {
		plot = util.PlotDailyCounts
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := plot(w, visible); err != nil {
		h.log.Warn("failed to render showtimes chart", zap.Error(err))
	}
}

// Ping is the liveness endpoint.
func (h *ShowtimeHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

// parseQuery maps URL parameters onto the filter state, starting from the
// defaults so omitted parameters keep their usual values.
func (h *ShowtimeHandler) parseQuery(vals url.Values) (models.Query, error) {
	q := models.DefaultQuery()

	setString := func(dst *string, key string) {
		if v := vals.Get(key); v != "" {
			*dst = v
		}
	}

	setString(&q.ZipCode, "zipCode")
	setString(&q.Limit, "limit")
	setString(&q.Ticketing, "ticketing")
	setString(&q.StartDate, "startDate")
	setString(&q.EndDate, "endDate")
	setString(&q.StartTime, "startTime")
	setString(&q.EndTime, "endTime")
	setString(&q.Movie, "movie")
	setString(&q.Rating, "rating")
	setString(&q.Format, "format")
	setString(&q.Price, "price")
	setString(&q.MinPrice, "minPrice")
	setString(&q.MaxPrice, "maxPrice")

	q.Theaters = vals["theaters"]
	q.TheatersX = vals["theatersx"]
	q.Movies = vals["movies"]
	q.Genres = vals["genres"]
	q.GenresX = vals["genresx"]
	q.Amenities = vals["amenities"]
	q.AmenitiesX = vals["amenitiesx"]
	q.Ratings = vals["ratings"]
	q.Formats = vals["formats"]
	q.Props = vals["props"]
	q.PropsX = vals["propsx"]

	if err := h.validate.Struct(q); err != nil {
		return models.Query{}, err
	}
	return q, nil
}
