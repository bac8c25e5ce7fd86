package services

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"cinematix/models"
	"cinematix/util"
)

// SearchState is the entity-search status for one filter field.
type SearchState struct {
	Fetching bool
	Result   []models.SearchOption
}

// State is the full application state owned by the Store. Readers get copies
// and never mutate.
type State struct {
	Query     models.Query
	Today     string
	Status    models.Status
	ErrorURL  string
	Showtimes []models.Showtime
	Theaters  []models.Entity
	Movies    []models.Entity
	Genres    []models.Entity
	Ratings   []models.Entity
	Formats   []models.Entity
	Amenities []models.Entity
	Props     []models.Entity
	Prices    []models.PriceAction
	Search    map[string]SearchState
}

// Taxonomy returns the combined genre/rating/format/amenity/property
// collection used to resolve a showtime's flattened props.
func (s *State) Taxonomy() []models.Entity {
	taxonomy := make([]models.Entity, 0,
		len(s.Genres)+len(s.Ratings)+len(s.Formats)+len(s.Amenities)+len(s.Props))
	taxonomy = append(taxonomy, s.Genres...)
	taxonomy = append(taxonomy, s.Ratings...)
	taxonomy = append(taxonomy, s.Formats...)
	taxonomy = append(taxonomy, s.Amenities...)
	taxonomy = append(taxonomy, s.Props...)
	return taxonomy
}

// FindPrice returns the price action for an offer id, or nil.
func (s *State) FindPrice(offerID string) *models.PriceAction {
	for i := range s.Prices {
		if s.Prices[i].OfferID == offerID {
			return &s.Prices[i]
		}
	}
	return nil
}

// Store is the single writer of application state. All mutation goes through
// Dispatch; an unrecognized action is a contract violation and panics.
type Store struct {
	mu    sync.RWMutex
	state State
	watch chan struct{}
	log   *zap.Logger
}

// NewStore initializes a store with the given filter state.
func NewStore(query models.Query, log *zap.Logger) *Store {
	return &Store{
		state: State{
			Query:  query,
			Status: models.StatusWaiting,
			Search: make(map[string]SearchState),
		},
		watch: make(chan struct{}),
		log:   log,
	}
}

// State returns a copy of the current state. Slices are copied so callers
// can hold the snapshot across later dispatches.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.state)
}

// Wait returns a channel closed by the next dispatch. Take the channel
// before reading state to avoid missing a wake-up.
func (s *Store) Wait() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.watch
}

// Dispatch applies one action.
func (s *Store) Dispatch(action models.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch a := action.(type) {
	case models.ChangeAction:
		s.applyChange(a)
	case models.ResultAction:
		s.applyResult(a)
	case models.StatusAction:
		s.state.Status = a.Status
	case models.ErrorAction:
		s.state.Status = models.StatusError
		s.state.ErrorURL = a.URL
		s.log.Warn("showtimes request failed", zap.String("url", a.URL), zap.Error(a.Err))
	case models.TodayAction:
		s.state.Today = a.Value
	case models.PricesAction:
		s.applyPrices(a)
	case models.UpdateRequestedAction:
		s.state.Query.NeedsUpdate = false
	case models.SearchFetchAction:
		entry := s.state.Search[a.Field]
		entry.Fetching = true
		s.state.Search[a.Field] = entry
	case models.SearchResultAction:
		s.state.Search[a.Field] = SearchState{Result: a.Result}
	default:
		panic(fmt.Sprintf("unknown action %T", action))
	}

	close(s.watch)
	s.watch = make(chan struct{})
}

func (s *Store) applyChange(a models.ChangeAction) {
	q := &s.state.Query

	switch a.Name {
	case "zipCode":
		q.ZipCode = a.Value
	case "limit":
		q.Limit = a.Value
	case "ticketing":
		q.Ticketing = a.Value
	case "startDate":
		q.StartDate = a.Value
		// Keep the range valid: endDate never precedes startDate and never
		// trails it by more than seven days.
		q.EndDate = util.CarryEndDate(a.Value, q.EndDate)
	case "endDate":
		q.EndDate = a.Value
	case "startTime":
		q.StartTime = a.Value
	case "endTime":
		q.EndTime = a.Value
	case "theaters":
		q.Theaters = a.Values
	case "theatersx":
		q.TheatersX = a.Values
	case "movie":
		q.Movie = a.Value
	case "movies":
		q.Movies = a.Values
	case "genres":
		q.Genres = a.Values
	case "genresx":
		q.GenresX = a.Values
	case "amenities":
		q.Amenities = a.Values
	case "amenitiesx":
		q.AmenitiesX = a.Values
	case "rating":
		q.Rating = a.Value
	case "ratings":
		q.Ratings = a.Values
	case "format":
		q.Format = a.Value
	case "formats":
		q.Formats = a.Values
	case "props":
		q.Props = a.Values
	case "propsx":
		q.PropsX = a.Values
	case "price":
		q.Price = a.Value
	case "minPrice":
		q.MinPrice = a.Value
	case "maxPrice":
		q.MaxPrice = a.Value
	default:
		panic(fmt.Sprintf("unknown filter field %q", a.Name))
	}
}

// applyResult replaces showtimes wholesale and union-merges every entity
// collection, so previously selected filter values stay resolvable even
// after the visible result set changes.
func (s *Store) applyResult(a models.ResultAction) {
	st := &s.state

	st.Theaters = models.MergeEntities(st.Theaters, a.Theaters)
	st.Movies = models.MergeEntities(st.Movies, a.Movies)
	st.Genres = models.MergeEntities(st.Genres, a.Genres)
	st.Ratings = models.MergeEntities(st.Ratings, a.Ratings)
	st.Formats = models.MergeEntities(st.Formats, a.Formats)
	st.Amenities = models.MergeEntities(st.Amenities, a.Amenities)
	st.Props = models.MergeEntities(st.Props, a.Props)

	taxonomy := st.Taxonomy()
	showtimes := make([]models.Showtime, len(a.Showtimes))
	offerIDs := make(map[string]struct{}, len(a.Showtimes))
	for i, showtime := range a.Showtimes {
		showtime.Props = showtime.FlattenProps(taxonomy)
		showtimes[i] = showtime
		if id := showtime.OfferID(); id != "" {
			offerIDs[id] = struct{}{}
		}
	}
	st.Showtimes = showtimes

	// Garbage collect price actions whose offer vanished from the result.
	kept := st.Prices[:0]
	for _, p := range st.Prices {
		if _, ok := offerIDs[p.OfferID]; ok {
			kept = append(kept, p)
		}
	}
	st.Prices = kept

	st.Status = models.StatusReady
	st.ErrorURL = ""
}

func (s *Store) applyPrices(a models.PricesAction) {
	for _, incoming := range a.Actions {
		replaced := false
		for i := range s.state.Prices {
			if s.state.Prices[i].OfferID == incoming.OfferID {
				s.state.Prices[i] = incoming
				replaced = true
				break
			}
		}
		if !replaced {
			s.state.Prices = append(s.state.Prices, incoming)
		}
	}
}

func copyState(src State) State {
	dst := src
	dst.Showtimes = append([]models.Showtime(nil), src.Showtimes...)
	dst.Theaters = append([]models.Entity(nil), src.Theaters...)
	dst.Movies = append([]models.Entity(nil), src.Movies...)
	dst.Genres = append([]models.Entity(nil), src.Genres...)
	dst.Ratings = append([]models.Entity(nil), src.Ratings...)
	dst.Formats = append([]models.Entity(nil), src.Formats...)
	dst.Amenities = append([]models.Entity(nil), src.Amenities...)
	dst.Props = append([]models.Entity(nil), src.Props...)
	dst.Prices = append([]models.PriceAction(nil), src.Prices...)
	dst.Search = make(map[string]SearchState, len(src.Search))
	for k, v := range src.Search {
		dst.Search[k] = v
	}
	return dst
}
