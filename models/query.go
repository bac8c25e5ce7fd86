package models

import "sort"

// Ticketing filter values.
const (
	TicketingAny     = "any"
	TicketingOnline  = "online"
	TicketingOffline = "offline"
)

// Filter modes for the exclusive filters.
const (
	ModeInclude = "include"
	ModeExclude = "exclude"
)

// Quick date tokens. Anything else in StartDate/EndDate is a literal
// yyyy-MM-dd date.
const (
	DateToday    = "today"
	DateTomorrow = "tomorrow"
)

// Query is the flat filter state driving the whole pipeline.
type Query struct {
	ZipCode    string   `json:"zipCode" validate:"omitempty,numeric,max=5"`
	Limit      string   `json:"limit" validate:"omitempty,numeric"`
	Ticketing  string   `json:"ticketing" validate:"omitempty,oneof=any online offline"`
	StartDate  string   `json:"startDate" validate:"omitempty,oneof=today tomorrow|datetime=2006-01-02"`
	EndDate    string   `json:"endDate" validate:"omitempty,oneof=today tomorrow|datetime=2006-01-02"`
	StartTime  string   `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime    string   `json:"endTime" validate:"omitempty,datetime=15:04"`
	Theaters   []string `json:"theaters"`
	TheatersX  []string `json:"theatersx"`
	Movie      string   `json:"movie" validate:"omitempty,oneof=include exclude"`
	Movies     []string `json:"movies"`
	Genres     []string `json:"genres"`
	GenresX    []string `json:"genresx"`
	Amenities  []string `json:"amenities"`
	AmenitiesX []string `json:"amenitiesx"`
	Rating     string   `json:"rating" validate:"omitempty,oneof=include exclude"`
	Ratings    []string `json:"ratings"`
	Format     string   `json:"format" validate:"omitempty,oneof=include exclude"`
	Formats    []string `json:"formats"`
	Props      []string `json:"props"`
	PropsX     []string `json:"propsx"`
	Price      string   `json:"price"`
	MinPrice   string   `json:"minPrice" validate:"omitempty,numeric"`
	MaxPrice   string   `json:"maxPrice" validate:"omitempty,numeric"`

	// NeedsUpdate is set when a deferred application update is pending; the
	// query reactor hands control to the updater before fetching.
	NeedsUpdate bool `json:"-"`
}

// DefaultQuery returns the initial filter state.
func DefaultQuery() Query {
	return Query{
		Limit:     "5",
		Ticketing: TicketingAny,
		StartDate: DateToday,
		EndDate:   DateToday,
		Movie:     ModeInclude,
		Rating:    ModeInclude,
		Format:    ModeInclude,
	}
}

// PriceEnabled reports whether the price toggle is on.
func (q Query) PriceEnabled() bool {
	return q.Price == "true" || q.Price == "1"
}

// RequestKey identifies the fields that require a new showtimes request when
// they change. Theaters is order-insensitive.
type RequestKey struct {
	ZipCode   string
	Limit     string
	Ticketing string
	StartDate string
	EndDate   string
	Theaters  []string
}

// NewRequestKey builds the request key for a query with resolved dates.
func NewRequestKey(q Query, startDate, endDate string) RequestKey {
	theaters := make([]string, len(q.Theaters))
	copy(theaters, q.Theaters)
	sort.Strings(theaters)

	return RequestKey{
		ZipCode:   q.ZipCode,
		Limit:     q.Limit,
		Ticketing: q.Ticketing,
		StartDate: startDate,
		EndDate:   endDate,
		Theaters:  theaters,
	}
}

// Equal reports set-equality on theaters and value-equality elsewhere.
func (k RequestKey) Equal(other RequestKey) bool {
	if k.ZipCode != other.ZipCode ||
		k.Limit != other.Limit ||
		k.Ticketing != other.Ticketing ||
		k.StartDate != other.StartDate ||
		k.EndDate != other.EndDate ||
		len(k.Theaters) != len(other.Theaters) {
		return false
	}
	for i := range k.Theaters {
		if k.Theaters[i] != other.Theaters[i] {
			return false
		}
	}
	return true
}
