package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Availability is the normalized offer availability.
type Availability string

const (
	AvailabilityInStock      Availability = "InStock"
	AvailabilitySoldOut      Availability = "SoldOut"
	AvailabilityDiscontinued Availability = "Discontinued"
	AvailabilityUnknown      Availability = ""
)

// ParseAvailability normalizes a schema.org availability value, which the API
// returns either bare ("InStock") or expanded ("https://schema.org/InStock").
func ParseAvailability(value string) Availability {
	switch strings.TrimPrefix(value, "https://schema.org/") {
	case "InStock":
		return AvailabilityInStock
	case "SoldOut":
		return AvailabilitySoldOut
	case "Discontinued":
		return AvailabilityDiscontinued
	default:
		return AvailabilityUnknown
	}
}

// Movie is a ScreeningEvent's workPresented.
type Movie struct {
	Entity
	Duration      string     `json:"duration,omitempty"`
	Genre         StringList `json:"genre,omitempty"`
	ContentRating StringList `json:"contentRating,omitempty"`
}

// Theater is a ScreeningEvent's location.
type Theater struct {
	Entity
	AmenityFeature []Entity `json:"amenityFeature,omitempty"`
}

// OfferedItem carries the properties attached to the ticket itself.
type OfferedItem struct {
	AdditionalProperty []Entity `json:"additionalProperty,omitempty"`
}

// Offer is a showtime's ticket offer. Price is a pointer: the API only
// inlines a price for a minority of showtimes, the rest are resolved through
// the price endpoint.
type Offer struct {
	ID            string       `json:"@id,omitempty"`
	URL           string       `json:"url,omitempty"`
	Availability  string       `json:"availability,omitempty"`
	Price         *float64     `json:"price,omitempty"`
	PriceCurrency string       `json:"priceCurrency,omitempty"`
	ItemOffered   *OfferedItem `json:"itemOffered,omitempty"`
}

// AvailabilityStatus returns the normalized availability.
func (o *Offer) AvailabilityStatus() Availability {
	if o == nil {
		return AvailabilityUnknown
	}
	return ParseAvailability(o.Availability)
}

// Showtime is a ScreeningEvent. It references its movie and theater, it does
// not own them. Props is derived after framing: the union of theater
// amenities, offer properties, and the movie's genre, format and rating
// resolved against the taxonomy collection.
type Showtime struct {
	ID            string     `json:"@id"`
	Type          TypeList   `json:"@type,omitempty"`
	StartDate     string     `json:"startDate"`
	WorkPresented *Movie     `json:"workPresented,omitempty"`
	Location      *Theater   `json:"location,omitempty"`
	Offer         *Offer     `json:"offers,omitempty"`
	VideoFormat   StringList `json:"videoFormat,omitempty"`
	Props         []Entity   `json:"props,omitempty"`
}

// Start parses the showtime's wall-clock start.
func (s *Showtime) Start() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid showtime start %q: %w", s.StartDate, err)
	}
	return t, nil
}

// Duration returns the movie runtime, zero when unknown.
func (s *Showtime) Duration() time.Duration {
	if s.WorkPresented == nil || s.WorkPresented.Duration == "" {
		return 0
	}
	d, err := ParseISODuration(s.WorkPresented.Duration)
	if err != nil {
		return 0
	}
	return d
}

// OfferID returns the offer id, or "" when the showtime has no offer.
func (s *Showtime) OfferID() string {
	if s.Offer == nil {
		return ""
	}
	return s.Offer.ID
}

// FlattenProps computes the showtime's uniform filterable property set.
// Genre, format and rating arrive as expanded URLs and are resolved through
// the merged taxonomy collection; unresolved values are dropped.
func (s *Showtime) FlattenProps(taxonomy []Entity) []Entity {
	var props []Entity

	if s.Location != nil {
		props = append(props, s.Location.AmenityFeature...)
	}
	if s.Offer != nil && s.Offer.ItemOffered != nil {
		props = append(props, s.Offer.ItemOffered.AdditionalProperty...)
	}
	if s.WorkPresented != nil {
		props = append(props, resolveText(s.WorkPresented.Genre, taxonomy)...)
		props = append(props, resolveText(s.WorkPresented.ContentRating, taxonomy)...)
	}
	props = append(props, resolveText(s.VideoFormat, taxonomy)...)

	return props
}

func resolveText(values StringList, taxonomy []Entity) []Entity {
	var out []Entity
	for _, v := range values {
		if e := FindEntity(taxonomy, CompactID(v)); e != nil {
			out = append(out, *e)
		}
	}
	return out
}

var isoDurationPattern = regexp.MustCompile(`^P(?:([\d.]+)D)?(?:T(?:([\d.]+)H)?(?:([\d.]+)M)?(?:([\d.]+)S)?)?$`)

// ParseISODuration parses an ISO-8601 duration such as "PT2H30M". Date
// components beyond days never occur in movie runtimes and are rejected.
func ParseISODuration(value string) (time.Duration, error) {
	m := isoDurationPattern.FindStringSubmatch(value)
	if m == nil {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q", value)
	}

	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second}
	var total time.Duration
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		f, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid ISO-8601 duration %q: %w", value, err)
		}
		total += time.Duration(f * float64(unit))
	}
	return total, nil
}
