package services

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"cinematix/models"
	"cinematix/util"
)

// VisibleShowtimes applies every display filter to the current result set
// and returns the visible subset sorted by start time, plus whether any
// visible showtime falls on a date other than today.
func VisibleShowtimes(state State, previews time.Duration) ([]models.Showtime, bool) {
	q := state.Query
	window := util.NewTimeWindow(state.Today, q.StartTime, q.EndTime, previews)

	var visible []models.Showtime
	for _, s := range state.Showtimes {
		if s.Offer.AvailabilityStatus() == models.AvailabilityDiscontinued {
			continue
		}

		if !util.DisplayFilterExclusive(q.Movies, q.Movie, movieEntity(&s)) {
			continue
		}
		if !util.DisplayFilterExclusive(q.Theaters, models.ModeInclude, theaterEntity(&s)) {
			continue
		}
		if !util.DisplayFilterExclusive(q.TheatersX, models.ModeExclude, theaterEntity(&s)) {
			continue
		}
		if !util.DisplayFilterExclusive(q.Ratings, q.Rating, propWithPrefix(&s, "xr:")) {
			continue
		}
		if !util.DisplayFilterExclusive(q.Formats, q.Format, propWithPrefix(&s, "xf:")) {
			continue
		}

		if !util.DisplayFilter(q.Genres, q.GenresX, propsWithPrefix(&s, "xg:")) {
			continue
		}
		if !util.DisplayFilter(q.Amenities, q.AmenitiesX, propsWithPrefix(&s, "xa:")) {
			continue
		}
		if !util.DisplayFilter(q.Props, q.PropsX, s.Props) {
			continue
		}

		if !window.Include(&s) {
			continue
		}

		if !priceInRange(&s, &state) {
			continue
		}

		visible = append(visible, s)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		a, errA := visible[i].Start()
		b, errB := visible[j].Start()
		if errA != nil || errB != nil {
			return errB != nil && errA == nil
		}
		return a.Before(b)
	})

	return visible, util.HasFutureShowtimes(visible, state.Today)
}

func movieEntity(s *models.Showtime) *models.Entity {
	if s.WorkPresented == nil {
		return nil
	}
	return &s.WorkPresented.Entity
}

func theaterEntity(s *models.Showtime) *models.Entity {
	if s.Location == nil {
		return nil
	}
	return &s.Location.Entity
}

func propWithPrefix(s *models.Showtime, prefix string) *models.Entity {
	for i := range s.Props {
		if strings.HasPrefix(s.Props[i].ID, prefix) {
			return &s.Props[i]
		}
	}
	return nil
}

func propsWithPrefix(s *models.Showtime, prefix string) []models.Entity {
	var out []models.Entity
	for _, p := range s.Props {
		if strings.HasPrefix(p.ID, prefix) {
			out = append(out, p)
		}
	}
	return out
}

// priceInRange rejects showtimes whose known price falls outside the
// configured bounds. Showtimes with no resolved price yet always pass so
// that pricing can still settle.
func priceInRange(s *models.Showtime, state *State) bool {
	if !state.Query.PriceEnabled() {
		return true
	}
	if state.Query.MinPrice == "" && state.Query.MaxPrice == "" {
		return true
	}

	price := inlinePrice(s)
	if price == nil {
		if action := state.FindPrice(s.OfferID()); action != nil && action.Status == models.PriceCompleted {
			price = action.Price
		}
	}
	if price == nil {
		return true
	}

	if state.Query.MinPrice != "" {
		if min, err := strconv.ParseFloat(state.Query.MinPrice, 64); err == nil && *price < min {
			return false
		}
	}
	if state.Query.MaxPrice != "" {
		if max, err := strconv.ParseFloat(state.Query.MaxPrice, 64); err == nil && *price > max {
			return false
		}
	}
	return true
}

func inlinePrice(s *models.Showtime) *float64 {
	if s.Offer == nil {
		return nil
	}
	return s.Offer.Price
}
