package services

import (
	"testing"
	"time"

	"cinematix/models"
	"cinematix/util"
)

func filterShowtime(id, movieID, theaterID, start string, props ...models.Entity) models.Showtime {
	return models.Showtime{
		ID:            id,
		StartDate:     start,
		WorkPresented: &models.Movie{Entity: models.Entity{ID: movieID}},
		Location:      &models.Theater{Entity: models.Entity{ID: theaterID}},
		Offer:         &models.Offer{ID: id, Availability: "InStock"},
		Props:         props,
	}
}

func filterState(showtimes ...models.Showtime) State {
	return State{
		Query:     models.DefaultQuery(),
		Today:     "2026-09-01",
		Showtimes: showtimes,
	}
}

func TestVisibleShowtimes_SortsByStart(t *testing.T) {
	state := filterState(
		filterShowtime("xs:2", "xm:a", "xt:1", "2026-09-01T21:00:00-05:00"),
		filterShowtime("xs:1", "xm:a", "xt:1", "2026-09-01T13:30:00-05:00"),
		filterShowtime("xs:3", "xm:a", "xt:1", "2026-09-01T19:00:00-05:00"),
	)

	visible, _ := VisibleShowtimes(state, util.DefaultPreviews)
	if len(visible) != 3 {
		t.Fatalf("Expected 3 visible, got %d", len(visible))
	}
	for i, want := range []string{"xs:1", "xs:3", "xs:2"} {
		if visible[i].ID != want {
			t.Errorf("visible[%d] = %s, want %s", i, visible[i].ID, want)
		}
	}
}

func TestVisibleShowtimes_DropsDiscontinued(t *testing.T) {
	dead := filterShowtime("xs:1", "xm:a", "xt:1", "2026-09-01T13:30:00-05:00")
	dead.Offer.Availability = "https://schema.org/Discontinued"
	live := filterShowtime("xs:2", "xm:a", "xt:1", "2026-09-01T19:00:00-05:00")

	visible, _ := VisibleShowtimes(filterState(dead, live), util.DefaultPreviews)
	if len(visible) != 1 || visible[0].ID != "xs:2" {
		t.Errorf("Expected only xs:2, got %v", visible)
	}
}

func TestVisibleShowtimes_MovieFilterModes(t *testing.T) {
	state := filterState(
		filterShowtime("xs:1", "xm:outlaw-river", "xt:1", "2026-09-01T13:30:00-05:00"),
		filterShowtime("xs:2", "xm:starlight-run", "xt:1", "2026-09-01T19:00:00-05:00"),
	)

	state.Query.Movies = []string{"outlaw-river"}
	state.Query.Movie = models.ModeInclude
	visible, _ := VisibleShowtimes(state, util.DefaultPreviews)
	if len(visible) != 1 || visible[0].ID != "xs:1" {
		t.Errorf("include: expected only xs:1, got %v", visible)
	}

	state.Query.Movie = models.ModeExclude
	visible, _ = VisibleShowtimes(state, util.DefaultPreviews)
	if len(visible) != 1 || visible[0].ID != "xs:2" {
		t.Errorf("exclude: expected only xs:2, got %v", visible)
	}
}

func TestVisibleShowtimes_TheaterIncludeAndExclude(t *testing.T) {
	state := filterState(
		filterShowtime("xs:1", "xm:a", "xt:1156", "2026-09-01T13:30:00-05:00"),
		filterShowtime("xs:2", "xm:a", "xt:2209", "2026-09-01T19:00:00-05:00"),
	)

	state.Query.Theaters = []string{"1156"}
	visible, _ := VisibleShowtimes(state, util.DefaultPreviews)
	if len(visible) != 1 || visible[0].ID != "xs:1" {
		t.Errorf("theaters: expected only xs:1, got %v", visible)
	}

	state.Query.Theaters = nil
	state.Query.TheatersX = []string{"1156"}
	visible, _ = VisibleShowtimes(state, util.DefaultPreviews)
	if len(visible) != 1 || visible[0].ID != "xs:2" {
		t.Errorf("theatersx: expected only xs:2, got %v", visible)
	}
}

func TestVisibleShowtimes_RatingUsesFirstRatingProp(t *testing.T) {
	state := filterState(
		filterShowtime("xs:1", "xm:a", "xt:1", "2026-09-01T13:30:00-05:00",
			models.Entity{ID: "xr:r"}),
		filterShowtime("xs:2", "xm:b", "xt:1", "2026-09-01T19:00:00-05:00",
			models.Entity{ID: "xr:pg-13"}),
	)

	state.Query.Ratings = []string{"pg-13"}
	state.Query.Rating = models.ModeInclude
	visible, _ := VisibleShowtimes(state, util.DefaultPreviews)
	if len(visible) != 1 || visible[0].ID != "xs:2" {
		t.Errorf("Expected only the PG-13 showtime, got %v", visible)
	}
}

func TestVisibleShowtimes_GenreSubsetFilter(t *testing.T) {
	state := filterState(
		filterShowtime("xs:1", "xm:a", "xt:1", "2026-09-01T13:30:00-05:00",
			models.Entity{ID: "xg:western"}, models.Entity{ID: "xg:drama"}),
		filterShowtime("xs:2", "xm:b", "xt:1", "2026-09-01T19:00:00-05:00",
			models.Entity{ID: "xg:scifi"}),
	)

	state.Query.Genres = []string{"xg:drama"}
	visible, _ := VisibleShowtimes(state, util.DefaultPreviews)
	if len(visible) != 1 || visible[0].ID != "xs:1" {
		t.Errorf("genres include: expected only xs:1, got %v", visible)
	}

	state.Query.Genres = nil
	state.Query.GenresX = []string{"xg:drama"}
	visible, _ = VisibleShowtimes(state, util.DefaultPreviews)
	if len(visible) != 1 || visible[0].ID != "xs:2" {
		t.Errorf("genres exclude: expected only xs:2, got %v", visible)
	}
}

func TestVisibleShowtimes_PriceRange(t *testing.T) {
	cheap := filterShowtime("xs:1", "xm:a", "xt:1", "2026-09-01T13:30:00-05:00")
	cheapPrice := 8.0
	cheap.Offer.Price = &cheapPrice

	dear := filterShowtime("xs:2", "xm:a", "xt:1", "2026-09-01T19:00:00-05:00")
	dearPrice := 18.0
	dear.Offer.Price = &dearPrice

	unknown := filterShowtime("xs:3", "xm:a", "xt:1", "2026-09-01T21:00:00-05:00")

	state := filterState(cheap, dear, unknown)
	state.Query.Price = "true"
	state.Query.MaxPrice = "10"

	visible, _ := VisibleShowtimes(state, util.DefaultPreviews)
	if len(visible) != 2 {
		t.Fatalf("Expected cheap and unknown to pass, got %v", visible)
	}
	if visible[0].ID != "xs:1" || visible[1].ID != "xs:3" {
		t.Errorf("Expected [xs:1 xs:3], got [%s %s]", visible[0].ID, visible[1].ID)
	}

	// A resolved price action participates like an inline price.
	resolved := 9.0
	state.Prices = []models.PriceAction{
		{Status: models.PriceCompleted, OfferID: "xs:3", Price: &resolved},
	}
	state.Query.MinPrice = "9.5"
	state.Query.MaxPrice = ""
	visible, _ = VisibleShowtimes(state, util.DefaultPreviews)
	if len(visible) != 1 || visible[0].ID != "xs:2" {
		t.Errorf("Expected only xs:2 above the min, got %v", visible)
	}
}

func TestVisibleShowtimes_PriceRangeIgnoredWhenDisabled(t *testing.T) {
	dear := filterShowtime("xs:1", "xm:a", "xt:1", "2026-09-01T13:30:00-05:00")
	price := 18.0
	dear.Offer.Price = &price

	state := filterState(dear)
	state.Query.MaxPrice = "10"

	visible, _ := VisibleShowtimes(state, util.DefaultPreviews)
	if len(visible) != 1 {
		t.Error("Expected price bounds to be inert while the toggle is off")
	}
}

func TestVisibleShowtimes_FutureFlag(t *testing.T) {
	today := time.Date(2026, 9, 1, 19, 0, 0, 0, time.Local).Format(time.RFC3339)
	tomorrow := time.Date(2026, 9, 2, 11, 0, 0, 0, time.Local).Format(time.RFC3339)

	state := filterState(
		filterShowtime("xs:1", "xm:a", "xt:1", today),
		filterShowtime("xs:2", "xm:a", "xt:1", tomorrow),
	)

	_, hasFuture := VisibleShowtimes(state, util.DefaultPreviews)
	if !hasFuture {
		t.Error("Expected future flag for a next-day showtime")
	}

	state.Showtimes = state.Showtimes[:1]
	_, hasFuture = VisibleShowtimes(state, util.DefaultPreviews)
	if hasFuture {
		t.Error("Expected no future flag for same-day showtimes")
	}
}
