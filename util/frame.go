package util

import (
	"fmt"

	json "github.com/goccy/go-json"

	"cinematix/models"
)

// Frame types used by the showtimes endpoint.
const (
	TypeScreeningEvent = "ScreeningEvent"
	TypeMovieTheater   = "MovieTheater"
	TypeMovie          = "Movie"
	TypeAmenity        = "x:Amenity"
	TypeGenre          = "x:Genre"
	TypeRating         = "x:Rating"
	TypeFormat         = "x:Format"
	TypeProperty       = "x:Property"
)

// ParseGraph decodes a raw JSON-LD response body.
func ParseGraph(data []byte) (*models.Graph, error) {
	var g models.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse JSON-LD graph: %w", err)
	}
	return &g, nil
}

// FrameNodes extracts the raw nodes of the given type from a graph.
func FrameNodes(g *models.Graph, typ string) ([]json.RawMessage, error) {
	var nodes []json.RawMessage
	for _, raw := range g.Nodes {
		var probe struct {
			Type models.TypeList `json:"@type"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil, fmt.Errorf("failed to probe graph node type: %w", err)
		}
		if probe.Type.Has(typ) {
			nodes = append(nodes, raw)
		}
	}
	return nodes, nil
}

// FrameEntities extracts the entities of the given type from a graph.
func FrameEntities(g *models.Graph, typ string) ([]models.Entity, error) {
	nodes, err := FrameNodes(g, typ)
	if err != nil {
		return nil, err
	}

	entities := make([]models.Entity, 0, len(nodes))
	for _, raw := range nodes {
		var e models.Entity
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("failed to frame %s node: %w", typ, err)
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// FrameShowtimes extracts the ScreeningEvent nodes from a graph.
func FrameShowtimes(g *models.Graph) ([]models.Showtime, error) {
	nodes, err := FrameNodes(g, TypeScreeningEvent)
	if err != nil {
		return nil, err
	}

	showtimes := make([]models.Showtime, 0, len(nodes))
	for _, raw := range nodes {
		var s models.Showtime
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("failed to frame ScreeningEvent node: %w", err)
		}
		showtimes = append(showtimes, s)
	}
	return showtimes, nil
}

// FrameResult frames a raw showtimes response body into the typed result
// collections.
func FrameResult(body []byte) (*models.ResultAction, error) {
	g, err := ParseGraph(body)
	if err != nil {
		return nil, err
	}

	showtimes, err := FrameShowtimes(g)
	if err != nil {
		return nil, err
	}

	result := &models.ResultAction{Showtimes: showtimes}
	frames := []struct {
		typ  string
		dest *[]models.Entity
	}{
		{TypeMovieTheater, &result.Theaters},
		{TypeMovie, &result.Movies},
		{TypeGenre, &result.Genres},
		{TypeRating, &result.Ratings},
		{TypeFormat, &result.Formats},
		{TypeAmenity, &result.Amenities},
		{TypeProperty, &result.Props},
	}
	for _, f := range frames {
		entities, err := FrameEntities(g, f.typ)
		if err != nil {
			return nil, err
		}
		*f.dest = entities
	}

	return result, nil
}
