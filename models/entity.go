package models

// Entity is any taxonomy or reference object addressed by a stable id:
// theaters, movies, genres, ratings, formats, amenities and showtime
// properties all share this shape.
type Entity struct {
	ID   string   `json:"@id"`
	Type TypeList `json:"@type,omitempty"`
	Name string   `json:"name,omitempty"`
	URL  string   `json:"url,omitempty"`
}

// MergeEntities combines an existing list with a new one, updating existing
// entries by id and appending new ones. Nothing is ever discarded so that
// previously selected filter values remain resolvable to a label.
func MergeEntities(existing, incoming []Entity) []Entity {
	index := make(map[string]int, len(existing))
	merged := make([]Entity, len(existing))
	copy(merged, existing)

	for i, e := range merged {
		index[e.ID] = i
	}
	for _, e := range incoming {
		if i, ok := index[e.ID]; ok {
			merged[i] = e
			continue
		}
		index[e.ID] = len(merged)
		merged = append(merged, e)
	}
	return merged
}

// FindEntity returns the entity with the given id, or nil.
func FindEntity(list []Entity, id string) *Entity {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}
