package util

import "cinematix/models"

// DisplayFilter decides whether an item with array-valued data survives an
// include/exclude id set. Empty sets impose no constraint. A non-empty
// include set rejects items with no data; a non-empty exclude set rejects any
// overlap.
func DisplayFilter(include, exclude []string, data []models.Entity) bool {
	if len(include) != 0 {
		if len(data) == 0 {
			return false
		}

		match := false
		for _, id := range include {
			if FindByID(data, id) != nil {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}

	if len(exclude) != 0 {
		for _, id := range exclude {
			if FindByID(data, id) != nil {
				return false
			}
		}
	}

	return true
}

// DisplayFilterOne is the scalar shape of DisplayFilter. The include branch
// intentionally degenerates to a presence test on the item's id rather than
// an equality check against each candidate; upstream has carried this
// behavior across several revisions and parity is preserved here.
func DisplayFilterOne(include, exclude []string, data *models.Entity) bool {
	if len(include) != 0 {
		if data == nil {
			return false
		}
		if data.ID == "" {
			return false
		}
	}

	if len(exclude) != 0 {
		if data == nil {
			return true
		}
		for _, id := range exclude {
			if data.ID == id {
				return false
			}
		}
	}

	return true
}

// DisplayFilterExclusive applies single-valued include/exclude semantics: the
// item's local id must (include) or must not (exclude) appear in values. An
// empty values set imposes no constraint.
func DisplayFilterExclusive(values []string, mode string, data *models.Entity) bool {
	if len(values) == 0 {
		return true
	}

	id := ""
	if data != nil {
		id = models.LocalID(data.ID)
	}

	match := false
	for _, v := range values {
		if v == id {
			match = true
			break
		}
	}

	if mode == models.ModeExclude && match {
		return false
	}
	if mode == models.ModeInclude && !match {
		return false
	}

	return true
}

// FindByID returns the entity with the given id, or nil.
func FindByID(list []models.Entity, id string) *models.Entity {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}
