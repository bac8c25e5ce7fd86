package models

import (
	"sort"
	"strings"
)

// Context maps the JSON-LD prefixes used by the showtimes API to their
// expanded URLs.
var Context = map[string]string{
	"x":  "https://cinematix.app/",
	"xa": "https://cinematix.app/amenity/",
	"xf": "https://cinematix.app/format/",
	"xg": "https://cinematix.app/genre/",
	"xm": "https://cinematix.app/movie/",
	"xp": "https://cinematix.app/property/",
	"xr": "https://cinematix.app/rating/",
	"xs": "https://cinematix.app/showtime/",
	"xt": "https://cinematix.app/theater/",
}

type contextEntry struct {
	prefix string
	url    string
}

// Longest URLs first so "xa:" wins over "x:" when compacting.
var replaceContext = func() []contextEntry {
	entries := make([]contextEntry, 0, len(Context))
	for prefix, url := range Context {
		entries = append(entries, contextEntry{prefix: prefix, url: url})
	}
	sort.Slice(entries, func(i, j int) bool {
		return len(entries[i].url) > len(entries[j].url)
	})
	return entries
}()

// CompactID rewrites an expanded URL into its prefixed form, e.g.
// "https://cinematix.app/genre/comedy" becomes "xg:comedy". Values that do
// not match any known prefix are returned unchanged.
func CompactID(value string) string {
	for _, e := range replaceContext {
		if strings.HasPrefix(value, e.url) {
			return e.prefix + ":" + strings.TrimPrefix(value, e.url)
		}
	}
	return value
}

// LocalID strips the prefix from a compacted id: "xt:123" becomes "123".
func LocalID(id string) string {
	if i := strings.LastIndex(id, ":"); i >= 0 {
		return id[i+1:]
	}
	return id
}
