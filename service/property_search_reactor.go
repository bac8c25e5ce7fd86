package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"cinematix/api/wikidata"
	"cinematix/models"
)

// DefaultSearchDebounce is how long typing must pause before a lookup fires.
const DefaultSearchDebounce = 250 * time.Millisecond

// PropertySearchReactor turns a stream of partial query strings into entity
// search lookups. Input is debounced, consecutive duplicates are dropped, and
// only the newest lookup per field may deliver: a keystroke during a fetch
// cancels it.
type PropertySearchReactor struct {
	api      wikidata.API
	dispatch func(models.Action)
	debounce time.Duration
	log      *zap.Logger

	mu     sync.Mutex
	fields map[string]*fieldSearch
}

type fieldSearch struct {
	property string
	last     string
	timer    *time.Timer
	gen      uint64
	cancel   context.CancelFunc
}

// NewPropertySearchReactor constructs a reactor. A non-positive debounce
// falls back to the default.
func NewPropertySearchReactor(api wikidata.API, dispatch func(models.Action), debounce time.Duration, log *zap.Logger) *PropertySearchReactor {
	if debounce <= 0 {
		debounce = DefaultSearchDebounce
	}
	return &PropertySearchReactor{
		api:      api,
		dispatch: dispatch,
		debounce: debounce,
		log:      log,
		fields: map[string]*fieldSearch{
			"theaters": {property: wikidata.PropertyTheater},
			"movies":   {property: wikidata.PropertyMovie},
		},
	}
}

// Next feeds one partial query for a field. Blank input clears the field's
// options immediately instead of searching.
func (r *PropertySearchReactor) Next(field, query string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.fields[field]
	if !ok {
		return
	}

	query = strings.TrimSpace(query)
	if query == f.last {
		return
	}
	f.last = query

	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}

	if query == "" {
		r.cancelLocked(f)
		r.dispatch(models.SearchResultAction{Field: field})
		return
	}

	f.timer = time.AfterFunc(r.debounce, func() {
		r.fire(field, query)
	})
}

// Close cancels all pending timers and in-flight lookups.
func (r *PropertySearchReactor) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.fields {
		if f.timer != nil {
			f.timer.Stop()
			f.timer = nil
		}
		r.cancelLocked(f)
	}
}

func (r *PropertySearchReactor) cancelLocked(f *fieldSearch) {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.gen++
}

func (r *PropertySearchReactor) fire(field, query string) {
	r.mu.Lock()
	f := r.fields[field]
	r.cancelLocked(f)
	gen := f.gen
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	property := f.property
	r.mu.Unlock()

	r.dispatch(models.SearchFetchAction{Field: field})

	go func() {
		options, err := r.api.Search(ctx, property, query)
		if err != nil {
			if ctx.Err() == nil {
				r.log.Warn("entity search failed",
					zap.String("field", field),
					zap.String("query", query),
					zap.Error(err))
			}
			options = nil
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		if f.gen != gen {
			return
		}
		r.dispatch(models.SearchResultAction{Field: field, Result: options})
	}()
}
