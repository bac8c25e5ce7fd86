package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"cinematix/api/cinematix"
	"cinematix/models"
)

const graphBody = `{"@graph":[{"@id":"xs:1","@type":"ScreeningEvent","startDate":"2026-09-01T19:00:00-05:00","offers":{"@id":"xs:1","availability":"InStock"}}]}`

// fakeAPI is a controllable cinematix.API.
type fakeAPI struct {
	mu      sync.Mutex
	fetches []string
	body    []byte
	err     error
	block   chan struct{}
}

func (f *fakeAPI) ShowtimesURL(req cinematix.ShowtimesRequest) string {
	return "fake://showtimes?zip=" + req.ZipCode + "&start=" + req.StartDate
}

func (f *fakeAPI) OfferPriceURL(offerID string) string {
	return "fake://offer/" + offerID
}

func (f *fakeAPI) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.fetches = append(f.fetches, url)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

func (f *fakeAPI) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetches)
}

// memCache is an in-memory ResponseCache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, url string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, ok := c.data[url]
	return body, ok, nil
}

func (c *memCache) Put(ctx context.Context, url string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[url] = body
	return nil
}

// actionSink records dispatched actions.
type actionSink struct {
	mu      sync.Mutex
	actions []models.Action
}

func (s *actionSink) dispatch(a models.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, a)
}

func (s *actionSink) snapshot() []models.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Action(nil), s.actions...)
}

func (s *actionSink) waitFor(t *testing.T, match func(models.Action) bool) models.Action {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		for _, a := range s.snapshot() {
			if match(a) {
				return a
			}
		}
		select {
		case <-deadline:
			t.Fatal("Timed out waiting for action")
			return nil
		case <-time.After(5 * time.Millisecond):
		}
	}
}

type recordingUpdater struct {
	mu    sync.Mutex
	calls int
}

func (u *recordingUpdater) SkipWaiting() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++
}

func validQuery() models.Query {
	q := models.DefaultQuery()
	q.ZipCode = "10001"
	return q
}

func TestQueryReactor_FetchAndDeliver(t *testing.T) {
	api := &fakeAPI{body: []byte(graphBody)}
	sink := &actionSink{}
	reactor := NewQueryReactor(api, newMemCache(), NoopUpdater{}, sink.dispatch, zap.NewNop())

	reactor.Submit(validQuery(), "2026-09-01")

	got := sink.waitFor(t, func(a models.Action) bool {
		r, ok := a.(models.ResultAction)
		return ok && len(r.Showtimes) == 1
	})
	result := got.(models.ResultAction)
	if result.Showtimes[0].ID != "xs:1" {
		t.Errorf("Expected showtime xs:1, got %s", result.Showtimes[0].ID)
	}

	// A fetching status precedes the result.
	sink.waitFor(t, func(a models.Action) bool {
		s, ok := a.(models.StatusAction)
		return ok && s.Status == models.StatusFetching
	})
}

func TestQueryReactor_DedupesUnchangedKey(t *testing.T) {
	api := &fakeAPI{body: []byte(graphBody)}
	sink := &actionSink{}
	reactor := NewQueryReactor(api, newMemCache(), NoopUpdater{}, sink.dispatch, zap.NewNop())

	q := validQuery()
	reactor.Submit(q, "2026-09-01")
	reactor.Submit(q, "2026-09-01")

	// Fields outside the request key do not refetch either.
	q.Genres = []string{"xg:drama"}
	reactor.Submit(q, "2026-09-01")

	sink.waitFor(t, func(a models.Action) bool {
		_, ok := a.(models.ResultAction)
		return ok
	})
	if n := api.fetchCount(); n != 1 {
		t.Errorf("Expected a single fetch, got %d", n)
	}
}

func TestQueryReactor_UnknownTodayDoesNothing(t *testing.T) {
	api := &fakeAPI{body: []byte(graphBody)}
	sink := &actionSink{}
	reactor := NewQueryReactor(api, newMemCache(), NoopUpdater{}, sink.dispatch, zap.NewNop())

	reactor.Submit(validQuery(), "")

	time.Sleep(20 * time.Millisecond)
	if n := api.fetchCount(); n != 0 {
		t.Errorf("Expected no fetch before today is known, got %d", n)
	}
	if len(sink.snapshot()) != 0 {
		t.Errorf("Expected no actions, got %v", sink.snapshot())
	}
}

func TestQueryReactor_PartialZipShortCircuits(t *testing.T) {
	api := &fakeAPI{body: []byte(graphBody)}
	sink := &actionSink{}
	reactor := NewQueryReactor(api, newMemCache(), NoopUpdater{}, sink.dispatch, zap.NewNop())

	q := models.DefaultQuery()
	q.ZipCode = "100"
	reactor.Submit(q, "2026-09-01")

	sink.waitFor(t, func(a models.Action) bool {
		r, ok := a.(models.ResultAction)
		return ok && len(r.Showtimes) == 0
	})
	if n := api.fetchCount(); n != 0 {
		t.Errorf("Expected no fetch for a partial zip, got %d", n)
	}
}

func TestQueryReactor_SelectedTheatersBypassZipGate(t *testing.T) {
	api := &fakeAPI{body: []byte(graphBody)}
	sink := &actionSink{}
	reactor := NewQueryReactor(api, newMemCache(), NoopUpdater{}, sink.dispatch, zap.NewNop())

	q := models.DefaultQuery()
	q.Theaters = []string{"1156"}
	reactor.Submit(q, "2026-09-01")

	sink.waitFor(t, func(a models.Action) bool {
		r, ok := a.(models.ResultAction)
		return ok && len(r.Showtimes) == 1
	})
}

func TestQueryReactor_LatestKeyWins(t *testing.T) {
	block := make(chan struct{})
	api := &fakeAPI{body: []byte(graphBody), block: block}
	sink := &actionSink{}
	reactor := NewQueryReactor(api, newMemCache(), NoopUpdater{}, sink.dispatch, zap.NewNop())

	first := validQuery()
	reactor.Submit(first, "2026-09-01")

	// A new key cancels the blocked fetch.
	second := validQuery()
	second.ZipCode = "94103"
	reactor.Submit(second, "2026-09-01")
	close(block)

	sink.waitFor(t, func(a models.Action) bool {
		_, ok := a.(models.ResultAction)
		return ok
	})

	// Only the second key's result may land; the first fetch was cancelled
	// and must not surface as an error either.
	for _, a := range sink.snapshot() {
		if e, ok := a.(models.ErrorAction); ok {
			t.Errorf("Unexpected error action for %s", e.URL)
		}
	}
}

func TestQueryReactor_FetchErrorDispatchesError(t *testing.T) {
	api := &fakeAPI{err: errors.New("boom")}
	sink := &actionSink{}
	reactor := NewQueryReactor(api, newMemCache(), NoopUpdater{}, sink.dispatch, zap.NewNop())

	reactor.Submit(validQuery(), "2026-09-01")

	got := sink.waitFor(t, func(a models.Action) bool {
		_, ok := a.(models.ErrorAction)
		return ok
	})
	if got.(models.ErrorAction).URL == "" {
		t.Error("Expected the failing URL on the error action")
	}
}

func TestQueryReactor_CacheServedBeforeNetwork(t *testing.T) {
	api := &fakeAPI{body: []byte(graphBody)}
	cache := newMemCache()
	sink := &actionSink{}
	reactor := NewQueryReactor(api, cache, NoopUpdater{}, sink.dispatch, zap.NewNop())

	url := api.ShowtimesURL(cinematix.ShowtimesRequest{ZipCode: "10001", StartDate: "2026-09-01"})
	_ = cache.Put(context.Background(), url, []byte(graphBody))

	reactor.Submit(validQuery(), "2026-09-01")

	sink.waitFor(t, func(a models.Action) bool {
		_, ok := a.(models.ResultAction)
		return ok
	})

	// The cached body never suppresses the network fetch; both deliver.
	deadline := time.After(2 * time.Second)
	for {
		results := 0
		for _, a := range sink.snapshot() {
			if _, ok := a.(models.ResultAction); ok {
				results++
			}
		}
		if results >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("Expected cache and network results to both land")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if n := api.fetchCount(); n != 1 {
		t.Errorf("Expected one network fetch, got %d", n)
	}
}

func TestQueryReactor_NeedsUpdateHandsOffToUpdater(t *testing.T) {
	api := &fakeAPI{body: []byte(graphBody)}
	sink := &actionSink{}
	updater := &recordingUpdater{}
	reactor := NewQueryReactor(api, newMemCache(), updater, sink.dispatch, zap.NewNop())

	q := validQuery()
	q.NeedsUpdate = true
	reactor.Submit(q, "2026-09-01")

	sink.waitFor(t, func(a models.Action) bool {
		_, ok := a.(models.UpdateRequestedAction)
		return ok
	})

	updater.mu.Lock()
	calls := updater.calls
	updater.mu.Unlock()
	if calls != 1 {
		t.Errorf("Expected one SkipWaiting call, got %d", calls)
	}
}
