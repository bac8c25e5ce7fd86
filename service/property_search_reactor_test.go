package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"cinematix/models"
)

// fakeSearchAPI records queries and serves canned options.
type fakeSearchAPI struct {
	mu      sync.Mutex
	queries []string
	err     error
}

func (f *fakeSearchAPI) Search(ctx context.Context, property, query string) ([]models.SearchOption, error) {
	f.mu.Lock()
	f.queries = append(f.queries, property+"/"+query)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return []models.SearchOption{{Value: "X123", Label: query}}, nil
}

func (f *fakeSearchAPI) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

const testDebounce = 20 * time.Millisecond

func TestPropertySearchReactor_DebouncesKeystrokes(t *testing.T) {
	api := &fakeSearchAPI{}
	sink := &actionSink{}
	reactor := NewPropertySearchReactor(api, sink.dispatch, testDebounce, zap.NewNop())
	defer reactor.Close()

	// Rapid typing collapses into one lookup for the final text.
	reactor.Next("theaters", "g")
	reactor.Next("theaters", "gr")
	reactor.Next("theaters", "grand")

	got := sink.waitFor(t, func(a models.Action) bool {
		r, ok := a.(models.SearchResultAction)
		return ok && len(r.Result) == 1
	})
	if got.(models.SearchResultAction).Result[0].Label != "grand" {
		t.Errorf("Expected lookup for final text, got %v", got)
	}

	time.Sleep(2 * testDebounce)
	if n := api.queryCount(); n != 1 {
		t.Errorf("Expected one lookup, got %d", n)
	}
}

func TestPropertySearchReactor_FetchMarkerPrecedesResult(t *testing.T) {
	api := &fakeSearchAPI{}
	sink := &actionSink{}
	reactor := NewPropertySearchReactor(api, sink.dispatch, testDebounce, zap.NewNop())
	defer reactor.Close()

	reactor.Next("movies", "starlight")

	sink.waitFor(t, func(a models.Action) bool {
		f, ok := a.(models.SearchFetchAction)
		return ok && f.Field == "movies"
	})
	sink.waitFor(t, func(a models.Action) bool {
		r, ok := a.(models.SearchResultAction)
		return ok && r.Field == "movies"
	})
}

func TestPropertySearchReactor_BlankInputClearsImmediately(t *testing.T) {
	api := &fakeSearchAPI{}
	sink := &actionSink{}
	reactor := NewPropertySearchReactor(api, sink.dispatch, testDebounce, zap.NewNop())
	defer reactor.Close()

	reactor.Next("theaters", "grand")
	reactor.Next("theaters", "   ")

	got := sink.waitFor(t, func(a models.Action) bool {
		r, ok := a.(models.SearchResultAction)
		return ok && r.Result == nil
	})
	if got.(models.SearchResultAction).Field != "theaters" {
		t.Error("Expected clear action for the theaters field")
	}

	time.Sleep(2 * testDebounce)
	if n := api.queryCount(); n != 0 {
		t.Errorf("Expected the pending lookup to be dropped, got %d", n)
	}
}

func TestPropertySearchReactor_DuplicateInputIgnored(t *testing.T) {
	api := &fakeSearchAPI{}
	sink := &actionSink{}
	reactor := NewPropertySearchReactor(api, sink.dispatch, testDebounce, zap.NewNop())
	defer reactor.Close()

	reactor.Next("theaters", "grand")
	sink.waitFor(t, func(a models.Action) bool {
		_, ok := a.(models.SearchResultAction)
		return ok
	})

	// Same trimmed text again: no second lookup.
	reactor.Next("theaters", " grand ")
	time.Sleep(2 * testDebounce)
	if n := api.queryCount(); n != 1 {
		t.Errorf("Expected one lookup, got %d", n)
	}
}

func TestPropertySearchReactor_ErrorDeliversEmptyResult(t *testing.T) {
	api := &fakeSearchAPI{err: errors.New("upstream down")}
	sink := &actionSink{}
	reactor := NewPropertySearchReactor(api, sink.dispatch, testDebounce, zap.NewNop())
	defer reactor.Close()

	reactor.Next("movies", "starlight")

	got := sink.waitFor(t, func(a models.Action) bool {
		r, ok := a.(models.SearchResultAction)
		return ok && r.Field == "movies"
	})
	if got.(models.SearchResultAction).Result != nil {
		t.Error("Expected a nil result on error")
	}
}

func TestPropertySearchReactor_UnknownFieldIgnored(t *testing.T) {
	api := &fakeSearchAPI{}
	sink := &actionSink{}
	reactor := NewPropertySearchReactor(api, sink.dispatch, testDebounce, zap.NewNop())
	defer reactor.Close()

	reactor.Next("genres", "western")

	time.Sleep(2 * testDebounce)
	if n := api.queryCount(); n != 0 {
		t.Errorf("Expected no lookup for an unsearchable field, got %d", n)
	}
}
