package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"cinematix/api/cinematix"
	"cinematix/api/wikidata"
	"cinematix/models"
	"cinematix/util"
)

// Engine bundles the shared dependencies from which sessions are spawned and
// tracks the live ones so app-wide actions (the midnight rollover) reach
// every store.
type Engine struct {
	API         cinematix.API
	Wikidata    wikidata.API
	Cache       ResponseCache
	Updater     Updater
	Previews    time.Duration
	Concurrency int64
	Debounce    time.Duration
	Log         *zap.Logger

	mu       sync.Mutex
	sessions map[*Session]struct{}
}

// Session is one user's live search: a store plus the reactors that drive it.
// Every dispatched action lands in the store first, then the reactors
// reconcile against the new state, so derived work (fetches, price lookups)
// always follows from what the store actually holds.
type Session struct {
	engine   *Engine
	store    *Store
	query    *QueryReactor
	price    *PriceReactor
	search   *PropertySearchReactor
	previews time.Duration
	log      *zap.Logger
}

// NewSession spawns a session seeded with the given query. The session is
// idle until the first action arrives; dispatching a TodayAction starts the
// initial fetch.
func (e *Engine) NewSession(query models.Query) *Session {
	previews := e.Previews
	if previews <= 0 {
		previews = util.DefaultPreviews
	}
	updater := e.Updater
	if updater == nil {
		updater = NoopUpdater{}
	}

	s := &Session{
		engine:   e,
		store:    NewStore(query, e.Log),
		previews: previews,
		log:      e.Log,
	}
	s.query = NewQueryReactor(e.API, e.Cache, updater, s.Dispatch, e.Log)
	s.price = NewPriceReactor(e.API, e.Cache, s.Dispatch, s.qualifies, e.Concurrency, e.Log)
	if e.Wikidata != nil {
		s.search = NewPropertySearchReactor(e.Wikidata, s.Dispatch, e.Debounce, e.Log)
	}

	e.mu.Lock()
	if e.sessions == nil {
		e.sessions = make(map[*Session]struct{})
	}
	e.sessions[s] = struct{}{}
	e.mu.Unlock()
	return s
}

// Broadcast dispatches an action into every live session.
func (e *Engine) Broadcast(action models.Action) {
	e.mu.Lock()
	live := make([]*Session, 0, len(e.sessions))
	for s := range e.sessions {
		live = append(live, s)
	}
	e.mu.Unlock()

	for _, s := range live {
		s.Dispatch(action)
	}
}

// Dispatch applies an action and reconciles the reactors against the
// resulting state. Reactors dispatch back into this sink; convergence is
// guaranteed because resubmitting an unchanged query is a no-op and price
// candidates already marked active are never restarted.
func (s *Session) Dispatch(action models.Action) {
	s.store.Dispatch(action)

	state := s.store.State()
	s.query.Submit(state.Query, state.Today)

	visible, _ := VisibleShowtimes(state, s.previews)
	s.price.Sync(state.Query.PriceEnabled(), visible, state.Prices)
}

// SearchInput feeds one partial autocomplete query for a field.
func (s *Session) SearchInput(field, query string) {
	if s.search == nil {
		return
	}
	s.search.Next(field, query)
}

// State returns a copy of the current state.
func (s *Session) State() State {
	return s.store.State()
}

// Visible returns the showtimes passing every active filter, sorted by
// start, plus whether any filtered-out showtime still lies ahead.
func (s *Session) Visible() ([]models.Showtime, bool) {
	return VisibleShowtimes(s.store.State(), s.previews)
}

// Wait returns a channel closed on the next state change.
func (s *Session) Wait() <-chan struct{} {
	return s.store.Wait()
}

// Close cancels all in-flight work owned by the session.
func (s *Session) Close() {
	s.engine.mu.Lock()
	delete(s.engine.sessions, s)
	s.engine.mu.Unlock()

	s.query.Cancel()
	s.price.Close()
	if s.search != nil {
		s.search.Close()
	}
}

// qualifies reports whether an offer still needs pricing under the latest
// state: its showtime is visible, in stock and price-less.
func (s *Session) qualifies(offerID string) bool {
	state := s.store.State()
	if !state.Query.PriceEnabled() {
		return false
	}
	visible, _ := VisibleShowtimes(state, s.previews)
	for i := range visible {
		if visible[i].OfferID() == offerID {
			return offerQualifies(&visible[i])
		}
	}
	return false
}

// SearchOnce runs a single query to completion: it spawns a session, starts
// the fetch, and blocks until results land and all pending price lookups
// settle (or ctx expires). Used by the HTTP surface, where there is no
// long-lived client to stream into.
func (e *Engine) SearchOnce(ctx context.Context, query models.Query) (State, []models.Showtime, error) {
	session := e.NewSession(query)
	defer session.Close()

	session.Dispatch(models.TodayAction{Value: time.Now().Format(util.DateFormat)})

	for {
		// The wait channel must be taken before the state read; the store
		// rotates it on every dispatch.
		wait := session.Wait()
		state := session.State()
		switch state.Status {
		case models.StatusError:
			return state, nil, fmt.Errorf("showtimes fetch failed for %s", state.ErrorURL)
		case models.StatusReady:
			visible, _ := VisibleShowtimes(state, session.previews)
			if !state.Query.PriceEnabled() || pricesSettled(&state, visible) {
				return state, visible, nil
			}
		}

		select {
		case <-wait:
		case <-ctx.Done():
			return state, nil, ctx.Err()
		}
	}
}

// pricesSettled reports whether no lookup is running and every visible
// offer that needs pricing has a settled action.
func pricesSettled(state *State, visible []models.Showtime) bool {
	for i := range state.Prices {
		if state.Prices[i].Status == models.PriceActive {
			return false
		}
	}
	for i := range visible {
		if !offerQualifies(&visible[i]) {
			continue
		}
		if state.FindPrice(visible[i].Offer.ID) == nil {
			return false
		}
	}
	return true
}
