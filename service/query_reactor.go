package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"cinematix/api/cinematix"
	"cinematix/models"
	"cinematix/util"
)

// ResponseCache is the URL-addressed body cache consulted before the network.
type ResponseCache interface {
	Get(ctx context.Context, url string) ([]byte, bool, error)
	Put(ctx context.Context, url string, body []byte) error
}

// Updater is the external application-update mechanism. SkipWaiting hands
// control to a pending update before the next fetch would race it.
type Updater interface {
	SkipWaiting()
}

// NoopUpdater satisfies Updater where no update mechanism exists.
type NoopUpdater struct{}

func (NoopUpdater) SkipWaiting() {}

// QueryReactor turns filter state into showtime requests. It is single
// flight: re-submissions with an unchanged request key are dropped, and a
// new key cancels any outstanding work for the previous one. Stale
// completions are discarded by generation, so no result from a superseded
// key is ever applied.
type QueryReactor struct {
	api      cinematix.API
	cache    ResponseCache
	updater  Updater
	dispatch func(models.Action)
	log      *zap.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	last   *models.RequestKey
}

// NewQueryReactor constructs a reactor dispatching into the given sink.
func NewQueryReactor(
	api cinematix.API,
	cache ResponseCache,
	updater Updater,
	dispatch func(models.Action),
	log *zap.Logger,
) *QueryReactor {
	return &QueryReactor{
		api:      api,
		cache:    cache,
		updater:  updater,
		dispatch: dispatch,
		log:      log,
	}
}

// Submit offers the current filter state to the reactor. today is the app's
// current date used to resolve quick-date tokens; dates always go on the
// wire fully resolved to avoid timezone drift between client and server.
func (r *QueryReactor) Submit(q models.Query, today string) {
	startDate := util.ResolveQuickDate(today, q.StartDate)
	endDate := util.ResolveQuickDate(today, q.EndDate)
	if startDate == "" || endDate == "" {
		// Today not known yet; nothing sensible to request.
		return
	}

	key := models.NewRequestKey(q, startDate, endDate)

	r.mu.Lock()
	if r.last != nil && key.Equal(*r.last) {
		r.mu.Unlock()
		return
	}
	r.last = &key

	// No theaters and a partial zip: clear in-flight work and short-circuit
	// to an empty result without touching the network.
	if len(q.Theaters) == 0 && len(q.ZipCode) < 5 {
		r.cancelLocked()
		r.gen++
		r.mu.Unlock()
		r.dispatch(models.ResultAction{})
		return
	}

	url := r.api.ShowtimesURL(cinematix.ShowtimesRequest{
		ZipCode:   q.ZipCode,
		Limit:     q.Limit,
		Ticketing: q.Ticketing,
		StartDate: startDate,
		EndDate:   endDate,
		Theaters:  q.Theaters,
	})

	r.cancelLocked()
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.gen++
	gen := r.gen
	r.mu.Unlock()

	// A pending application update takes over before we spend a request on
	// soon-to-be-stale code; clearing the flag prevents an update-refetch
	// loop.
	if q.NeedsUpdate {
		r.updater.SkipWaiting()
		r.dispatch(models.UpdateRequestedAction{})
	}

	r.dispatch(models.StatusAction{Status: models.StatusFetching})
	go r.run(ctx, gen, url)
}

// Cancel aborts any in-flight request.
func (r *QueryReactor) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelLocked()
	r.gen++
}

func (r *QueryReactor) cancelLocked() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// run performs the cache-then-network stages for one request generation.
// A cached body is framed and delivered immediately but never suppresses
// the network fetch.
func (r *QueryReactor) run(ctx context.Context, gen uint64, url string) {
	if body, ok, err := r.cache.Get(ctx, url); err != nil {
		r.log.Warn("response cache read failed", zap.String("url", url), zap.Error(err))
	} else if ok {
		if result, err := util.FrameResult(body); err != nil {
			r.log.Warn("cached response did not frame", zap.String("url", url), zap.Error(err))
		} else {
			r.deliver(gen, *result)
		}
	}

	body, err := r.api.Fetch(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			// Superseded by a newer key; drop silently.
			return
		}
		r.deliver(gen, models.ErrorAction{URL: url, Err: err})
		return
	}

	if err := r.cache.Put(ctx, url, body); err != nil {
		r.log.Warn("response cache write failed", zap.String("url", url), zap.Error(err))
	}

	result, err := util.FrameResult(body)
	if err != nil {
		r.deliver(gen, models.ErrorAction{URL: url, Err: err})
		return
	}
	r.deliver(gen, *result)
}

// deliver dispatches an action unless its generation has been superseded.
func (r *QueryReactor) deliver(gen uint64, action models.Action) {
	r.mu.Lock()
	stale := gen != r.gen
	r.mu.Unlock()
	if stale {
		return
	}
	r.dispatch(action)
}
