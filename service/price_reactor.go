package services

import (
	"context"
	"sync"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"cinematix/api/cinematix"
	"cinematix/models"
)

// DefaultPriceConcurrency bounds simultaneous price fetches on the network.
const DefaultPriceConcurrency = 6

// PriceReactor resolves prices for the visible, in-stock, price-less
// showtimes. Cache checks run unbounded; network fetches share a weighted
// semaphore. Each in-flight lookup races a disqualification signal: when the
// owning showtime stops qualifying, its context is cancelled and the lookup
// settles as Potential instead of Completed.
type PriceReactor struct {
	api      cinematix.API
	cache    ResponseCache
	dispatch func(models.Action)
	qualify  func(offerID string) bool
	sem      *semaphore.Weighted
	log      *zap.Logger

	mu        sync.Mutex
	inflight  map[string]context.CancelFunc
	qualified map[string]struct{}

	results chan models.PriceAction
	wg      sync.WaitGroup
	closed  chan struct{}
}

// NewPriceReactor constructs a reactor. qualify reconsults the latest state
// right before (and during) each network fetch.
func NewPriceReactor(
	api cinematix.API,
	cache ResponseCache,
	dispatch func(models.Action),
	qualify func(offerID string) bool,
	concurrency int64,
	log *zap.Logger,
) *PriceReactor {
	if concurrency <= 0 {
		concurrency = DefaultPriceConcurrency
	}
	r := &PriceReactor{
		api:      api,
		cache:    cache,
		dispatch: dispatch,
		qualify:  qualify,
		sem:      semaphore.NewWeighted(concurrency),
		log:      log,
		inflight: make(map[string]context.CancelFunc),
		results:  make(chan models.PriceAction, 64),
		closed:   make(chan struct{}),
	}
	go r.collect()
	return r
}

// Close cancels all in-flight lookups and stops the collector.
func (r *PriceReactor) Close() {
	r.mu.Lock()
	for _, cancel := range r.inflight {
		cancel()
	}
	r.mu.Unlock()

	r.wg.Wait()
	close(r.closed)
}

// Sync reconciles the reactor against the latest visible showtimes: it
// cancels lookups whose showtime stopped qualifying and starts lookups for
// new candidates. A disabled price toggle cancels everything and starts
// nothing.
func (r *PriceReactor) Sync(enabled bool, visible []models.Showtime, prices []models.PriceAction) {
	qualified := make(map[string]struct{})
	if enabled {
		for i := range visible {
			if offerQualifies(&visible[i]) {
				qualified[visible[i].Offer.ID] = struct{}{}
			}
		}
	}

	r.mu.Lock()
	for id, cancel := range r.inflight {
		if _, ok := qualified[id]; !ok {
			cancel()
		}
	}

	// Offers with a settled or in-flight action are left alone. Potential
	// (cancelled before settling) relaunches whenever it qualifies; Failed
	// relaunches only when the offer re-enters the qualified set after having
	// left it, otherwise every reconcile pass would refetch a broken offer.
	var candidates []string
	for id := range qualified {
		if _, ok := r.inflight[id]; ok {
			continue
		}
		if a := findPrice(prices, id); a != nil {
			_, wasQualified := r.qualified[id]
			switch a.Status {
			case models.PricePotential:
			case models.PriceFailed:
				if wasQualified {
					continue
				}
			default:
				continue
			}
		}
		candidates = append(candidates, id)
	}
	r.qualified = qualified

	contexts := make(map[string]context.Context, len(candidates))
	for _, id := range candidates {
		ctx, cancel := context.WithCancel(context.Background())
		r.inflight[id] = cancel
		contexts[id] = ctx
	}
	r.mu.Unlock()

	if len(candidates) == 0 {
		return
	}

	// Optimistic loading markers, before any I/O.
	active := make([]models.PriceAction, len(candidates))
	for i, id := range candidates {
		active[i] = models.PriceAction{Status: models.PriceActive, OfferID: id}
	}
	r.dispatch(models.PricesAction{Actions: active})

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		remaining := r.cachePhase(candidates, contexts)
		r.networkPhase(remaining, contexts)
	}()
}

// cachePhase checks every candidate against the response cache concurrently
// and batches all hits into a single store update. It returns the ids that
// still need the network.
func (r *PriceReactor) cachePhase(candidates []string, contexts map[string]context.Context) []string {
	var mu sync.Mutex
	var hits []models.PriceAction
	var misses []string

	var g errgroup.Group
	for _, id := range candidates {
		id := id
		g.Go(func() error {
			ctx := contexts[id]
			url := r.api.OfferPriceURL(id)

			body, ok, err := r.cache.Get(ctx, url)
			if err != nil {
				r.log.Warn("price cache read failed", zap.String("offer", id), zap.Error(err))
			}
			if ok {
				if action, perr := parsePrice(id, body); perr == nil {
					mu.Lock()
					hits = append(hits, action)
					mu.Unlock()
					r.settle(id)
					return nil
				}
			}
			mu.Lock()
			misses = append(misses, id)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	if len(hits) > 0 {
		r.dispatch(models.PricesAction{Actions: hits})
	}
	return misses
}

// networkPhase fetches each remaining offer, at most `concurrency` at a
// time. Qualification is rechecked after acquiring a slot, and the fetch
// itself runs under the per-offer context so a disqualification mid-flight
// wins the race.
func (r *PriceReactor) networkPhase(ids []string, contexts map[string]context.Context) {
	var inner sync.WaitGroup
	for _, id := range ids {
		id := id
		inner.Add(1)
		go func() {
			defer inner.Done()
			ctx := contexts[id]

			if err := r.sem.Acquire(ctx, 1); err != nil {
				r.finish(id, models.PriceAction{Status: models.PricePotential, OfferID: id})
				return
			}
			defer r.sem.Release(1)

			if ctx.Err() != nil || !r.qualify(id) {
				r.finish(id, models.PriceAction{Status: models.PricePotential, OfferID: id})
				return
			}

			url := r.api.OfferPriceURL(id)
			body, err := r.api.Fetch(ctx, url)
			if err != nil {
				if ctx.Err() != nil {
					r.finish(id, models.PriceAction{Status: models.PricePotential, OfferID: id})
					return
				}
				r.log.Warn("price fetch failed", zap.String("offer", id), zap.Error(err))
				r.finish(id, models.PriceAction{Status: models.PriceFailed, OfferID: id})
				return
			}

			if err := r.cache.Put(ctx, url, body); err != nil {
				r.log.Warn("price cache write failed", zap.String("offer", id), zap.Error(err))
			}

			action, err := parsePrice(id, body)
			if err != nil {
				r.finish(id, models.PriceAction{Status: models.PriceFailed, OfferID: id})
				return
			}

			// The fetch may have completed after a disqualification; a stale
			// result is discarded, not applied.
			if ctx.Err() != nil {
				r.finish(id, models.PriceAction{Status: models.PricePotential, OfferID: id})
				return
			}
			r.finish(id, action)
		}()
	}
	inner.Wait()
}

// settle removes an id from the in-flight set without emitting.
func (r *PriceReactor) settle(id string) {
	r.mu.Lock()
	if cancel, ok := r.inflight[id]; ok {
		cancel()
		delete(r.inflight, id)
	}
	r.mu.Unlock()
}

// finish removes an id from the in-flight set and queues its terminal
// action for batching.
func (r *PriceReactor) finish(id string, action models.PriceAction) {
	r.settle(id)
	r.results <- action
}

// collect drains lookup results, batching everything already queued into a
// single store update to avoid redundant intermediate renders.
func (r *PriceReactor) collect() {
	for {
		var first models.PriceAction
		select {
		case first = <-r.results:
		case <-r.closed:
			return
		}

		batch := []models.PriceAction{first}
	drain:
		for {
			select {
			case next := <-r.results:
				batch = append(batch, next)
			default:
				break drain
			}
		}
		r.dispatch(models.PricesAction{Actions: batch})
	}
}

// offerQualifies reports whether a visible showtime needs pricing: it has an
// offer id, is in stock, and carries no inline price.
func offerQualifies(s *models.Showtime) bool {
	if s.Offer == nil || s.Offer.ID == "" {
		return false
	}
	if s.Offer.AvailabilityStatus() != models.AvailabilityInStock {
		return false
	}
	return s.Offer.Price == nil
}

func findPrice(prices []models.PriceAction, offerID string) *models.PriceAction {
	for i := range prices {
		if prices[i].OfferID == offerID {
			return &prices[i]
		}
	}
	return nil
}

// parsePrice turns a price endpoint body into a Completed action, dropping
// the JSON-LD context.
func parsePrice(offerID string, body []byte) (models.PriceAction, error) {
	var price models.OfferPrice
	if err := json.Unmarshal(body, &price); err != nil {
		return models.PriceAction{}, err
	}
	return models.PriceAction{
		Status:       models.PriceCompleted,
		OfferID:      offerID,
		Price:        price.Price,
		Currency:     price.PriceCurrency,
		Availability: price.AvailabilityStatus(),
	}, nil
}
