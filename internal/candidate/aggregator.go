package candidate

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"ai-travel-planner/internal/search"
	"ai-travel-planner/internal/trip"
)

// DefaultPOICategory is always queried; the first interest tag is queried too when set.
const DefaultPOICategory = "attractions"

const (
	defaultProviderTimeout = 15 * time.Second
	defaultConcurrency     = 4
)

// Aggregator queries every provider for every entity kind and merges the
// normalized results in provider priority order.
// It is safe for concurrent use: each Aggregate call draws from its own RandSource.
type Aggregator struct {
	providers   []search.Provider
	newRand     func() RandSource
	timeout     time.Duration
	concurrency int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithRandFactory sets how each Aggregate call gets its RandSource.
// The factory must return a fresh source on every call.
func WithRandFactory(newRand func() RandSource) Option {
	return func(a *Aggregator) {
		if newRand != nil {
			a.newRand = newRand
		}
	}
}

// WithSeed makes synthesized prices and fallback pools reproducible:
// every Aggregate call starts from the same seed.
func WithSeed(seed int64) Option {
	return WithRandFactory(func() RandSource {
		return rand.New(rand.NewSource(seed))
	})
}

// WithProviderTimeout bounds every single provider call.
func WithProviderTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithConcurrency bounds how many provider calls run at once.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// NewAggregator creates an Aggregator. providers are in priority order: the first one's results come first.
func NewAggregator(providers []search.Provider, opts ...Option) *Aggregator {
	a := &Aggregator{
		providers:   providers,
		newRand:     NewRandSource,
		timeout:     defaultProviderTimeout,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate never fails. A provider that errors, times out or panics contributes nothing.
// Flights are only searched when the request has an origin; the flight pool (when searched)
// and the lodging pool are never empty on return.
func (a *Aggregator) Aggregate(ctx context.Context, req trip.Request) Pools {
	n := len(a.providers)
	categories := poiCategories(req)

	// One slot per provider (and per category for POIs) so the merge order
	// does not depend on which call finishes first.
	flightSlots := make([][]search.RawResult, n)
	lodgingSlots := make([][]search.RawResult, n)
	poiSlots := make([][][]search.RawResult, n)

	g := new(errgroup.Group)
	g.SetLimit(a.concurrency)

	for i, p := range a.providers {
		name := p.Name()
		if req.Origin != "" {
			g.Go(func() error {
				ret := req.EndDate
				flightSlots[i] = a.call(ctx, name, KindFlight, func(ctx context.Context) ([]search.RawResult, error) {
					return p.SearchFlights(ctx, req.Origin, req.Destination, req.StartDate, &ret)
				})
				return nil
			})
		}

		g.Go(func() error {
			lodgingSlots[i] = a.call(ctx, name, KindLodging, func(ctx context.Context) ([]search.RawResult, error) {
				return p.SearchLodging(ctx, req.City(), req.StartDate, req.EndDate, req.Travelers)
			})
			return nil
		})

		poiSlots[i] = make([][]search.RawResult, len(categories))
		for j, category := range categories {
			g.Go(func() error {
				poiSlots[i][j] = a.call(ctx, name, KindPOI, func(ctx context.Context) ([]search.RawResult, error) {
					return p.SearchPOI(ctx, req.City(), category)
				})
				return nil
			})
		}
	}
	_ = g.Wait()

	// Normalization runs after the fan-out on this goroutine only.
	rng := a.newRand()
	normalizer := NewNormalizer(rng)

	var pools Pools
	for i, p := range a.providers {
		name := p.Name()
		pools.Flights = append(pools.Flights, lo.Map(flightSlots[i], func(r search.RawResult, _ int) Flight {
			return normalizer.NormalizeFlight(name, r)
		})...)
		pools.Lodging = append(pools.Lodging, lo.Map(lodgingSlots[i], func(r search.RawResult, _ int) Lodging {
			return normalizer.NormalizeLodging(name, withCity(r, req.City()))
		})...)
		for _, raws := range poiSlots[i] {
			pools.PointsOfInterest = append(pools.PointsOfInterest, lo.Map(raws, func(r search.RawResult, _ int) PointOfInterest {
				return normalizer.NormalizePOI(name, withCity(r, req.City()))
			})...)
		}
	}

	if req.Origin != "" && len(pools.Flights) == 0 {
		log.Printf("[search] no flights found for %s -> %s, using %d fallback options", req.Origin, req.Destination, FallbackFlightCount)
		pools.Flights = FallbackFlights(req, rng)
	}
	if len(pools.Lodging) == 0 {
		log.Printf("[search] no lodging found in %s, using %d fallback options", req.Destination, FallbackLodgingCount)
		pools.Lodging = FallbackLodging(req, rng)
	}

	return pools
}

func (a *Aggregator) call(
	ctx context.Context,
	provider string,
	kind EntityKind,
	fn func(ctx context.Context) ([]search.RawResult, error),
) (results []search.RawResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[search] %s %s search panicked: %v", provider, kind, r)
			results = nil
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	res, err := fn(callCtx)
	if err != nil {
		log.Printf("[search] %s %s search failed after %v: %v", provider, kind, time.Since(start).Round(time.Millisecond), err)
		return nil
	}
	log.Printf("[search] %s returned %d %s results in %v", provider, len(res), kind, time.Since(start).Round(time.Millisecond))
	return res
}

func poiCategories(req trip.Request) []string {
	categories := []string{DefaultPOICategory}
	if len(req.Preferences.Interests) > 0 {
		categories = append(categories, req.Preferences.Interests[0])
	}
	return lo.Uniq(categories)
}

func withCity(r search.RawResult, city string) search.RawResult {
	if r.City == "" {
		r.City = city
	}
	return r
}
