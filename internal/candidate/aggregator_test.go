package candidate

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"

	"ai-travel-planner/internal/search"
	"ai-travel-planner/internal/trip"
)

// stubProvider returns canned results, optionally after a delay or with an error.
type stubProvider struct {
	name     string
	flights  []search.RawResult
	lodging  []search.RawResult
	pois     []search.RawResult
	err      error
	delay    time.Duration
	panicOn  EntityKind
	mu       sync.Mutex
	poiCalls []string
	flightN  int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) wait(ctx context.Context) error {
	if s.delay == 0 {
		return nil
	}
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *stubProvider) SearchFlights(ctx context.Context, origin, destination string, depart time.Time, ret *time.Time) ([]search.RawResult, error) {
	s.mu.Lock()
	s.flightN++
	s.mu.Unlock()
	if s.panicOn == KindFlight {
		panic("boom")
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.flights, s.err
}

func (s *stubProvider) SearchLodging(ctx context.Context, city string, checkIn, checkOut time.Time, guests int) ([]search.RawResult, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.lodging, s.err
}

func (s *stubProvider) SearchPOI(ctx context.Context, city, category string) ([]search.RawResult, error) {
	s.mu.Lock()
	s.poiCalls = append(s.poiCalls, category)
	s.mu.Unlock()
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.pois, s.err
}

func parisRequest(t *testing.T, origin string) trip.Request {
	t.Helper()
	req, err := trip.NewRequest(trip.Request{
		Destination: "Paris, France",
		Origin:      origin,
		StartDate:   time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 6, 6, 0, 0, 0, 0, time.UTC),
		Budget:      2000,
		Travelers:   2,
	})
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return req
}

func TestAggregatePreservesProviderOrder(t *testing.T) {
	// The primary provider is slower so it finishes last.
	primary := &stubProvider{
		name:    "primary",
		delay:   30 * time.Millisecond,
		flights: []search.RawResult{{Airline: "Air France", Title: "AF1"}},
		lodging: []search.RawResult{{Title: "Primary Hotel", PriceText: "$200"}},
		pois:    []search.RawResult{{Title: "Louvre"}},
	}
	secondary := &stubProvider{
		name:    "secondary",
		flights: []search.RawResult{{Airline: "Delta", Title: "DL1"}, {Airline: "KLM"}},
		lodging: []search.RawResult{{Title: "Secondary Hotel", PriceText: "$150"}},
		pois:    []search.RawResult{{Title: "Eiffel Tower"}},
	}

	agg := NewAggregator([]search.Provider{primary, secondary}, WithSeed(1))
	pools := agg.Aggregate(context.Background(), parisRequest(t, "New York"))

	carriers := lo.Map(pools.Flights, func(f Flight, _ int) string { return f.Airline })
	if len(carriers) != 3 || carriers[0] != "Air France" || carriers[1] != "Delta" || carriers[2] != "KLM" {
		t.Errorf("Expected provider-priority flight order, got %v", carriers)
	}
	if pools.Lodging[0].Name != "Primary Hotel" || pools.Lodging[1].Name != "Secondary Hotel" {
		t.Errorf("Expected provider-priority lodging order, got %+v", pools.Lodging)
	}
	if pools.PointsOfInterest[0].Name != "Louvre" || pools.PointsOfInterest[1].Name != "Eiffel Tower" {
		t.Errorf("Expected provider-priority POI order, got %+v", pools.PointsOfInterest)
	}
	if pools.PointsOfInterest[0].City != "Paris" {
		t.Errorf("Expected POI city to default to request city, got %q", pools.PointsOfInterest[0].City)
	}
}

func TestAggregateAbsorbsProviderFailures(t *testing.T) {
	failing := &stubProvider{name: "failing", err: errors.New("connection refused")}
	panicking := &stubProvider{name: "panicking", panicOn: KindFlight}
	slow := &stubProvider{name: "slow", delay: time.Second, lodging: []search.RawResult{{Title: "Too Late"}}}
	healthy := &stubProvider{name: "healthy", pois: []search.RawResult{{Title: "Musee d'Orsay"}}}

	agg := NewAggregator(
		[]search.Provider{failing, panicking, slow, healthy},
		WithSeed(1),
		WithProviderTimeout(20*time.Millisecond),
	)
	pools := agg.Aggregate(context.Background(), parisRequest(t, "New York"))

	if len(pools.PointsOfInterest) != 1 || pools.PointsOfInterest[0].Name != "Musee d'Orsay" {
		t.Errorf("Expected the healthy provider's POI to survive, got %+v", pools.PointsOfInterest)
	}
	if len(pools.Flights) != FallbackFlightCount {
		t.Errorf("Expected %d fallback flights, got %d", FallbackFlightCount, len(pools.Flights))
	}
	if len(pools.Lodging) != FallbackLodgingCount {
		t.Errorf("Expected %d fallback lodgings, got %d", FallbackLodgingCount, len(pools.Lodging))
	}
}

func TestAggregateFallbacks(t *testing.T) {
	empty := func() []search.Provider {
		return []search.Provider{&stubProvider{name: "a"}, &stubProvider{name: "b"}}
	}

	t.Run("WithOrigin", func(t *testing.T) {
		agg := NewAggregator(empty(), WithSeed(3))
		pools := agg.Aggregate(context.Background(), parisRequest(t, "New York, USA"))

		if len(pools.Flights) != FallbackFlightCount {
			t.Fatalf("Expected %d fallback flights, got %d", FallbackFlightCount, len(pools.Flights))
		}
		carriers := lo.Uniq(lo.Map(pools.Flights, func(f Flight, _ int) string { return f.Airline }))
		if len(carriers) != FallbackFlightCount {
			t.Errorf("Expected distinct carriers, got %v", carriers)
		}
		for _, f := range pools.Flights {
			if f.Source != FallbackProvider || f.Price <= 0 {
				t.Errorf("Unexpected fallback flight %+v", f)
			}
			if f.DepartureAirport != "NEW" || f.ArrivalAirport != "PAR" {
				t.Errorf("Unexpected fallback route %s -> %s", f.DepartureAirport, f.ArrivalAirport)
			}
		}
		if len(pools.PointsOfInterest) != 0 {
			t.Errorf("Expected POIs to stay empty, got %d", len(pools.PointsOfInterest))
		}
	})

	t.Run("WithoutOrigin", func(t *testing.T) {
		providers := empty()
		agg := NewAggregator(providers, WithSeed(3))
		pools := agg.Aggregate(context.Background(), parisRequest(t, ""))

		if len(pools.Flights) != 0 {
			t.Errorf("Expected no flights without origin, got %d", len(pools.Flights))
		}
		if providers[0].(*stubProvider).flightN != 0 {
			t.Error("Expected flights not to be queried without an origin")
		}
		if len(pools.Lodging) != FallbackLodgingCount {
			t.Errorf("Expected %d fallback lodgings, got %d", FallbackLodgingCount, len(pools.Lodging))
		}
	})
}

func TestAggregateQueriesInterestCategory(t *testing.T) {
	p := &stubProvider{name: "p"}
	req := parisRequest(t, "")
	req.Preferences.Interests = []string{"museums", "food"}

	NewAggregator([]search.Provider{p}, WithSeed(1)).Aggregate(context.Background(), req)

	if len(p.poiCalls) != 2 || !lo.Contains(p.poiCalls, "attractions") || !lo.Contains(p.poiCalls, "museums") {
		t.Errorf("Expected attractions and museums to be queried, got %v", p.poiCalls)
	}
}

func TestFallbackFlightsAreConsistent(t *testing.T) {
	req := parisRequest(t, "JFK")
	for _, f := range FallbackFlights(req, rand.New(rand.NewSource(9))) {
		dep, err := time.Parse("2006-01-02 15:04", f.DepartureTime)
		if err != nil {
			t.Fatalf("Bad departure time %q: %v", f.DepartureTime, err)
		}
		arr, err := time.Parse("2006-01-02 15:04", f.ArrivalTime)
		if err != nil {
			t.Fatalf("Bad arrival time %q: %v", f.ArrivalTime, err)
		}
		if !arr.After(dep) {
			t.Errorf("Arrival %s is not after departure %s", f.ArrivalTime, f.DepartureTime)
		}
		if got := formatDuration(int(arr.Sub(dep).Minutes())); got != f.Duration {
			t.Errorf("Duration %q does not match times (%s)", f.Duration, got)
		}
		if dep.Format("2006-01-02") != "2024-06-02" {
			t.Errorf("Expected departure on start date, got %s", f.DepartureTime)
		}
	}
}

func TestAggregateConcurrentRequests(t *testing.T) {
	// Price-less results force synthesized prices, and no flights force the fallback pool.
	p := &stubProvider{
		name:    "p",
		lodging: []search.RawResult{{Title: "Hotel A"}, {Title: "Hotel B"}},
		pois:    []search.RawResult{{Title: "Louvre"}, {Title: "Orangerie"}},
	}
	agg := NewAggregator([]search.Provider{p, &stubProvider{name: "empty"}})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pools := agg.Aggregate(context.Background(), parisRequest(t, "New York"))
			if len(pools.Flights) != FallbackFlightCount {
				t.Errorf("Expected %d fallback flights, got %d", FallbackFlightCount, len(pools.Flights))
			}
			for _, l := range pools.Lodging {
				if l.PricePerNight <= 0 {
					t.Errorf("Expected a synthesized price, got %+v", l)
				}
			}
		}()
	}
	wg.Wait()
}

func TestAggregateRandomnessPerCall(t *testing.T) {
	t.Run("SeedRepeats", func(t *testing.T) {
		p := &stubProvider{name: "p", lodging: []search.RawResult{{Title: "Hotel A"}}}
		agg := NewAggregator([]search.Provider{p}, WithSeed(5))

		first := agg.Aggregate(context.Background(), parisRequest(t, "Boston"))
		second := agg.Aggregate(context.Background(), parisRequest(t, "Boston"))

		if first.Lodging[0].PricePerNight != second.Lodging[0].PricePerNight {
			t.Errorf("Expected the same synthesized price, got %v and %v",
				first.Lodging[0].PricePerNight, second.Lodging[0].PricePerNight)
		}
		for i := range first.Flights {
			if first.Flights[i].Price != second.Flights[i].Price {
				t.Errorf("Flight %d: expected the same fallback price, got %v and %v", i, first.Flights[i].Price, second.Flights[i].Price)
			}
		}
	})

	t.Run("FactoryCalledEachTime", func(t *testing.T) {
		var mu sync.Mutex
		calls := 0
		agg := NewAggregator([]search.Provider{&stubProvider{name: "p"}}, WithRandFactory(func() RandSource {
			mu.Lock()
			calls++
			mu.Unlock()
			return rand.New(rand.NewSource(1))
		}))

		for i := 0; i < 3; i++ {
			agg.Aggregate(context.Background(), parisRequest(t, ""))
		}
		if calls != 3 {
			t.Errorf("Expected one RandSource per Aggregate call, got %d", calls)
		}
	})
}
