package planner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dive/internal/ai"
	"dive/internal/geo"
	"dive/internal/routing"
	"dive/internal/schedule"
	"dive/internal/store"
)

type stubGenerator struct {
	days []ai.GeneratedDay
	err  error
}

func (s *stubGenerator) GenerateSchedule(ctx context.Context, theme, location, duration string) ([]ai.GeneratedDay, error) {
	return s.days, s.err
}

func (s *stubGenerator) AnalyzeTheme(ctx context.Context, theme, location string) ([]ai.RecommendedPlace, error) {
	return nil, nil
}

func (s *stubGenerator) VerifyPlace(ctx context.Context, placeName, searchContext string) (ai.Verification, error) {
	return ai.Verification{}, nil
}

type fakeItineraryStore struct {
	saved  *store.Itinerary
	nextID uuid.UUID
}

func (f *fakeItineraryStore) Create(ctx context.Context, it *store.Itinerary) error {
	it.ID = f.nextID
	f.saved = it
	return nil
}

func (f *fakeItineraryStore) GetByID(ctx context.Context, id uuid.UUID) (*store.Itinerary, error) {
	if f.saved == nil || f.saved.ID != id {
		return nil, store.ErrNotFound
	}
	return f.saved, nil
}

func (f *fakeItineraryStore) GetByUser(ctx context.Context, userID string) ([]store.Itinerary, error) {
	if f.saved == nil || f.saved.UserID != userID {
		return nil, nil
	}
	return []store.Itinerary{*f.saved}, nil
}

func newService(gen ai.Generator, st ItineraryStore) *Service {
	return NewService(gen, st, zap.NewNop().Sugar())
}

func floatPtr(f float64) *float64 { return &f }

func TestBuildNormalizesGeneration(t *testing.T) {
	raw := []ai.GeneratedDay{
		{
			Day: 1,
			Places: []ai.GeneratedPlace{
				{Name: "A", Description: "first", Lat: floatPtr(35.0), Lng: floatPtr(135.0)},
				{Name: "B", Description: "second", Lat: floatPtr(35.01), Lng: floatPtr(135.01)},
			},
		},
	}

	svc := newService(&stubGenerator{}, &fakeItineraryStore{})
	it := svc.Build(raw, "jazz bars", "Osaka")

	if len(it.Days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(it.Days))
	}
	day := it.Days[0]
	if day.Day != 1 || len(day.Places) != 2 {
		t.Fatalf("day 1 has %d places", len(day.Places))
	}
	if day.Places[0].Name != "A" || day.Places[1].Name != "B" {
		t.Fatalf("order lost: %s, %s", day.Places[0].Name, day.Places[1].Name)
	}
	if day.Places[0].ID != "place-1-0" || day.Places[1].ID != "place-1-1" {
		t.Fatalf("synthetic ids: %s, %s", day.Places[0].ID, day.Places[1].ID)
	}
	if day.Places[0].Coordinate.Lat != 35.0 {
		t.Fatalf("provided coordinate overwritten: %v", day.Places[0].Coordinate)
	}
	if day.Date == "" {
		t.Fatal("date not assigned")
	}
	if it.Theme != "jazz bars" {
		t.Fatalf("theme = %q", it.Theme)
	}
}

func TestBuildFillsMissingCoordinates(t *testing.T) {
	raw := []ai.GeneratedDay{
		{Day: 1, Places: []ai.GeneratedPlace{{Name: "No coords"}}},
	}

	svc := newService(&stubGenerator{}, &fakeItineraryStore{})
	it := svc.Build(raw, "theme", "region")

	c := it.Days[0].Places[0].Coordinate
	if !c.Valid() {
		t.Fatalf("filled coordinate out of range: %+v", c)
	}
	if math.Abs(c.Lat-defaultCenter.Lat) > coordinateJitter || math.Abs(c.Lng-defaultCenter.Lng) > coordinateJitter {
		t.Fatalf("coordinate %+v not near default center", c)
	}
}

func TestGeneratePropagatesParseFailure(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("%w: unexpected token", ai.ErrMalformedResponse)}
	svc := newService(gen, &fakeItineraryStore{})

	_, err := svc.Generate(context.Background(), "theme", "region", "2 days")
	if !errors.Is(err, ai.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestSaveAssignsOneBasedOrder(t *testing.T) {
	st := &fakeItineraryStore{nextID: uuid.New()}
	svc := newService(&stubGenerator{}, st)

	var it schedule.Itinerary
	for i, name := range []string{"A", "B", "C"} {
		next, err := it.AddPlace(1, schedule.Place{
			ID:         fmt.Sprintf("p%d", i),
			Name:       name,
			Coordinate: geo.Coordinate{Lat: 35, Lng: 135},
		})
		if err != nil {
			t.Fatalf("AddPlace: %v", err)
		}
		it = next
	}
	next, err := it.AddPlace(2, schedule.Place{ID: "p9", Name: "D", Coordinate: geo.Coordinate{Lat: 36, Lng: 136}})
	if err != nil {
		t.Fatalf("AddPlace: %v", err)
	}
	it = next
	it.Title = "test trip"

	id, err := svc.Save(context.Background(), "user-1", it)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id != st.nextID {
		t.Fatalf("returned id %s, want %s", id, st.nextID)
	}

	if len(st.saved.Items) != 4 {
		t.Fatalf("saved %d items, want 4", len(st.saved.Items))
	}
	for i, want := range []int{1, 2, 3} {
		item := st.saved.Items[i]
		if item.Day != 1 || item.Order != want {
			t.Fatalf("item %d = day %d order %d", i, item.Day, item.Order)
		}
	}
	if last := st.saved.Items[3]; last.Day != 2 || last.Order != 1 {
		t.Fatalf("day 2 item = day %d order %d", last.Day, last.Order)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := &fakeItineraryStore{nextID: uuid.New()}
	svc := newService(&stubGenerator{}, st)

	raw := []ai.GeneratedDay{
		{Day: 1, Places: []ai.GeneratedPlace{
			{Name: "A", Lat: floatPtr(35.0), Lng: floatPtr(135.0)},
			{Name: "B", Lat: floatPtr(35.01), Lng: floatPtr(135.01)},
		}},
	}
	built := svc.Build(raw, "theme", "region")

	id, err := svc.Save(context.Background(), "user-1", built)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := svc.Load(context.Background(), id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	day, ok := loaded.Day(1)
	if !ok || len(day.Places) != 2 {
		t.Fatalf("loaded day 1 has %d places", len(day.Places))
	}
	if day.Places[0].Name != "A" || day.Places[1].Name != "B" {
		t.Fatalf("order lost on round trip: %s, %s", day.Places[0].Name, day.Places[1].Name)
	}
	if day.Places[0].Coordinate.Lat != 35.0 {
		t.Fatalf("coordinate lost on round trip: %+v", day.Places[0].Coordinate)
	}
}

// Generation output through the planner and a downed routing provider
// still yields a usable consecutive-leg estimate.
func TestGenerationToFallbackEstimate(t *testing.T) {
	raw := []ai.GeneratedDay{
		{Day: 1, Places: []ai.GeneratedPlace{
			{Name: "A", Lat: floatPtr(35.0), Lng: floatPtr(135.0)},
			{Name: "B", Lat: floatPtr(35.01), Lng: floatPtr(135.01)},
		}},
	}
	svc := newService(&stubGenerator{days: raw}, &fakeItineraryStore{})

	it, err := svc.Generate(context.Background(), "theme", "region", "1 day")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	day := it.Days[0]
	resolver := routing.NewResolver(failingRouter{}, zap.NewNop().Sugar())
	est, err := resolver.Resolve(context.Background(), day.Places[0].Coordinate, day.Places[1].Coordinate)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if est.Source != routing.SourceFallback {
		t.Fatalf("source = %s", est.Source)
	}
	if est.DistanceKm <= 0 {
		t.Fatalf("expected nonzero distance, got %v", est.DistanceKm)
	}
}

type failingRouter struct{}

func (failingRouter) Route(ctx context.Context, start, end geo.Coordinate) (float64, float64, error) {
	return 0, 0, errors.New("provider unavailable")
}
