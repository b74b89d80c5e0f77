package planner

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dive/internal/ai"
	"dive/internal/geo"
	"dive/internal/schedule"
	"dive/internal/store"
)

// Generation output without coordinates gets this center plus a small
// jitter so the map still shows distinct markers. Degraded on purpose;
// a missing coordinate is not a hard failure.
var defaultCenter = geo.Coordinate{Lat: 35.6762, Lng: 139.6503}

const coordinateJitter = 0.05

// ItineraryStore is the slice of persistence the planner needs.
type ItineraryStore interface {
	Create(ctx context.Context, it *store.Itinerary) error
	GetByID(ctx context.Context, id uuid.UUID) (*store.Itinerary, error)
	GetByUser(ctx context.Context, userID string) ([]store.Itinerary, error)
}

// Service builds schedules from generation output and moves them in and
// out of persistence.
type Service struct {
	generator ai.Generator
	store     ItineraryStore
	logger    *zap.SugaredLogger
}

func NewService(generator ai.Generator, store ItineraryStore, logger *zap.SugaredLogger) *Service {
	return &Service{generator: generator, store: store, logger: logger}
}

// Generate asks the generation collaborator for a schedule and
// normalizes it. Parse failures propagate; the caller decides the
// fallback experience.
func (s *Service) Generate(ctx context.Context, theme, region, duration string) (schedule.Itinerary, error) {
	rawDays, err := s.generator.GenerateSchedule(ctx, theme, region, duration)
	if err != nil {
		return schedule.Itinerary{}, err
	}
	return s.Build(rawDays, theme, region), nil
}

// Build normalizes raw generation output into a schedule. The output is
// untrusted: ids are synthesized from day and position, and missing
// coordinates are filled with a jittered default center.
func (s *Service) Build(rawDays []ai.GeneratedDay, theme, region string) schedule.Itinerary {
	it := schedule.Itinerary{
		Title: fmt.Sprintf("%s in %s", theme, region),
		Theme: theme,
	}

	for _, rawDay := range rawDays {
		for i, rawPlace := range rawDay.Places {
			place := schedule.Place{
				ID:             fmt.Sprintf("place-%d-%d", rawDay.Day, i),
				Name:           rawPlace.Name,
				Address:        region,
				Coordinate:     coordinateOrDefault(rawPlace.Lat, rawPlace.Lng),
				Category:       "sightseeing",
				Description:    rawPlace.Description,
				OpeningHours:   rawPlace.Time,
				Verified:       true,
				ThemeRelevance: fmt.Sprintf("Closely related to the %q theme.", theme),
			}

			next, err := it.AddPlace(rawDay.Day, place)
			if err != nil {
				// Duplicate day/position pair in the raw output; skip it.
				s.logger.Warnw("skipping duplicate generated place", "id", place.ID)
				continue
			}
			it = next
		}
	}

	now := time.Now()
	for i := range it.Days {
		it.Days[i].Date = now.AddDate(0, 0, it.Days[i].Day-1).Format("2006-01-02")
	}

	return it
}

func coordinateOrDefault(lat, lng *float64) geo.Coordinate {
	c := geo.Coordinate{
		Lat: defaultCenter.Lat + rand.Float64()*coordinateJitter,
		Lng: defaultCenter.Lng + rand.Float64()*coordinateJitter,
	}
	if lat != nil {
		c.Lat = *lat
	}
	if lng != nil {
		c.Lng = *lng
	}
	return c
}

// Save persists the itinerary for userID and returns the stored id.
// Item order is 1-based, assigned from sequence position.
func (s *Service) Save(ctx context.Context, userID string, it schedule.Itinerary) (uuid.UUID, error) {
	record := &store.Itinerary{
		UserID: userID,
		Title:  it.Title,
		Theme:  it.Theme,
	}

	for _, day := range it.Days {
		for i, place := range day.Places {
			lat, lng := place.Coordinate.Lat, place.Coordinate.Lng
			record.Items = append(record.Items, store.ItineraryItem{
				PlaceName: place.Name,
				Day:       day.Day,
				Order:     i + 1,
				Lat:       &lat,
				Lng:       &lng,
				Memo:      place.Description,
			})
		}
	}

	if err := s.store.Create(ctx, record); err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

// Load reads a stored itinerary back into the schedule model. Place ids
// are not persisted, so they are re-synthesized from day and position.
func (s *Service) Load(ctx context.Context, id uuid.UUID) (schedule.Itinerary, error) {
	record, err := s.store.GetByID(ctx, id)
	if err != nil {
		return schedule.Itinerary{}, err
	}

	it := schedule.Itinerary{
		ID:    record.ID.String(),
		Title: record.Title,
		Theme: record.Theme,
	}

	position := map[int]int{}
	for _, item := range record.Items {
		coord := coordinateOrDefault(item.Lat, item.Lng)
		place := schedule.Place{
			ID:          fmt.Sprintf("place-%d-%d", item.Day, position[item.Day]),
			Name:        item.PlaceName,
			Coordinate:  coord,
			Category:    "sightseeing",
			Description: item.Memo,
		}
		position[item.Day]++

		next, err := it.AddPlace(item.Day, place)
		if err != nil {
			return schedule.Itinerary{}, err
		}
		it = next
	}

	return it, nil
}

// ListForUser returns the user's stored itineraries, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]store.Itinerary, error) {
	return s.store.GetByUser(ctx, userID)
}
