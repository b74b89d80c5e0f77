package schedule

import (
	"errors"
	"sort"

	"dive/internal/geo"
)

var ErrDuplicatePlaceID = errors.New("place id already exists in itinerary")

// Place is a point of interest inside a day's visiting order.
type Place struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Address           string         `json:"address,omitempty"`
	Coordinate        geo.Coordinate `json:"coordinate"`
	Category          string         `json:"category"`
	Description       string         `json:"description,omitempty"`
	ImageURL          string         `json:"image_url,omitempty"`
	OpeningHours      string         `json:"opening_hours,omitempty"`
	Verified          bool           `json:"verified"`
	VerificationScore int            `json:"verification_score,omitempty"`
	ThemeRelevance    string         `json:"theme_relevance,omitempty"`
}

// DaySchedule is one day's ordered list of places. Sequence position is
// the visiting order and drives consecutive-leg route estimates.
type DaySchedule struct {
	Day    int     `json:"day"`
	Date   string  `json:"date,omitempty"`
	Places []Place `json:"places"`
}

// Itinerary is a multi-day plan. Days are kept sorted by day number and
// place ids are unique across the whole itinerary, not just within a day.
type Itinerary struct {
	ID    string        `json:"id,omitempty"`
	Title string        `json:"title"`
	Theme string        `json:"theme,omitempty"`
	Days  []DaySchedule `json:"days"`
}

// Every mutation below returns a new Itinerary instead of mutating the
// receiver, so callers can hold the previous version and invariants stay
// checkable. Concurrent edits of the same itinerary must be serialized
// by the caller.

func (it Itinerary) clone() Itinerary {
	out := it
	out.Days = make([]DaySchedule, len(it.Days))
	for i, d := range it.Days {
		places := make([]Place, len(d.Places))
		copy(places, d.Places)
		d.Places = places
		out.Days[i] = d
	}
	return out
}

// HasPlace reports whether any day contains a place with the given id.
func (it Itinerary) HasPlace(placeID string) bool {
	for _, d := range it.Days {
		for _, p := range d.Places {
			if p.ID == placeID {
				return true
			}
		}
	}
	return false
}

// Day returns the schedule for the given day number.
func (it Itinerary) Day(day int) (DaySchedule, bool) {
	for _, d := range it.Days {
		if d.Day == day {
			return d, true
		}
	}
	return DaySchedule{}, false
}

// AddPlace appends the place to the end of the day's sequence, creating
// the day when it does not exist yet.
func (it Itinerary) AddPlace(day int, p Place) (Itinerary, error) {
	if it.HasPlace(p.ID) {
		return it, ErrDuplicatePlaceID
	}

	out := it.clone()
	for i := range out.Days {
		if out.Days[i].Day == day {
			out.Days[i].Places = append(out.Days[i].Places, p)
			return out, nil
		}
	}

	out.Days = append(out.Days, DaySchedule{Day: day, Places: []Place{p}})
	sort.Slice(out.Days, func(i, j int) bool { return out.Days[i].Day < out.Days[j].Day })
	return out, nil
}

// RemovePlace removes the place with the given id from the day's
// sequence. Removing an id that is not present is a no-op, so the
// operation is idempotent.
func (it Itinerary) RemovePlace(day int, placeID string) Itinerary {
	out := it.clone()
	for i := range out.Days {
		if out.Days[i].Day != day {
			continue
		}
		kept := out.Days[i].Places[:0]
		for _, p := range out.Days[i].Places {
			if p.ID != placeID {
				kept = append(kept, p)
			}
		}
		out.Days[i].Places = kept
	}
	return out
}

// MovePlace removes the place from fromDay and appends it to the end of
// toDay, creating toDay if needed. When the place is not found in
// fromDay the itinerary is returned unchanged and moved is false; the
// tolerant branch is intentional and callers may rely on it.
func (it Itinerary) MovePlace(fromDay, toDay int, placeID string) (Itinerary, bool) {
	from, ok := it.Day(fromDay)
	if !ok {
		return it, false
	}

	var moving *Place
	for i := range from.Places {
		if from.Places[i].ID == placeID {
			moving = &from.Places[i]
			break
		}
	}
	if moving == nil {
		return it, false
	}

	p := *moving
	out := it.RemovePlace(fromDay, placeID)
	out, err := out.AddPlace(toDay, p)
	if err != nil {
		// Unreachable: the id was just removed.
		return it, false
	}
	return out, true
}

// ReorderPlaces replaces the day's sequence wholesale with newOrder.
// The caller supplies the complete re-permuted set; no permutation
// check is performed, so a short or duplicated newOrder is applied
// as given.
func (it Itinerary) ReorderPlaces(day int, newOrder []Place) Itinerary {
	out := it.clone()
	for i := range out.Days {
		if out.Days[i].Day == day {
			places := make([]Place, len(newOrder))
			copy(places, newOrder)
			out.Days[i].Places = places
		}
	}
	return out
}
