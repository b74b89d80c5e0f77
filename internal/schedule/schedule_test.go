package schedule

import (
	"errors"
	"reflect"
	"testing"

	"dive/internal/geo"
)

func place(id, name string) Place {
	return Place{ID: id, Name: name, Coordinate: geo.Coordinate{Lat: 35, Lng: 135}}
}

func mustAdd(t *testing.T, it Itinerary, day int, p Place) Itinerary {
	t.Helper()
	next, err := it.AddPlace(day, p)
	if err != nil {
		t.Fatalf("AddPlace(%d, %s): %v", day, p.ID, err)
	}
	return next
}

func dayIDs(t *testing.T, it Itinerary, day int) []string {
	t.Helper()
	d, ok := it.Day(day)
	if !ok {
		t.Fatalf("day %d not found", day)
	}
	ids := make([]string, len(d.Places))
	for i, p := range d.Places {
		ids[i] = p.ID
	}
	return ids
}

func TestAddPlaceCreatesDayAndAppends(t *testing.T) {
	var it Itinerary
	it = mustAdd(t, it, 1, place("p1", "A"))
	it = mustAdd(t, it, 1, place("p2", "B"))
	it = mustAdd(t, it, 3, place("p3", "C"))

	if got := dayIDs(t, it, 1); !reflect.DeepEqual(got, []string{"p1", "p2"}) {
		t.Fatalf("day 1 order = %v", got)
	}
	if got := dayIDs(t, it, 3); !reflect.DeepEqual(got, []string{"p3"}) {
		t.Fatalf("day 3 order = %v", got)
	}
	if len(it.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(it.Days))
	}
}

func TestAddPlaceDuplicateIDAcrossDays(t *testing.T) {
	var it Itinerary
	it = mustAdd(t, it, 1, place("p1", "A"))

	before := it
	_, err := it.AddPlace(2, place("p1", "A again"))
	if !errors.Is(err, ErrDuplicatePlaceID) {
		t.Fatalf("expected ErrDuplicatePlaceID, got %v", err)
	}
	if !reflect.DeepEqual(before, it) {
		t.Fatal("itinerary changed on failed add")
	}
}

func TestRemovePlaceIdempotent(t *testing.T) {
	var it Itinerary
	it = mustAdd(t, it, 1, place("p1", "A"))
	it = mustAdd(t, it, 1, place("p2", "B"))

	once := it.RemovePlace(1, "p1")
	twice := once.RemovePlace(1, "p1")

	if !reflect.DeepEqual(once, twice) {
		t.Fatal("removing twice differs from removing once")
	}
	if got := dayIDs(t, twice, 1); !reflect.DeepEqual(got, []string{"p2"}) {
		t.Fatalf("day 1 = %v", got)
	}
}

func TestMovePlaceRoundTrip(t *testing.T) {
	var it Itinerary
	it = mustAdd(t, it, 1, place("p1", "A"))
	it = mustAdd(t, it, 1, place("p2", "B"))
	it = mustAdd(t, it, 2, place("p3", "C"))

	moved, ok := it.MovePlace(1, 2, "p1")
	if !ok {
		t.Fatal("expected move to happen")
	}
	if got := dayIDs(t, moved, 2); !reflect.DeepEqual(got, []string{"p3", "p1"}) {
		t.Fatalf("day 2 after move = %v", got)
	}

	back, ok := moved.MovePlace(2, 1, "p1")
	if !ok {
		t.Fatal("expected move back to happen")
	}
	// Round trip restores membership, with the place at the end of day 1.
	if got := dayIDs(t, back, 1); !reflect.DeepEqual(got, []string{"p2", "p1"}) {
		t.Fatalf("day 1 after round trip = %v", got)
	}
}

func TestMovePlaceMissingSourceIsNoOp(t *testing.T) {
	var it Itinerary
	it = mustAdd(t, it, 1, place("p1", "A"))

	out, ok := it.MovePlace(1, 2, "nope")
	if ok {
		t.Fatal("expected no move")
	}
	if !reflect.DeepEqual(out, it) {
		t.Fatal("no-op move changed the itinerary")
	}

	out, ok = it.MovePlace(9, 1, "p1")
	if ok || !reflect.DeepEqual(out, it) {
		t.Fatal("move from missing day should be a no-op")
	}
}

func TestMovePlaceCreatesTargetDay(t *testing.T) {
	var it Itinerary
	it = mustAdd(t, it, 1, place("p1", "A"))

	out, ok := it.MovePlace(1, 5, "p1")
	if !ok {
		t.Fatal("expected move to happen")
	}
	if got := dayIDs(t, out, 5); !reflect.DeepEqual(got, []string{"p1"}) {
		t.Fatalf("day 5 = %v", got)
	}
}

// Reorder replaces the sequence wholesale without checking it is a
// permutation of the original; a short list silently drops places.
// Pinned on purpose; tightening this is a deliberate behavior change.
func TestReorderPlacesPermissive(t *testing.T) {
	var it Itinerary
	p1, p2, p3 := place("p1", "A"), place("p2", "B"), place("p3", "C")
	it = mustAdd(t, it, 1, p1)
	it = mustAdd(t, it, 1, p2)
	it = mustAdd(t, it, 1, p3)

	reordered := it.ReorderPlaces(1, []Place{p3, p1, p2})
	if got := dayIDs(t, reordered, 1); !reflect.DeepEqual(got, []string{"p3", "p1", "p2"}) {
		t.Fatalf("reordered day 1 = %v", got)
	}

	dropped := it.ReorderPlaces(1, []Place{p2})
	if got := dayIDs(t, dropped, 1); !reflect.DeepEqual(got, []string{"p2"}) {
		t.Fatalf("short reorder day 1 = %v", got)
	}
}

func TestMutationsDoNotAliasOriginal(t *testing.T) {
	var it Itinerary
	it = mustAdd(t, it, 1, place("p1", "A"))

	next := mustAdd(t, it, 1, place("p2", "B"))
	next.Days[0].Places[0].Name = "mutated"

	if d, _ := it.Day(1); d.Places[0].Name != "A" {
		t.Fatal("mutation leaked into the original itinerary")
	}
}
