package store

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/claude/maptrack/internal/models"
)

// TestAppendFind verifies an appended workout is found by its id, and that
// Find hands back a copy rather than the stored record.
func TestAppendFind(t *testing.T) {
	s := New()
	w := models.NewRunning(models.Coords{10, 20}, 5, 30, 150)
	s.Append(w)

	got := s.Find(w.ID)
	if got == nil {
		t.Fatal("appended workout not found")
	}
	if got == w {
		t.Error("Find returned the stored record, want a copy")
	}
	if got.ID != w.ID || got.Distance != w.Distance {
		t.Errorf("Find returned %+v, want a copy of the appended record", got)
	}
	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}
}

// TestVisit verifies the counter increments inside the store and that an
// absent id is reported.
func TestVisit(t *testing.T) {
	s := New()
	w := models.NewRunning(models.Coords{10, 20}, 5, 30, 150)
	s.Append(w)

	got, ok := s.Visit(w.ID)
	if !ok {
		t.Fatal("Visit(existing) = false, want true")
	}
	if got.Clicks != 1 {
		t.Errorf("clicks = %d, want 1", got.Clicks)
	}
	if stored := s.Find(w.ID); stored.Clicks != 1 {
		t.Errorf("stored clicks = %d, want 1", stored.Clicks)
	}

	if _, ok := s.Visit("no-such-id"); ok {
		t.Error("Visit(absent) = true, want false")
	}
}

// TestVisitConcurrentWithSnapshot exercises Visit against simultaneous All
// snapshots being marshaled, the pattern the HTTP controller produces when a
// click and a list request overlap. Run with -race.
func TestVisitConcurrentWithSnapshot(t *testing.T) {
	s := New()
	w := models.NewRunning(models.Coords{10, 20}, 5, 30, 150)
	s.Append(w)

	const iterations = 100
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			s.Visit(w.ID)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			if _, err := json.Marshal(s.All()); err != nil {
				t.Errorf("marshal snapshot: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	got, _ := s.Visit(w.ID)
	if got.Clicks != iterations+1 {
		t.Errorf("clicks = %d, want %d", got.Clicks, iterations+1)
	}
}

// TestRemove verifies removal by id, and that removing an absent id is a
// no-op leaving the length unchanged.
func TestRemove(t *testing.T) {
	s := New()
	w := models.NewRunning(models.Coords{0, 0}, 1, 1, 1)
	s.Append(w)

	if !s.Remove(w.ID) {
		t.Error("Remove(existing) = false, want true")
	}
	if s.Find(w.ID) != nil {
		t.Error("removed workout still found")
	}
	if s.Remove("no-such-id") {
		t.Error("Remove(absent) = true, want false")
	}
	if s.Len() != 0 {
		t.Errorf("len = %d, want 0", s.Len())
	}
}

// TestReplace verifies in-place substitution preserves position, and that an
// absent id is reported as ErrNotFound instead of corrupting the store.
func TestReplace(t *testing.T) {
	s := New()
	a := models.NewRunning(models.Coords{0, 0}, 1, 10, 100)
	b := models.NewRunning(models.Coords{0, 0}, 2, 10, 100)
	c := models.NewRunning(models.Coords{0, 0}, 3, 10, 100)
	s.Append(a)
	s.Append(b)
	s.Append(c)

	edited := models.NewCycling(b.Coords, 40, 60, 250)
	if err := s.Replace(b.ID, edited); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	all := s.All()
	if all[1].ID != edited.ID {
		t.Errorf("position 1 = %v, want the replacement", all[1].ID)
	}
	if len(all) != 3 {
		t.Errorf("len = %d, want 3", len(all))
	}

	if err := s.Replace("no-such-id", edited); !errors.Is(err, ErrNotFound) {
		t.Errorf("Replace(absent) = %v, want ErrNotFound", err)
	}
}

// TestClear verifies the store empties unconditionally.
func TestClear(t *testing.T) {
	s := New()
	s.Append(models.NewRunning(models.Coords{0, 0}, 1, 1, 1))
	s.Append(models.NewCycling(models.Coords{0, 0}, 1, 1, 0))
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("len after clear = %d, want 0", s.Len())
	}
}

// TestSortByDistanceRoundTrip verifies descending then ascending restores the
// ascending order, and that repeating a sort is idempotent.
func TestSortByDistanceRoundTrip(t *testing.T) {
	s := New()
	d1 := models.NewRunning(models.Coords{0, 0}, 1, 10, 100)
	d3 := models.NewRunning(models.Coords{0, 0}, 3, 10, 100)
	d2 := models.NewRunning(models.Coords{0, 0}, 2, 10, 100)
	s.Append(d1)
	s.Append(d3)
	s.Append(d2)

	s.SortBy(FieldDistance, Ascending)
	wantAsc := []string{d1.ID, d2.ID, d3.ID}
	checkOrder(t, s, wantAsc)

	s.SortBy(FieldDistance, Descending)
	checkOrder(t, s, []string{d3.ID, d2.ID, d1.ID})

	s.SortBy(FieldDistance, Ascending)
	checkOrder(t, s, wantAsc)

	// idempotent when repeated
	s.SortBy(FieldDistance, Ascending)
	checkOrder(t, s, wantAsc)
}

// TestSortByPaceSpeedFallback verifies the shared intensity axis: a cycling
// record has no pace, so its speed is compared against running paces
// directly. Running pace 6 sorts before cycling speed 20 ascending.
func TestSortByPaceSpeedFallback(t *testing.T) {
	s := New()
	cycling := models.NewCycling(models.Coords{11, 21}, 20, 60, -5) // speed 20
	running := models.NewRunning(models.Coords{10, 20}, 5, 30, 150) // pace 6
	s.Append(cycling)
	s.Append(running)

	s.SortBy(FieldPace, Ascending)
	checkOrder(t, s, []string{running.ID, cycling.ID})
}

// TestSortByMissingFieldZero verifies a record lacking the requested field
// compares as 0: cycling has no cadence, so it sorts first ascending.
func TestSortByMissingFieldZero(t *testing.T) {
	s := New()
	running := models.NewRunning(models.Coords{0, 0}, 5, 30, 150)
	cycling := models.NewCycling(models.Coords{0, 0}, 20, 60, 100)
	s.Append(running)
	s.Append(cycling)

	s.SortBy(FieldCadence, Ascending)
	checkOrder(t, s, []string{cycling.ID, running.ID})

	s.SortBy(FieldElevationGain, Descending)
	checkOrder(t, s, []string{cycling.ID, running.ID})
}

// TestParseField verifies sort field validation.
func TestParseField(t *testing.T) {
	for _, name := range []string{"distance", "duration", "pace", "cadence", "elevationGain"} {
		if _, err := ParseField(name); err != nil {
			t.Errorf("ParseField(%q) = %v, want nil", name, err)
		}
	}
	if _, err := ParseField("speed"); err == nil {
		t.Error("ParseField(speed) = nil, want error (speed is reached via the pace axis)")
	}
}

func checkOrder(t *testing.T, s *Store, wantIDs []string) {
	t.Helper()
	all := s.All()
	if len(all) != len(wantIDs) {
		t.Fatalf("len = %d, want %d", len(all), len(wantIDs))
	}
	for i, id := range wantIDs {
		if all[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, all[i].ID, id)
		}
	}
}
