package seats

import (
	"context"
	"sync"
	"testing"

	"cinetix/internal/pricing"

	"github.com/google/uuid"
)

func seededStore(t *testing.T, showtimeID uuid.UUID) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	rows := []ShowtimeSeat{
		{ShowtimeID: showtimeID, SeatRow: "A", SeatCol: 1, SeatType: pricing.SeatTypeNormal, Status: StatusAvailable},
		{ShowtimeID: showtimeID, SeatRow: "A", SeatCol: 2, SeatType: pricing.SeatTypeNormal, Status: StatusAvailable},
		{ShowtimeID: showtimeID, SeatRow: "E", SeatCol: 1, SeatType: pricing.SeatTypeVIP, Status: StatusSold},
	}
	if err := store.Materialize(context.Background(), rows); err != nil {
		t.Fatalf("Materialize returned error: %v", err)
	}
	return store
}

func TestCheckAvailableReportsSoldAndMissing(t *testing.T) {
	showtimeID := uuid.New()
	store := seededStore(t, showtimeID)

	conflicts, err := store.CheckAvailable(context.Background(), showtimeID, []SeatRef{
		{Row: "A", Col: 1},
		{Row: "E", Col: 1},
		{Row: "Z", Col: 9},
	})
	if err != nil {
		t.Fatalf("CheckAvailable returned error: %v", err)
	}
	if len(conflicts) != 2 {
		t.Fatalf("conflicts = %v, want the sold seat and the missing seat", conflicts)
	}
}

func TestReserveLockedAllOrNothing(t *testing.T) {
	showtimeID := uuid.New()
	store := seededStore(t, showtimeID)

	unlock := store.LockShowtime(showtimeID)
	conflicts := store.ReserveLocked(showtimeID, []SeatRef{{Row: "A", Col: 1}, {Row: "E", Col: 1}})
	unlock()

	if len(conflicts) != 1 || conflicts[0].String() != "E1" {
		t.Fatalf("conflicts = %v, want [E1]", conflicts)
	}

	// The free seat in the failed reservation must not have flipped.
	left, _ := store.CheckAvailable(context.Background(), showtimeID, []SeatRef{{Row: "A", Col: 1}})
	if len(left) != 0 {
		t.Error("seat A1 must stay available after a failed reservation")
	}
}

func TestReserveLockedConcurrent(t *testing.T) {
	showtimeID := uuid.New()
	store := seededStore(t, showtimeID)
	const workers = 12

	var wg sync.WaitGroup
	wins := make([]bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			unlock := store.LockShowtime(showtimeID)
			defer unlock()
			wins[i] = len(store.ReserveLocked(showtimeID, []SeatRef{{Row: "A", Col: 2}})) == 0
		}(i)
	}
	wg.Wait()

	var count int
	for _, won := range wins {
		if won {
			count++
		}
	}
	if count != 1 {
		t.Errorf("%d reservations succeeded, want exactly 1", count)
	}
}

func TestSeatTypesSkipsUnknownRefs(t *testing.T) {
	showtimeID := uuid.New()
	store := seededStore(t, showtimeID)

	types, err := store.SeatTypes(context.Background(), showtimeID, []SeatRef{
		{Row: "A", Col: 1},
		{Row: "Z", Col: 9},
	})
	if err != nil {
		t.Fatalf("SeatTypes returned error: %v", err)
	}
	if len(types) != 1 {
		t.Fatalf("types = %v, want only the existing seat", types)
	}
	if types[SeatRef{Row: "A", Col: 1}] != pricing.SeatTypeNormal {
		t.Errorf("unexpected seat type: %v", types)
	}
}
