package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"cinetix/internal/foods"
	"cinetix/internal/pricing"
	"cinetix/internal/seats"
	"cinetix/internal/showtimes"
	"cinetix/internal/vouchers"

	"github.com/google/uuid"
)

type fixture struct {
	service    Service
	repo       *MemoryRepository
	seatStore  *seats.MemoryStore
	vouchers   *vouchers.MemoryStore
	catalog    *foods.MemoryCatalog
	showtimeID uuid.UUID
	popcornID  uuid.UUID
}

// newFixture wires the booking service against in-memory stores with one
// published showtime: rows A and B normal, row E VIP, row G couple.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	seatStore := seats.NewMemoryStore()
	voucherStore := vouchers.NewMemoryStore()
	catalog := foods.NewMemoryCatalog()
	lookup := showtimes.NewMemoryLookup()

	showtimeID := uuid.New()
	now := time.Now()
	lookup.Put(&showtimes.Showtime{
		ID:         showtimeID,
		MovieTitle: "The Last Projection",
		RoomID:     uuid.New(),
		StartTime:  now.Add(2 * time.Hour),
		EndTime:    now.Add(4 * time.Hour),
		Status:     showtimes.StatusPublished,
	})

	var rows []seats.ShowtimeSeat
	addRow := func(row string, cols int, seatType pricing.SeatType) {
		for col := 1; col <= cols; col++ {
			rows = append(rows, seats.ShowtimeSeat{
				ShowtimeID: showtimeID,
				SeatRow:    row,
				SeatCol:    col,
				SeatType:   seatType,
				Status:     seats.StatusAvailable,
			})
		}
	}
	addRow("A", 10, pricing.SeatTypeNormal)
	addRow("B", 10, pricing.SeatTypeNormal)
	addRow("E", 10, pricing.SeatTypeVIP)
	addRow("G", 5, pricing.SeatTypeCouple)
	if err := seatStore.Materialize(context.Background(), rows); err != nil {
		t.Fatalf("failed to materialize seats: %v", err)
	}

	popcornID := uuid.New()
	catalog.Put(foods.FoodItem{ID: popcornID, Name: "Popcorn (Large)", UnitPrice: 45000, Available: true})

	repo := NewMemoryRepository(seatStore, voucherStore)
	service := NewService(repo, lookup, seatStore, catalog, vouchers.NewLedger(voucherStore))

	return &fixture{
		service:    service,
		repo:       repo,
		seatStore:  seatStore,
		vouchers:   voucherStore,
		catalog:    catalog,
		showtimeID: showtimeID,
		popcornID:  popcornID,
	}
}

func (f *fixture) addVoucher(t *testing.T, code, customerID string, percent int, cap pricing.Money) {
	t.Helper()
	promo := &vouchers.Promotional{
		ID:          uuid.New(),
		Name:        code + " promo",
		Type:        vouchers.PromotionalTypePercentage,
		Percent:     percent,
		MaxDiscount: cap,
	}
	now := time.Now()
	f.vouchers.Put(&vouchers.Voucher{
		Code:          code,
		CustomerID:    customerID,
		PromotionalID: promo.ID,
		StartDate:     now.Add(-24 * time.Hour),
		EndDate:       now.Add(24 * time.Hour),
		State:         vouchers.StateActive,
		Promotional:   promo,
	})
}

func TestCreateBookingSimple(t *testing.T) {
	f := newFixture(t)

	bill, err := f.service.CreateBooking(context.Background(), "alice", &CreateBookingRequest{
		ShowtimeID: f.showtimeID,
		Seats:      []seats.SeatRef{{Row: "A", Col: 1}, {Row: "A", Col: 2}},
	})
	if err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}

	if bill.Subtotal != 150000 || bill.Total != 150000 || bill.Discount != 0 {
		t.Errorf("unexpected amounts: subtotal=%d discount=%d total=%d", bill.Subtotal, bill.Discount, bill.Total)
	}
	if len(bill.Seats) != 2 {
		t.Errorf("expected 2 seats on bill, got %v", bill.Seats)
	}

	conflicts, err := f.seatStore.CheckAvailable(context.Background(), f.showtimeID, []seats.SeatRef{{Row: "A", Col: 1}})
	if err != nil {
		t.Fatalf("CheckAvailable returned error: %v", err)
	}
	if len(conflicts) != 1 {
		t.Error("booked seat should no longer be available")
	}
}

func TestCreateBookingWithFood(t *testing.T) {
	f := newFixture(t)

	bill, err := f.service.CreateBooking(context.Background(), "alice", &CreateBookingRequest{
		ShowtimeID: f.showtimeID,
		Seats:      []seats.SeatRef{{Row: "A", Col: 3}},
		Foods:      []FoodSelection{{FoodID: f.popcornID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}
	if want := pricing.Money(75000 + 2*45000); bill.Total != want {
		t.Errorf("total = %d, want %d", bill.Total, want)
	}
	if len(bill.FoodLines) != 1 || bill.FoodLines[0].Quantity != 2 {
		t.Errorf("unexpected food lines: %+v", bill.FoodLines)
	}
}

func TestCreateBookingSeatConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.service.CreateBooking(ctx, "alice", &CreateBookingRequest{
		ShowtimeID: f.showtimeID,
		Seats:      []seats.SeatRef{{Row: "A", Col: 1}},
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err := f.service.CreateBooking(ctx, "bob", &CreateBookingRequest{
		ShowtimeID: f.showtimeID,
		Seats:      []seats.SeatRef{{Row: "A", Col: 1}, {Row: "A", Col: 2}},
	})
	be, ok := AsBookingError(err)
	if !ok {
		t.Fatalf("expected BookingError, got %v", err)
	}
	if be.Kind != KindSeatConflict {
		t.Fatalf("kind = %s, want %s", be.Kind, KindSeatConflict)
	}
	if len(be.Seats) != 1 || be.Seats[0].String() != "A1" {
		t.Errorf("conflict should name only the taken seat, got %v", be.Seats)
	}

	// The free seat from the rejected request must remain available.
	conflicts, _ := f.seatStore.CheckAvailable(ctx, f.showtimeID, []seats.SeatRef{{Row: "A", Col: 2}})
	if len(conflicts) != 0 {
		t.Error("seat A2 should still be available after the rejected booking")
	}
}

func TestCreateBookingVoucherCapMath(t *testing.T) {
	f := newFixture(t)
	f.addVoucher(t, "SAVE10", "alice", 10, 20000)

	// VIP 85000 + couple 150000 = 235000; 10% = 23500, capped at 20000.
	bill, err := f.service.CreateBooking(context.Background(), "alice", &CreateBookingRequest{
		ShowtimeID:  f.showtimeID,
		Seats:       []seats.SeatRef{{Row: "E", Col: 1}, {Row: "G", Col: 1}},
		VoucherCode: "SAVE10",
	})
	if err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}
	if bill.Subtotal != 235000 {
		t.Errorf("subtotal = %d, want 235000", bill.Subtotal)
	}
	if bill.Discount != 20000 {
		t.Errorf("discount = %d, want 20000 (capped)", bill.Discount)
	}
	if bill.Total != 215000 {
		t.Errorf("total = %d, want 215000", bill.Total)
	}
}

func TestCreateBookingInvalidVoucherAbortsWholeBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateBooking(ctx, "alice", &CreateBookingRequest{
		ShowtimeID:  f.showtimeID,
		Seats:       []seats.SeatRef{{Row: "B", Col: 1}},
		VoucherCode: "NOPE",
	})
	be, ok := AsBookingError(err)
	if !ok {
		t.Fatalf("expected BookingError, got %v", err)
	}
	if be.Kind != KindVoucherInvalid {
		t.Fatalf("kind = %s, want %s", be.Kind, KindVoucherInvalid)
	}
	if be.VoucherReason != vouchers.ReasonNotFound {
		t.Errorf("voucher reason = %s, want %s", be.VoucherReason, vouchers.ReasonNotFound)
	}

	// A rejected voucher never silently degrades into a full-price booking.
	conflicts, _ := f.seatStore.CheckAvailable(ctx, f.showtimeID, []seats.SeatRef{{Row: "B", Col: 1}})
	if len(conflicts) != 0 {
		t.Error("seat must stay available after the aborted booking")
	}
	if _, total, _ := f.repo.BillsByCustomer(ctx, "alice", 10, 0); total != 0 {
		t.Error("no bill may exist after the aborted booking")
	}
}

func TestCreateBookingUsedVoucherRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addVoucher(t, "SPENT10", "alice", 10, 20000)
	if !f.vouchers.TryConsume("SPENT10", uuid.New()) {
		t.Fatal("failed to consume voucher during setup")
	}

	_, err := f.service.CreateBooking(ctx, "alice", &CreateBookingRequest{
		ShowtimeID:  f.showtimeID,
		Seats:       []seats.SeatRef{{Row: "B", Col: 2}},
		VoucherCode: "SPENT10",
	})
	be, ok := AsBookingError(err)
	if !ok {
		t.Fatalf("expected BookingError, got %v", err)
	}
	if be.Kind != KindVoucherInvalid {
		t.Fatalf("kind = %s, want %s", be.Kind, KindVoucherInvalid)
	}
	if be.VoucherReason != vouchers.ReasonAlreadyUsed {
		t.Errorf("voucher reason = %s, want %s", be.VoucherReason, vouchers.ReasonAlreadyUsed)
	}

	conflicts, _ := f.seatStore.CheckAvailable(ctx, f.showtimeID, []seats.SeatRef{{Row: "B", Col: 2}})
	if len(conflicts) != 0 {
		t.Error("seat must stay available after the rejected booking")
	}
	if _, total, _ := f.repo.BillsByCustomer(ctx, "alice", 10, 0); total != 0 {
		t.Error("no bill may exist after the rejected booking")
	}
}

func TestCreateBookingSeatLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.service.SetSeatLimit(2)

	_, err := f.service.CreateBooking(ctx, "alice", &CreateBookingRequest{
		ShowtimeID: f.showtimeID,
		Seats:      []seats.SeatRef{{Row: "A", Col: 4}, {Row: "A", Col: 5}, {Row: "A", Col: 6}},
	})
	if be, ok := AsBookingError(err); !ok || be.Kind != KindInvalidInput {
		t.Fatalf("expected %s for a booking over the seat limit, got %v", KindInvalidInput, err)
	}

	bill, err := f.service.CreateBooking(ctx, "alice", &CreateBookingRequest{
		ShowtimeID: f.showtimeID,
		Seats:      []seats.SeatRef{{Row: "A", Col: 4}, {Row: "A", Col: 5}},
	})
	if err != nil {
		t.Fatalf("booking at the seat limit should succeed: %v", err)
	}
	if len(bill.Seats) != 2 {
		t.Errorf("expected 2 seats on bill, got %v", bill.Seats)
	}
}

func TestCreateBookingShowtimeErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateBooking(ctx, "alice", &CreateBookingRequest{
		ShowtimeID: uuid.New(),
		Seats:      []seats.SeatRef{{Row: "A", Col: 1}},
	})
	if be, ok := AsBookingError(err); !ok || be.Kind != KindShowtimeNotFound {
		t.Errorf("expected %s, got %v", KindShowtimeNotFound, err)
	}

	lookup := showtimes.NewMemoryLookup()
	endedID := uuid.New()
	now := time.Now()
	lookup.Put(&showtimes.Showtime{
		ID:        endedID,
		RoomID:    uuid.New(),
		StartTime: now.Add(-4 * time.Hour),
		EndTime:   now.Add(-2 * time.Hour),
		Status:    showtimes.StatusPublished,
	})
	service := NewService(f.repo, lookup, f.seatStore, f.catalog, vouchers.NewLedger(f.vouchers))

	_, err = service.CreateBooking(ctx, "alice", &CreateBookingRequest{
		ShowtimeID: endedID,
		Seats:      []seats.SeatRef{{Row: "A", Col: 1}},
	})
	if be, ok := AsBookingError(err); !ok || be.Kind != KindShowtimeExpired {
		t.Errorf("expected %s, got %v", KindShowtimeExpired, err)
	}
}

func TestCreateBookingInputValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  *CreateBookingRequest
	}{
		{"no seats", &CreateBookingRequest{ShowtimeID: f.showtimeID}},
		{"duplicate seats", &CreateBookingRequest{
			ShowtimeID: f.showtimeID,
			Seats:      []seats.SeatRef{{Row: "A", Col: 1}, {Row: "A", Col: 1}},
		}},
		{"nonexistent seat", &CreateBookingRequest{
			ShowtimeID: f.showtimeID,
			Seats:      []seats.SeatRef{{Row: "Z", Col: 99}},
		}},
		{"unknown food", &CreateBookingRequest{
			ShowtimeID: f.showtimeID,
			Seats:      []seats.SeatRef{{Row: "A", Col: 1}},
			Foods:      []FoodSelection{{FoodID: uuid.New(), Quantity: 1}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.CreateBooking(ctx, "alice", tc.req)
			if be, ok := AsBookingError(err); !ok || be.Kind != KindInvalidInput {
				t.Errorf("expected %s, got %v", KindInvalidInput, err)
			}
		})
	}
}

func TestConcurrentBookingsSameSeatSellOnce(t *testing.T) {
	f := newFixture(t)
	const workers = 16

	var wg sync.WaitGroup
	results := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.service.CreateBooking(context.Background(), "customer", &CreateBookingRequest{
				ShowtimeID: f.showtimeID,
				Seats:      []seats.SeatRef{{Row: "A", Col: 5}},
			})
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		if be, ok := AsBookingError(err); ok && be.Kind == KindSeatConflict {
			conflicts++
		} else {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
	if conflicts != workers-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, workers-1)
	}
}

func TestConcurrentVoucherSingleUse(t *testing.T) {
	f := newFixture(t)
	f.addVoucher(t, "SAVE10", "customer", 10, 20000)
	const workers = 8

	var wg sync.WaitGroup
	results := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Distinct seats so only the voucher is contended.
			_, results[i] = f.service.CreateBooking(context.Background(), "customer", &CreateBookingRequest{
				ShowtimeID:  f.showtimeID,
				Seats:       []seats.SeatRef{{Row: "B", Col: i + 1}},
				VoucherCode: "SAVE10",
			})
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		if be, ok := AsBookingError(err); !ok || be.Kind != KindVoucherInvalid {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("voucher consumed by %d bookings, want exactly 1", successes)
	}

	// Seats of failed bookings must have been released.
	var sold int
	for i := 0; i < workers; i++ {
		conflicts, _ := f.seatStore.CheckAvailable(context.Background(), f.showtimeID, []seats.SeatRef{{Row: "B", Col: i + 1}})
		sold += len(conflicts)
	}
	if sold != 1 {
		t.Errorf("%d seats sold, want exactly 1 (rollback must release seats)", sold)
	}
}

func TestGetBookingOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bill, err := f.service.CreateBooking(ctx, "alice", &CreateBookingRequest{
		ShowtimeID: f.showtimeID,
		Seats:      []seats.SeatRef{{Row: "A", Col: 7}},
	})
	if err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}

	got, err := f.service.GetBooking(ctx, "alice", bill.ID)
	if err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if got.ID != bill.ID {
		t.Errorf("got bill %s, want %s", got.ID, bill.ID)
	}

	if _, err := f.service.GetBooking(ctx, "mallory", bill.ID); err != ErrBillNotFound {
		t.Errorf("foreign read = %v, want ErrBillNotFound", err)
	}
}

func TestBookingHistoryOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	refs := []seats.SeatRef{{Row: "A", Col: 1}, {Row: "A", Col: 2}, {Row: "A", Col: 3}}
	for _, ref := range refs {
		if _, err := f.service.CreateBooking(ctx, "alice", &CreateBookingRequest{
			ShowtimeID: f.showtimeID,
			Seats:      []seats.SeatRef{ref},
		}); err != nil {
			t.Fatalf("CreateBooking returned error: %v", err)
		}
		time.Sleep(time.Millisecond)
	}

	history, total, err := f.service.GetBookingHistory(ctx, "alice", 10, 0)
	if err != nil {
		t.Fatalf("GetBookingHistory returned error: %v", err)
	}
	if total != 3 || len(history) != 3 {
		t.Fatalf("total = %d, len = %d, want 3", total, len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].CreatedAt.After(history[i-1].CreatedAt) {
			t.Error("history must be ordered newest first")
		}
	}
}
