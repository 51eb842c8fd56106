package bookings

import (
	"context"
	"sort"
	"sync"
	"time"

	"cinetix/internal/seats"
	"cinetix/internal/vouchers"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process booking store backed by the in-memory
// seat and voucher stores. It mirrors the transactional guarantees of the
// database repository so concurrent tests can run without Postgres.
type MemoryRepository struct {
	seats    *seats.MemoryStore
	vouchers *vouchers.MemoryStore

	mu    sync.Mutex
	bills map[uuid.UUID]*Bill
}

func NewMemoryRepository(seatStore *seats.MemoryStore, voucherStore *vouchers.MemoryStore) *MemoryRepository {
	return &MemoryRepository{
		seats:    seatStore,
		vouchers: voucherStore,
		bills:    make(map[uuid.UUID]*Bill),
	}
}

// CommitBooking flips the seats and consumes the voucher under the showtime
// lock. If the voucher consumption fails after the seats flipped, the seats
// are released again so the commit stays all-or-nothing.
func (m *MemoryRepository) CommitBooking(ctx context.Context, bill *Bill) error {
	if err := ctx.Err(); err != nil {
		return translateStorageError(err)
	}

	refs := make([]seats.SeatRef, 0, len(bill.Tickets))
	for _, t := range bill.Tickets {
		refs = append(refs, t.Seat())
	}

	unlock := m.seats.LockShowtime(bill.ShowtimeID)
	defer unlock()

	if conflicts := m.seats.ReserveLocked(bill.ShowtimeID, refs); len(conflicts) > 0 {
		return newSeatConflict(conflicts)
	}

	bill.ID = uuid.New()
	if bill.VoucherCode != "" {
		if !m.vouchers.TryConsume(bill.VoucherCode, bill.ID) {
			m.seats.ReleaseLocked(bill.ShowtimeID, refs)
			return newVoucherInvalid(vouchers.ReasonAlreadyUsed)
		}
	}

	now := time.Now()
	bill.CreatedAt = now
	bill.UpdatedAt = now
	for i := range bill.Tickets {
		bill.Tickets[i].ID = uuid.New()
		bill.Tickets[i].BillID = bill.ID
		bill.Tickets[i].CreatedAt = now
	}
	for i := range bill.FoodLines {
		bill.FoodLines[i].ID = uuid.New()
		bill.FoodLines[i].BillID = bill.ID
		bill.FoodLines[i].CreatedAt = now
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.bills[bill.ID] = copyBill(bill)
	return nil
}

func (m *MemoryRepository) GetBillByID(ctx context.Context, id uuid.UUID) (*Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bill, ok := m.bills[id]
	if !ok {
		return nil, ErrBillNotFound
	}
	return copyBill(bill), nil
}

func (m *MemoryRepository) BillsByCustomer(ctx context.Context, customerID string, limit, offset int) ([]Bill, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*Bill
	for _, bill := range m.bills {
		if bill.CustomerID == customerID {
			matched = append(matched, bill)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	out := make([]Bill, 0, len(matched))
	for _, bill := range matched {
		out = append(out, *copyBill(bill))
	}
	return out, total, nil
}

func copyBill(b *Bill) *Bill {
	cp := *b
	cp.Tickets = append([]Ticket(nil), b.Tickets...)
	cp.FoodLines = append([]FoodLineItem(nil), b.FoodLines...)
	return &cp
}
