package seats

import (
	"context"
	"sync"

	"cinetix/internal/pricing"

	"github.com/google/uuid"
)

type seatState struct {
	seatType pricing.SeatType
	sold     bool
}

type showtimeState struct {
	mu    sync.Mutex
	seats map[SeatRef]*seatState
}

// MemoryStore is an in-process seat availability store with a per-showtime
// mutex, so bookings on different showtimes never serialize on each other.
// It backs the in-memory booking repository used by concurrent tests.
type MemoryStore struct {
	mu    sync.Mutex
	shows map[uuid.UUID]*showtimeState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{shows: make(map[uuid.UUID]*showtimeState)}
}

func (m *MemoryStore) showtime(id uuid.UUID) *showtimeState {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.shows[id]
	if !ok {
		st = &showtimeState{seats: make(map[SeatRef]*seatState)}
		m.shows[id] = st
	}
	return st
}

// LockShowtime takes the showtime's mutex and returns the unlock function.
// The in-memory booking commit holds it across its check-and-reserve window.
func (m *MemoryStore) LockShowtime(id uuid.UUID) func() {
	st := m.showtime(id)
	st.mu.Lock()
	return st.mu.Unlock
}

func (m *MemoryStore) CheckAvailable(ctx context.Context, showtimeID uuid.UUID, refs []SeatRef) ([]SeatRef, error) {
	st := m.showtime(showtimeID)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.conflicts(refs), nil
}

func (m *MemoryStore) SeatTypes(ctx context.Context, showtimeID uuid.UUID, refs []SeatRef) (map[SeatRef]pricing.SeatType, error) {
	st := m.showtime(showtimeID)
	st.mu.Lock()
	defer st.mu.Unlock()

	types := make(map[SeatRef]pricing.SeatType, len(refs))
	for _, ref := range refs {
		if seat, ok := st.seats[ref]; ok {
			types[ref] = seat.seatType
		}
	}
	return types, nil
}

func (m *MemoryStore) SeatMap(ctx context.Context, showtimeID uuid.UUID) ([]ShowtimeSeat, error) {
	st := m.showtime(showtimeID)
	st.mu.Lock()
	defer st.mu.Unlock()

	rows := make([]ShowtimeSeat, 0, len(st.seats))
	for ref, seat := range st.seats {
		status := StatusAvailable
		if seat.sold {
			status = StatusSold
		}
		rows = append(rows, ShowtimeSeat{
			ShowtimeID: showtimeID,
			SeatRow:    ref.Row,
			SeatCol:    ref.Col,
			SeatType:   seat.seatType,
			Status:     status,
		})
	}
	return rows, nil
}

func (m *MemoryStore) Materialize(ctx context.Context, rows []ShowtimeSeat) error {
	for i := range rows {
		st := m.showtime(rows[i].ShowtimeID)
		st.mu.Lock()
		st.seats[rows[i].Ref()] = &seatState{seatType: rows[i].SeatType, sold: rows[i].Status == StatusSold}
		st.mu.Unlock()
	}
	return nil
}

// ReserveLocked marks refs sold. The caller must hold the showtime lock
// (LockShowtime); conflicts leave every seat untouched.
func (m *MemoryStore) ReserveLocked(showtimeID uuid.UUID, refs []SeatRef) []SeatRef {
	st := m.showtime(showtimeID)
	if conflicts := st.conflicts(refs); len(conflicts) > 0 {
		return conflicts
	}
	for _, ref := range refs {
		st.seats[ref].sold = true
	}
	return nil
}

// ReleaseLocked reverts a reservation during rollback. Caller holds the
// showtime lock.
func (m *MemoryStore) ReleaseLocked(showtimeID uuid.UUID, refs []SeatRef) {
	st := m.showtime(showtimeID)
	for _, ref := range refs {
		if seat, ok := st.seats[ref]; ok {
			seat.sold = false
		}
	}
}

// conflicts reports refs that are missing or already sold. Caller holds the
// showtime lock.
func (st *showtimeState) conflicts(refs []SeatRef) []SeatRef {
	var conflicts []SeatRef
	for _, ref := range refs {
		seat, ok := st.seats[ref]
		if !ok || seat.sold {
			conflicts = append(conflicts, ref)
		}
	}
	return conflicts
}
