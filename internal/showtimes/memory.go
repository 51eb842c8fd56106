package showtimes

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryLookup is an in-process showtime catalog for tests and for wiring
// the booking core without a database.
type MemoryLookup struct {
	mu    sync.RWMutex
	shows map[uuid.UUID]*Showtime
}

func NewMemoryLookup() *MemoryLookup {
	return &MemoryLookup{shows: make(map[uuid.UUID]*Showtime)}
}

// Put inserts or replaces a showtime.
func (m *MemoryLookup) Put(s *Showtime) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.shows[s.ID] = &cp
}

func (m *MemoryLookup) GetShowtime(ctx context.Context, id uuid.UUID) (*Showtime, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.shows[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}
