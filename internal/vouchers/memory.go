package vouchers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process voucher store. The booking transaction
// manager's in-memory backend uses it so concurrent tests can run against
// isolated instances without a database.
type MemoryStore struct {
	mu       sync.Mutex
	vouchers map[string]*Voucher
}

// NewMemoryStore creates an empty in-memory voucher store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{vouchers: make(map[string]*Voucher)}
}

// Put inserts or replaces a voucher.
func (m *MemoryStore) Put(v *Voucher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *v
	m.vouchers[v.Code] = &cp
}

func (m *MemoryStore) GetByCode(ctx context.Context, code string) (*Voucher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vouchers[code]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v
	return &cp, nil
}

// TryConsume atomically transitions a voucher from active to used and records
// the owning bill. It returns false when the voucher is missing or no longer
// active, so concurrent consumers see at most one success per code.
func (m *MemoryStore) TryConsume(code string, billID uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vouchers[code]
	if !ok || v.State != StateActive {
		return false
	}
	now := time.Now()
	v.State = StateUsed
	v.UsedAt = &now
	v.BillID = &billID
	return true
}

// Release reverts a consumption performed in a commit that later rolled back.
func (m *MemoryStore) Release(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vouchers[code]
	if !ok || v.State != StateUsed {
		return
	}
	v.State = StateActive
	v.UsedAt = nil
	v.BillID = nil
}
