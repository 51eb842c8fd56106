package foods

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryCatalog is an in-process food catalog for tests.
type MemoryCatalog struct {
	mu    sync.RWMutex
	items map[uuid.UUID]FoodItem
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{items: make(map[uuid.UUID]FoodItem)}
}

// Put inserts or replaces a food item.
func (m *MemoryCatalog) Put(item FoodItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
}

func (m *MemoryCatalog) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]FoodItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[uuid.UUID]FoodItem, len(ids))
	for _, id := range ids {
		if item, ok := m.items[id]; ok && item.Available {
			result[id] = item
		}
	}
	return result, nil
}

func (m *MemoryCatalog) GetAll(ctx context.Context) ([]FoodItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]FoodItem, 0, len(m.items))
	for _, item := range m.items {
		if item.Available {
			items = append(items, item)
		}
	}
	return items, nil
}
