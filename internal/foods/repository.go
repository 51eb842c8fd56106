package foods

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Catalog resolves food items by ID so the booking core can price food lines.
type Catalog interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]FoodItem, error)
	GetAll(ctx context.Context) ([]FoodItem, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Catalog {
	return &repository{db: db}
}

func (r *repository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]FoodItem, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]FoodItem{}, nil
	}

	var items []FoodItem
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Where("available = ?", true).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query food items: %w", err)
	}

	result := make(map[uuid.UUID]FoodItem, len(items))
	for i := range items {
		result[items[i].ID] = items[i]
	}
	return result, nil
}

func (r *repository) GetAll(ctx context.Context) ([]FoodItem, error) {
	var items []FoodItem
	err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list food items: %w", err)
	}
	return items, nil
}
