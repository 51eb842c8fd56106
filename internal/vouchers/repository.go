package vouchers

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed voucher store.
func NewRepository(db *gorm.DB) Store {
	return &repository{db: db}
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Voucher, error) {
	var voucher Voucher
	err := r.db.WithContext(ctx).
		Preload("Promotional").
		Where("code = ?", code).
		First(&voucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query voucher: %w", err)
	}
	return &voucher, nil
}
