package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinetix/internal/seats"
	"cinetix/internal/vouchers"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrBillNotFound = errors.New("bill not found")

// Repository commits bookings atomically and reads them back. CommitBooking
// must either persist the full bill (tickets, food lines, voucher
// consumption) or leave no trace.
type Repository interface {
	CommitBooking(ctx context.Context, bill *Bill) error
	GetBillByID(ctx context.Context, id uuid.UUID) (*Bill, error)
	BillsByCustomer(ctx context.Context, customerID string, limit, offset int) ([]Bill, int64, error)
}

type repository struct {
	db       *gorm.DB
	seatRepo *seats.Repository
}

func NewRepository(db *gorm.DB, seatRepo *seats.Repository) Repository {
	return &repository{db: db, seatRepo: seatRepo}
}

// CommitBooking runs the whole booking as one database transaction: lock and
// flip the showtime seats, insert the bill with its tickets and food lines,
// then consume the voucher with a guarded update. Any failure rolls the
// entire transaction back.
func (r *repository) CommitBooking(ctx context.Context, bill *Bill) error {
	refs := make([]seats.SeatRef, 0, len(bill.Tickets))
	for _, t := range bill.Tickets {
		refs = append(refs, t.Seat())
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conflicts, err := r.seatRepo.Reserve(tx, bill.ShowtimeID, refs)
		if err != nil {
			return fmt.Errorf("failed to reserve seats: %w", err)
		}
		if len(conflicts) > 0 {
			return newSeatConflict(conflicts)
		}

		if err := tx.Create(bill).Error; err != nil {
			return fmt.Errorf("failed to create bill: %w", err)
		}

		if bill.VoucherCode != "" {
			res := tx.Model(&vouchers.Voucher{}).
				Where("code = ? AND state = ?", bill.VoucherCode, vouchers.StateActive).
				Updates(map[string]interface{}{
					"state":   vouchers.StateUsed,
					"used_at": time.Now(),
					"bill_id": bill.ID,
				})
			if res.Error != nil {
				return fmt.Errorf("failed to consume voucher: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return newVoucherInvalid(vouchers.ReasonAlreadyUsed)
			}
		}

		return nil
	})
	if err != nil {
		if be, ok := AsBookingError(err); ok {
			return be
		}
		return translateStorageError(err)
	}
	return nil
}

func (r *repository) GetBillByID(ctx context.Context, id uuid.UUID) (*Bill, error) {
	var bill Bill
	err := r.db.WithContext(ctx).
		Preload("Tickets").
		Preload("FoodLines").
		Where("id = ?", id).
		First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return &bill, nil
}

func (r *repository) BillsByCustomer(ctx context.Context, customerID string, limit, offset int) ([]Bill, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&Bill{}).Where("customer_id = ?", customerID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bills: %w", err)
	}

	var bills []Bill
	err := r.db.WithContext(ctx).
		Preload("Tickets").
		Preload("FoodLines").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&bills).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, total, nil
}
