package seats

import (
	"context"
	"fmt"
	"time"

	"cinetix/internal/pricing"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the gorm-backed seat availability store. Besides the Store
// reads it exposes Reserve, the transaction-scoped write the booking
// repository calls inside its atomic commit.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// refTuples converts seat refs into (row, col) tuples for IN clauses.
func refTuples(refs []SeatRef) [][]interface{} {
	tuples := make([][]interface{}, 0, len(refs))
	for _, ref := range refs {
		tuples = append(tuples, []interface{}{ref.Row, ref.Col})
	}
	return tuples
}

func (r *Repository) CheckAvailable(ctx context.Context, showtimeID uuid.UUID, refs []SeatRef) ([]SeatRef, error) {
	var taken []ShowtimeSeat
	err := r.db.WithContext(ctx).
		Where("showtime_id = ?", showtimeID).
		Where("(seat_row, seat_col) IN ?", refTuples(refs)).
		Where("status <> ?", StatusAvailable).
		Find(&taken).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check seat availability: %w", err)
	}

	conflicts := make([]SeatRef, 0, len(taken))
	for i := range taken {
		conflicts = append(conflicts, taken[i].Ref())
	}
	return conflicts, nil
}

func (r *Repository) SeatTypes(ctx context.Context, showtimeID uuid.UUID, refs []SeatRef) (map[SeatRef]pricing.SeatType, error) {
	var rows []ShowtimeSeat
	err := r.db.WithContext(ctx).
		Where("showtime_id = ?", showtimeID).
		Where("(seat_row, seat_col) IN ?", refTuples(refs)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve seat types: %w", err)
	}

	types := make(map[SeatRef]pricing.SeatType, len(rows))
	for i := range rows {
		types[rows[i].Ref()] = rows[i].SeatType
	}
	return types, nil
}

func (r *Repository) SeatMap(ctx context.Context, showtimeID uuid.UUID) ([]ShowtimeSeat, error) {
	var rows []ShowtimeSeat
	err := r.db.WithContext(ctx).
		Where("showtime_id = ?", showtimeID).
		Order("seat_row ASC, seat_col ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load seat map: %w", err)
	}
	return rows, nil
}

func (r *Repository) Materialize(ctx context.Context, rows []ShowtimeSeat) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to materialize showtime seats: %w", err)
	}
	return nil
}

// Reserve marks the given seats SOLD for the showtime as part of an already
// open transaction. It locks the seat rows FOR UPDATE, so two transactions
// reserving overlapping seats serialize on the rows; the loser observes them
// SOLD and gets the conflicting refs back. All-or-nothing: if any requested
// seat is missing or no longer free, no seat is reserved.
func (r *Repository) Reserve(tx *gorm.DB, showtimeID uuid.UUID, refs []SeatRef) ([]SeatRef, error) {
	var rows []ShowtimeSeat
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("showtime_id = ?", showtimeID).
		Where("(seat_row, seat_col) IN ?", refTuples(refs)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock seat rows: %w", err)
	}

	locked := make(map[SeatRef]*ShowtimeSeat, len(rows))
	for i := range rows {
		locked[rows[i].Ref()] = &rows[i]
	}

	var conflicts []SeatRef
	for _, ref := range refs {
		row, ok := locked[ref]
		if !ok || row.Status != StatusAvailable {
			conflicts = append(conflicts, ref)
		}
	}
	if len(conflicts) > 0 {
		return conflicts, nil
	}

	res := tx.Model(&ShowtimeSeat{}).
		Where("showtime_id = ?", showtimeID).
		Where("(seat_row, seat_col) IN ?", refTuples(refs)).
		Where("status = ?", StatusAvailable).
		Updates(map[string]interface{}{
			"status":     StatusSold,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to reserve seats: %w", res.Error)
	}
	if res.RowsAffected != int64(len(refs)) {
		// Should not happen under the row locks above; treat as a conflict
		// rather than committing a partial reservation.
		return refs, nil
	}

	return nil, nil
}
