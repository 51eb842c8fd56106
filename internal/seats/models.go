package seats

import (
	"fmt"
	"time"

	"cinetix/internal/pricing"

	"github.com/google/uuid"
)

// SeatRef identifies one seat inside a room by its row label and column.
type SeatRef struct {
	Row string `json:"row" binding:"required"`
	Col int    `json:"col" binding:"required,min=1"`
}

func (r SeatRef) String() string {
	return fmt.Sprintf("%s%d", r.Row, r.Col)
}

// Seat status values. Occupancy is always relative to a showtime; the same
// physical seat has one ShowtimeSeat row per showtime.
const (
	StatusAvailable = "AVAILABLE"
	StatusSold      = "SOLD"
	StatusHeld      = "HELD"
)

// ShowtimeSeat is the materialized occupancy state of one seat for one
// showtime. The unique index on (showtime_id, seat_row, seat_col) is the
// database-level guard behind the no-double-sell invariant.
type ShowtimeSeat struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ShowtimeID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uniq_showtime_seat,priority:1" json:"showtime_id"`
	SeatRow    string           `gorm:"size:5;not null;uniqueIndex:uniq_showtime_seat,priority:2" json:"seat_row"`
	SeatCol    int              `gorm:"not null;uniqueIndex:uniq_showtime_seat,priority:3" json:"seat_col"`
	SeatType   pricing.SeatType `gorm:"type:varchar(10);not null" json:"seat_type"`
	Status     string           `gorm:"type:varchar(15);not null;default:'AVAILABLE';check:status IN ('AVAILABLE', 'SOLD')" json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func (ShowtimeSeat) TableName() string {
	return "showtime_seats"
}

// Ref returns the seat's (row, col) reference.
func (s *ShowtimeSeat) Ref() SeatRef {
	return SeatRef{Row: s.SeatRow, Col: s.SeatCol}
}

// SeatMapEntry is one seat in the availability view returned to clients.
// Status reflects both committed reservations and advisory Redis holds.
type SeatMapEntry struct {
	Row      string           `json:"row"`
	Col      int              `json:"col"`
	SeatType pricing.SeatType `json:"seat_type"`
	Price    pricing.Money    `json:"price"`
	Status   string           `json:"status"`
}

// HoldRequest asks for a short-lived advisory hold on seats while the
// customer completes checkout.
type HoldRequest struct {
	ShowtimeID string    `json:"showtime_id" binding:"required,uuid"`
	Seats      []SeatRef `json:"seats" binding:"required,min=1,dive"`
}

// HoldResponse describes a granted hold.
type HoldResponse struct {
	HoldID     string    `json:"hold_id"`
	ShowtimeID string    `json:"showtime_id"`
	Seats      []SeatRef `json:"seats"`
	ExpiresAt  time.Time `json:"expires_at"`
	TTLSeconds int       `json:"ttl_seconds"`
}
