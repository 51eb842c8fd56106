package bookings

import (
	"time"

	"cinetix/internal/pricing"
	"cinetix/internal/seats"

	"github.com/google/uuid"
)

// Bill is the committed record of one booking. Tickets and food lines are
// written in the same transaction; a bill with zero tickets never exists.
type Bill struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CustomerID  string         `json:"customer_id" gorm:"type:varchar(100);not null;index"`
	ShowtimeID  uuid.UUID      `json:"showtime_id" gorm:"type:uuid;not null;index"`
	Subtotal    pricing.Money  `json:"subtotal" gorm:"not null"`
	Discount    pricing.Money  `json:"discount" gorm:"not null;default:0"`
	Total       pricing.Money  `json:"total" gorm:"not null"`
	VoucherCode string         `json:"voucher_code,omitempty" gorm:"type:varchar(50)"`
	Gift        string         `json:"gift,omitempty" gorm:"type:varchar(255)"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Tickets     []Ticket       `json:"tickets" gorm:"foreignKey:BillID"`
	FoodLines   []FoodLineItem `json:"food_lines" gorm:"foreignKey:BillID"`
}

func (Bill) TableName() string {
	return "bills"
}

// Ticket is one sold seat. The unique index over (showtime_id, seat_row,
// seat_col) is the last line of defense against double selling.
type Ticket struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	BillID     uuid.UUID       `json:"bill_id" gorm:"type:uuid;not null;index"`
	ShowtimeID uuid.UUID       `json:"showtime_id" gorm:"type:uuid;not null;uniqueIndex:uniq_ticket_seat"`
	SeatRow    string          `json:"seat_row" gorm:"type:varchar(5);not null;uniqueIndex:uniq_ticket_seat"`
	SeatCol    int             `json:"seat_col" gorm:"not null;uniqueIndex:uniq_ticket_seat"`
	SeatType   pricing.SeatType `json:"seat_type" gorm:"type:varchar(20);not null"`
	UnitPrice  pricing.Money   `json:"unit_price" gorm:"not null"`
	ExpiresAt  time.Time       `json:"expires_at" gorm:"not null"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// Seat returns the seat reference this ticket covers.
func (t Ticket) Seat() seats.SeatRef {
	return seats.SeatRef{Row: t.SeatRow, Col: t.SeatCol}
}

// FoodLineItem is one concession line on a bill. Name and price are copied
// from the catalog at booking time so later catalog edits never change the
// bill.
type FoodLineItem struct {
	ID        uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	BillID    uuid.UUID     `json:"bill_id" gorm:"type:uuid;not null;index"`
	FoodID    uuid.UUID     `json:"food_id" gorm:"type:uuid;not null"`
	Name      string        `json:"name" gorm:"type:varchar(255);not null"`
	UnitPrice pricing.Money `json:"unit_price" gorm:"not null"`
	Quantity  int           `json:"quantity" gorm:"not null"`
	CreatedAt time.Time     `json:"created_at"`
}

func (FoodLineItem) TableName() string {
	return "food_line_items"
}

type FoodSelection struct {
	FoodID   uuid.UUID `json:"food_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1"`
}

type CreateBookingRequest struct {
	ShowtimeID  uuid.UUID       `json:"showtime_id" validate:"required"`
	Seats       []seats.SeatRef `json:"seats" validate:"required,min=1,dive"`
	Foods       []FoodSelection `json:"foods" validate:"omitempty,dive"`
	VoucherCode string          `json:"voucher_code" validate:"omitempty,max=50"`
}

type BillResponse struct {
	ID          uuid.UUID      `json:"id"`
	CustomerID  string         `json:"customer_id"`
	ShowtimeID  uuid.UUID      `json:"showtime_id"`
	Subtotal    pricing.Money  `json:"subtotal"`
	Discount    pricing.Money  `json:"discount"`
	Total       pricing.Money  `json:"total"`
	VoucherCode string         `json:"voucher_code,omitempty"`
	Gift        string         `json:"gift,omitempty"`
	Seats       []string       `json:"seats"`
	FoodLines   []FoodLineItem `json:"food_lines,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ToResponse flattens the bill for API consumers.
func (b *Bill) ToResponse() BillResponse {
	seatLabels := make([]string, 0, len(b.Tickets))
	for _, t := range b.Tickets {
		seatLabels = append(seatLabels, t.Seat().String())
	}
	return BillResponse{
		ID:          b.ID,
		CustomerID:  b.CustomerID,
		ShowtimeID:  b.ShowtimeID,
		Subtotal:    b.Subtotal,
		Discount:    b.Discount,
		Total:       b.Total,
		VoucherCode: b.VoucherCode,
		Gift:        b.Gift,
		Seats:       seatLabels,
		FoodLines:   b.FoodLines,
		CreatedAt:   b.CreatedAt,
	}
}
