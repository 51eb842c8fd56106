package pricing

import (
	"fmt"

	"github.com/google/uuid"
)

// Money is an amount in whole currency units. Ticket and food prices in this
// domain have no fractional subunits.
type Money int64

// SeatType determines the unit price of a seat.
type SeatType string

const (
	SeatTypeNormal SeatType = "normal"
	SeatTypeVIP    SeatType = "vip"
	SeatTypeCouple SeatType = "couple"
)

// Fixed price table. Seat prices are configured per deployment in a real
// cinema chain; these match the seeded rooms.
var seatPrices = map[SeatType]Money{
	SeatTypeNormal: 75000,
	SeatTypeVIP:    85000,
	SeatTypeCouple: 150000,
}

// IsValid checks if the seat type is one of the known types
func (t SeatType) IsValid() bool {
	_, ok := seatPrices[t]
	return ok
}

func (t SeatType) String() string {
	return string(t)
}

// FoodOrder is one food line in a proposed order.
type FoodOrder struct {
	FoodID    uuid.UUID
	UnitPrice Money
	Quantity  int
}

// PriceOf returns the unit price for a seat type.
func PriceOf(t SeatType) (Money, error) {
	price, ok := seatPrices[t]
	if !ok {
		return 0, fmt.Errorf("unknown seat type: %q", t)
	}
	return price, nil
}

// Subtotal sums seat prices and food line totals for a proposed order.
// Pure computation, no side effects. An unknown seat type or a quantity
// below one is an input error, not a pricing outcome.
func Subtotal(seatTypes []SeatType, foods []FoodOrder) (Money, error) {
	var total Money

	for _, t := range seatTypes {
		price, err := PriceOf(t)
		if err != nil {
			return 0, err
		}
		total += price
	}

	for _, f := range foods {
		if f.Quantity < 1 {
			return 0, fmt.Errorf("invalid quantity %d for food %s", f.Quantity, f.FoodID)
		}
		if f.UnitPrice < 0 {
			return 0, fmt.Errorf("negative unit price for food %s", f.FoodID)
		}
		total += f.UnitPrice * Money(f.Quantity)
	}

	return total, nil
}
