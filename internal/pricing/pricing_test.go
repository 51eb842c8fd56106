package pricing

import (
	"testing"

	"github.com/google/uuid"
)

func TestPriceOf(t *testing.T) {
	cases := []struct {
		seatType SeatType
		want     Money
	}{
		{SeatTypeNormal, 75000},
		{SeatTypeVIP, 85000},
		{SeatTypeCouple, 150000},
	}
	for _, tc := range cases {
		got, err := PriceOf(tc.seatType)
		if err != nil {
			t.Fatalf("PriceOf(%s) returned error: %v", tc.seatType, err)
		}
		if got != tc.want {
			t.Errorf("PriceOf(%s) = %d, want %d", tc.seatType, got, tc.want)
		}
	}
}

func TestPriceOfUnknownType(t *testing.T) {
	if _, err := PriceOf(SeatType("recliner")); err == nil {
		t.Fatal("expected error for unknown seat type")
	}
}

func TestSubtotalSeatsOnly(t *testing.T) {
	got, err := Subtotal([]SeatType{SeatTypeNormal, SeatTypeVIP}, nil)
	if err != nil {
		t.Fatalf("Subtotal returned error: %v", err)
	}
	if want := Money(160000); got != want {
		t.Errorf("Subtotal = %d, want %d", got, want)
	}
}

func TestSubtotalWithFood(t *testing.T) {
	foods := []FoodOrder{
		{FoodID: uuid.New(), UnitPrice: 45000, Quantity: 2},
		{FoodID: uuid.New(), UnitPrice: 30000, Quantity: 1},
	}
	got, err := Subtotal([]SeatType{SeatTypeCouple}, foods)
	if err != nil {
		t.Fatalf("Subtotal returned error: %v", err)
	}
	if want := Money(150000 + 90000 + 30000); got != want {
		t.Errorf("Subtotal = %d, want %d", got, want)
	}
}

func TestSubtotalRejectsBadQuantity(t *testing.T) {
	foods := []FoodOrder{{FoodID: uuid.New(), UnitPrice: 45000, Quantity: 0}}
	if _, err := Subtotal(nil, foods); err == nil {
		t.Fatal("expected error for zero quantity")
	}
}

func TestSubtotalRejectsNegativePrice(t *testing.T) {
	foods := []FoodOrder{{FoodID: uuid.New(), UnitPrice: -1, Quantity: 1}}
	if _, err := Subtotal(nil, foods); err == nil {
		t.Fatal("expected error for negative unit price")
	}
}
