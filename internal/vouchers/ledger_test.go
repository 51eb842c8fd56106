package vouchers

import (
	"context"
	"testing"
	"time"

	"cinetix/internal/pricing"

	"github.com/google/uuid"
)

func testVoucher(code, customerID string, promo *Promotional) *Voucher {
	now := time.Now()
	return &Voucher{
		Code:          code,
		CustomerID:    customerID,
		PromotionalID: promo.ID,
		StartDate:     now.Add(-24 * time.Hour),
		EndDate:       now.Add(24 * time.Hour),
		State:         StateActive,
		Promotional:   promo,
	}
}

func percentPromo(percent int, cap pricing.Money) *Promotional {
	return &Promotional{
		ID:          uuid.New(),
		Name:        "test promo",
		Type:        PromotionalTypePercentage,
		Percent:     percent,
		MaxDiscount: cap,
	}
}

func TestValidateAcceptsActiveVoucher(t *testing.T) {
	store := NewMemoryStore()
	promo := percentPromo(10, 20000)
	store.Put(testVoucher("SAVE10", "alice", promo))

	ledger := NewLedger(store)
	spec, err := ledger.Validate(context.Background(), "SAVE10", "alice", time.Now())
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if spec.Percent != 10 || spec.MaxDiscount != 20000 {
		t.Errorf("unexpected spec: %+v", spec)
	}
}

func TestValidateRejectionReasons(t *testing.T) {
	now := time.Now()
	promo := percentPromo(10, 20000)

	used := testVoucher("USED1", "alice", promo)
	used.State = StateUsed

	early := testVoucher("EARLY", "alice", promo)
	early.StartDate = now.Add(24 * time.Hour)
	early.EndDate = now.Add(48 * time.Hour)

	lapsed := testVoucher("LAPSED", "alice", promo)
	lapsed.StartDate = now.Add(-48 * time.Hour)
	lapsed.EndDate = now.Add(-24 * time.Hour)

	store := NewMemoryStore()
	store.Put(testVoucher("SAVE10", "alice", promo))
	store.Put(used)
	store.Put(early)
	store.Put(lapsed)

	ledger := NewLedger(store)

	cases := []struct {
		name       string
		code       string
		customerID string
		want       Reason
	}{
		{"missing code", "NOPE", "alice", ReasonNotFound},
		{"wrong owner", "SAVE10", "bob", ReasonNotOwner},
		{"already used", "USED1", "alice", ReasonAlreadyUsed},
		{"not yet active", "EARLY", "alice", ReasonNotYetActive},
		{"window lapsed", "LAPSED", "alice", ReasonExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.Validate(context.Background(), tc.code, tc.customerID, now)
			ve, ok := AsValidationError(err)
			if !ok {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Reason != tc.want {
				t.Errorf("reason = %s, want %s", ve.Reason, tc.want)
			}
		})
	}
}

func TestValidateOwnershipCheckedBeforeState(t *testing.T) {
	promo := percentPromo(10, 20000)
	used := testVoucher("USED1", "alice", promo)
	used.State = StateUsed

	store := NewMemoryStore()
	store.Put(used)

	ledger := NewLedger(store)
	_, err := ledger.Validate(context.Background(), "USED1", "bob", time.Now())
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Reason != ReasonNotOwner {
		t.Errorf("reason = %s, want %s (ownership short-circuits before state)", ve.Reason, ReasonNotOwner)
	}
}

func TestValidateEligibilityPolicy(t *testing.T) {
	promo := percentPromo(25, 60000)
	promo.Level = "gold"

	store := NewMemoryStore()
	store.Put(testVoucher("GOLD25", "alice", promo))

	ledger := NewLedger(store, WithEligibility(func(customerID string, p *Promotional) bool {
		return p.Level != "gold"
	}))

	_, err := ledger.Validate(context.Background(), "GOLD25", "alice", time.Now())
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Reason != ReasonNotEligible {
		t.Errorf("reason = %s, want %s", ve.Reason, ReasonNotEligible)
	}
}

func TestApplyDiscountCapped(t *testing.T) {
	spec := &DiscountSpec{VoucherCode: "SAVE10", Percent: 10, MaxDiscount: 20000}

	// 10% of 150000 is 15000, below the cap.
	if got := ApplyDiscount(150000, spec); got != 15000 {
		t.Errorf("ApplyDiscount(150000) = %d, want 15000", got)
	}

	// 10% of 300000 is 30000, capped at 20000.
	if got := ApplyDiscount(300000, spec); got != 20000 {
		t.Errorf("ApplyDiscount(300000) = %d, want 20000", got)
	}
}

func TestApplyDiscountGift(t *testing.T) {
	spec := &DiscountSpec{VoucherCode: "FREECORN", Gift: "Popcorn (Small)"}
	if got := ApplyDiscount(200000, spec); got != 0 {
		t.Errorf("gift voucher should not reduce the price, got %d", got)
	}
	if !spec.IsGift() {
		t.Error("IsGift() = false, want true")
	}
}

func TestTryConsumeSingleUse(t *testing.T) {
	promo := percentPromo(10, 20000)
	store := NewMemoryStore()
	store.Put(testVoucher("SAVE10", "alice", promo))

	billID := uuid.New()
	if !store.TryConsume("SAVE10", billID) {
		t.Fatal("first consume should succeed")
	}
	if store.TryConsume("SAVE10", uuid.New()) {
		t.Fatal("second consume should fail")
	}

	v, err := store.GetByCode(context.Background(), "SAVE10")
	if err != nil {
		t.Fatalf("GetByCode returned error: %v", err)
	}
	if v.State != StateUsed || v.BillID == nil || *v.BillID != billID {
		t.Errorf("voucher not marked used for bill: %+v", v)
	}

	store.Release("SAVE10")
	if !store.TryConsume("SAVE10", uuid.New()) {
		t.Fatal("consume after release should succeed")
	}
}
