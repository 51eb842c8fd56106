package vouchers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinetix/internal/pricing"
)

// ErrNotFound is returned by stores when no voucher carries the given code.
var ErrNotFound = errors.New("voucher not found")

// Reason classifies why a voucher was rejected. Each check in Validate maps
// to exactly one reason so the caller can tell the customer what to fix.
type Reason string

const (
	ReasonNotFound     Reason = "NOT_FOUND"
	ReasonNotOwner     Reason = "NOT_OWNER"
	ReasonAlreadyUsed  Reason = "ALREADY_USED"
	ReasonExpired      Reason = "EXPIRED"
	ReasonNotYetActive Reason = "NOT_YET_ACTIVE"
	ReasonNotEligible  Reason = "NOT_ELIGIBLE"
)

func (r Reason) String() string {
	return string(r)
}

// ValidationError carries the specific rejection reason for a voucher code.
type ValidationError struct {
	Code   string
	Reason Reason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("voucher %s rejected: %s", e.Code, e.Reason)
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Store is the read side of the voucher ledger. Consumption is not part of
// this interface: the state transition to used happens only inside the
// booking commit, in the same transaction as the bill.
type Store interface {
	GetByCode(ctx context.Context, code string) (*Voucher, error)
}

// EligibilityFunc decides whether a customer may use a voucher tied to the
// given promotional. Membership-level policy is supplied by the caller rather
// than hard-coded; the default accepts everyone.
type EligibilityFunc func(customerID string, promo *Promotional) bool

// Ledger validates vouchers against ownership, state and validity window.
type Ledger struct {
	store    Store
	eligible EligibilityFunc
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithEligibility installs a membership-level eligibility policy.
func WithEligibility(fn EligibilityFunc) Option {
	return func(l *Ledger) {
		l.eligible = fn
	}
}

// NewLedger creates a voucher ledger backed by the given store.
func NewLedger(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:    store,
		eligible: func(string, *Promotional) bool { return true },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Validate checks a voucher for a customer at a reference time. Checks run in
// a fixed order and short-circuit on the first failure: existence, ownership,
// state, validity window, eligibility. It performs no mutation.
func (l *Ledger) Validate(ctx context.Context, code, customerID string, at time.Time) (*DiscountSpec, error) {
	voucher, err := l.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &ValidationError{Code: code, Reason: ReasonNotFound}
		}
		return nil, fmt.Errorf("failed to load voucher %s: %w", code, err)
	}

	if voucher.CustomerID != customerID {
		return nil, &ValidationError{Code: code, Reason: ReasonNotOwner}
	}

	switch voucher.State {
	case StateActive:
		// proceed to window checks
	case StateUsed:
		return nil, &ValidationError{Code: code, Reason: ReasonAlreadyUsed}
	case StateExpired:
		return nil, &ValidationError{Code: code, Reason: ReasonExpired}
	default:
		return nil, fmt.Errorf("voucher %s has invalid state %q", code, voucher.State)
	}

	if at.Before(voucher.StartDate) {
		return nil, &ValidationError{Code: code, Reason: ReasonNotYetActive}
	}
	if at.After(voucher.EndDate) {
		return nil, &ValidationError{Code: code, Reason: ReasonExpired}
	}

	if voucher.Promotional == nil {
		return nil, fmt.Errorf("voucher %s has no promotional definition", code)
	}
	if !l.eligible(customerID, voucher.Promotional) {
		return nil, &ValidationError{Code: code, Reason: ReasonNotEligible}
	}

	return &DiscountSpec{
		VoucherCode: voucher.Code,
		Percent:     voucher.Promotional.Percent,
		MaxDiscount: voucher.Promotional.MaxDiscount,
		Gift:        voucher.Promotional.Gift,
	}, nil
}

// ApplyDiscount computes the discount amount a spec grants on a subtotal.
// Percentage discounts are capped at the promotional's max; gifts never
// reduce the price, they are recorded on the bill instead.
func ApplyDiscount(subtotal pricing.Money, spec *DiscountSpec) pricing.Money {
	if spec == nil || spec.Percent <= 0 {
		return 0
	}
	discount := subtotal * pricing.Money(spec.Percent) / 100
	if spec.MaxDiscount > 0 && discount > spec.MaxDiscount {
		discount = spec.MaxDiscount
	}
	return discount
}
