package vouchers

import (
	"time"

	"cinetix/internal/pricing"

	"github.com/google/uuid"
)

// PromotionalType distinguishes what a promotional grants.
type PromotionalType string

const (
	PromotionalTypePercentage PromotionalType = "percentage"
	PromotionalTypeGift       PromotionalType = "gift"
)

// Promotional defines the discount or gift that vouchers referencing it grant.
type Promotional struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string          `gorm:"not null;size:255" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Type        PromotionalType `gorm:"type:varchar(20);not null" json:"type"`
	Percent     int             `gorm:"default:0;check:percent >= 0 AND percent <= 100" json:"percent"`
	MaxDiscount pricing.Money   `gorm:"default:0" json:"max_discount"`
	Gift        string          `gorm:"size:255" json:"gift,omitempty"`
	Level       string          `gorm:"size:50" json:"level,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Promotional) TableName() string {
	return "promotionals"
}

// State is the lifecycle state of a voucher. The only transition the booking
// core performs is active -> used, exactly once, inside a committed booking.
type State string

const (
	StateActive  State = "active"
	StateUsed    State = "used"
	StateExpired State = "expired"
)

func (s State) IsValid() bool {
	switch s {
	case StateActive, StateUsed, StateExpired:
		return true
	}
	return false
}

func (s State) String() string {
	return string(s)
}

// Voucher is a single-use code owned by one customer.
type Voucher struct {
	Code          string     `gorm:"primaryKey;size:50" json:"code"`
	CustomerID    string     `gorm:"index;not null;size:50" json:"customer_id"`
	PromotionalID uuid.UUID  `gorm:"type:uuid;not null" json:"promotional_id"`
	StartDate     time.Time  `gorm:"not null" json:"start_date"`
	EndDate       time.Time  `gorm:"not null" json:"end_date"`
	State         State      `gorm:"type:varchar(20);not null;default:'active'" json:"state"`
	UsedAt        *time.Time `json:"used_at,omitempty"`
	BillID        *uuid.UUID `gorm:"type:uuid" json:"bill_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Promotional *Promotional `gorm:"foreignKey:PromotionalID" json:"promotional,omitempty"`
}

func (Voucher) TableName() string {
	return "vouchers"
}

// IsActive reports whether the voucher can still be consumed, ignoring the
// validity window.
func (v *Voucher) IsActive() bool {
	return v.State == StateActive
}

// DiscountSpec is what a validated voucher grants, resolved from its
// promotional definition.
type DiscountSpec struct {
	VoucherCode string        `json:"voucher_code"`
	Percent     int           `json:"percent"`
	MaxDiscount pricing.Money `json:"max_discount"`
	Gift        string        `json:"gift,omitempty"`
}

// IsGift reports whether the spec grants a gift instead of a price reduction.
func (d *DiscountSpec) IsGift() bool {
	return d.Percent == 0 && d.Gift != ""
}
