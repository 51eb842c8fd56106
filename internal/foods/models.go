package foods

import (
	"time"

	"cinetix/internal/pricing"

	"github.com/google/uuid"
)

// FoodItem is a concession item that can be added to a booking.
type FoodItem struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string        `gorm:"not null;size:255" json:"name"`
	UnitPrice pricing.Money `gorm:"not null;check:unit_price >= 0" json:"unit_price"`
	Available bool          `gorm:"not null;default:true" json:"available"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (FoodItem) TableName() string {
	return "food_items"
}
