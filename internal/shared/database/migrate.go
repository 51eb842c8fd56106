package database

import (
	"cinetix/internal/bookings"
	"cinetix/internal/foods"
	"cinetix/internal/seats"
	"cinetix/internal/showtimes"
	"cinetix/internal/vouchers"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&showtimes.Room{},
		&showtimes.RoomSeat{},
		&showtimes.Showtime{},
		&seats.ShowtimeSeat{},
		&foods.FoodItem{},
		&vouchers.Promotional{},
		&vouchers.Voucher{},
		&bookings.Bill{},
		&bookings.Ticket{},
		&bookings.FoodLineItem{},
	)
}
