package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"cinetix/internal/foods"
	"cinetix/internal/pricing"
	"cinetix/internal/seats"
	"cinetix/internal/shared/config"
	"cinetix/internal/shared/database"
	"cinetix/internal/showtimes"
	"cinetix/internal/vouchers"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB

	rooms     []showtimes.Room
	shows     []showtimes.Showtime
	foodItems []foods.FoodItem
	promos    []vouchers.Promotional
}

func main() {
	fmt.Println("🌱 Starting CineTix Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Order matters due to foreign key constraints
	// Delete in reverse dependency order
	tables := []string{
		"food_line_items",
		"tickets",
		"vouchers",
		"bills",
		"promotionals",
		"food_items",
		"showtime_seats",
		"showtimes",
		"room_seats",
		"rooms",
	}

	for _, table := range tables {
		if err := s.db.PostgreSQL.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clean table %s: %w", table, err)
		}
	}
	return nil
}

// SeedAll seeds the whole catalog in dependency order
func (s *Seeder) SeedAll() error {
	if err := s.seedRooms(); err != nil {
		return fmt.Errorf("failed to seed rooms: %w", err)
	}
	if err := s.seedShowtimes(); err != nil {
		return fmt.Errorf("failed to seed showtimes: %w", err)
	}
	if err := s.seedFoodItems(); err != nil {
		return fmt.Errorf("failed to seed food items: %w", err)
	}
	if err := s.seedPromotionals(); err != nil {
		return fmt.Errorf("failed to seed promotionals: %w", err)
	}
	if err := s.seedVouchers(); err != nil {
		return fmt.Errorf("failed to seed vouchers: %w", err)
	}
	return nil
}

// seedRooms creates two rooms with fixed layouts. Rows A-D are normal seats,
// rows E-F are VIP, row G holds couple seats.
func (s *Seeder) seedRooms() error {
	layouts := []struct {
		name       string
		normalRows []string
		vipRows    []string
		coupleRows []string
		cols       int
		coupleCols int
	}{
		{name: "Room 1", normalRows: []string{"A", "B", "C", "D"}, vipRows: []string{"E", "F"}, coupleRows: []string{"G"}, cols: 10, coupleCols: 5},
		{name: "Room 2", normalRows: []string{"A", "B", "C"}, vipRows: []string{"D"}, coupleRows: []string{"E"}, cols: 8, coupleCols: 4},
	}

	for _, layout := range layouts {
		room := showtimes.Room{ID: uuid.New(), Name: layout.name}

		addRow := func(row string, cols int, seatType pricing.SeatType) {
			for col := 1; col <= cols; col++ {
				room.Seats = append(room.Seats, showtimes.RoomSeat{
					ID:       uuid.New(),
					RoomID:   room.ID,
					SeatRow:  row,
					SeatCol:  col,
					SeatType: seatType,
				})
			}
		}
		for _, row := range layout.normalRows {
			addRow(row, layout.cols, pricing.SeatTypeNormal)
		}
		for _, row := range layout.vipRows {
			addRow(row, layout.cols, pricing.SeatTypeVIP)
		}
		for _, row := range layout.coupleRows {
			addRow(row, layout.coupleCols, pricing.SeatTypeCouple)
		}

		if err := s.db.PostgreSQL.Create(&room).Error; err != nil {
			return err
		}
		s.rooms = append(s.rooms, room)
		fmt.Printf("  🏠 Room %q seeded with %d seats\n", room.Name, len(room.Seats))
	}
	return nil
}

// seedShowtimes publishes screenings over the coming week and materializes
// their seat availability rows.
func (s *Seeder) seedShowtimes() error {
	seatRepo := seats.NewRepository(s.db.PostgreSQL)
	ctx := context.Background()

	titles := []string{
		"The Last Projection",
		"Midnight Reel",
		"Paper Lanterns",
	}

	base := time.Now().Truncate(time.Hour).Add(24 * time.Hour)
	for i, title := range titles {
		for j, room := range s.rooms {
			start := base.Add(time.Duration(i*24+j*4) * time.Hour)
			show := showtimes.Showtime{
				ID:         uuid.New(),
				MovieTitle: title,
				RoomID:     room.ID,
				StartTime:  start,
				EndTime:    start.Add(2 * time.Hour),
				Status:     showtimes.StatusPublished,
			}
			if err := s.db.PostgreSQL.Create(&show).Error; err != nil {
				return err
			}

			rows := make([]seats.ShowtimeSeat, 0, len(room.Seats))
			for _, rs := range room.Seats {
				rows = append(rows, seats.ShowtimeSeat{
					ID:         uuid.New(),
					ShowtimeID: show.ID,
					SeatRow:    rs.SeatRow,
					SeatCol:    rs.SeatCol,
					SeatType:   rs.SeatType,
					Status:     seats.StatusAvailable,
				})
			}
			if err := seatRepo.Materialize(ctx, rows); err != nil {
				return err
			}

			s.shows = append(s.shows, show)
			fmt.Printf("  🎬 Showtime %q in %s at %s\n", title, room.Name, start.Format(time.RFC822))
		}
	}
	return nil
}

func (s *Seeder) seedFoodItems() error {
	items := []foods.FoodItem{
		{ID: uuid.New(), Name: "Popcorn (Large)", UnitPrice: 45000, Available: true},
		{ID: uuid.New(), Name: "Popcorn (Small)", UnitPrice: 30000, Available: true},
		{ID: uuid.New(), Name: "Soda Combo", UnitPrice: 55000, Available: true},
		{ID: uuid.New(), Name: "Nachos", UnitPrice: 40000, Available: true},
		{ID: uuid.New(), Name: "Retired Snack", UnitPrice: 20000, Available: false},
	}
	for i := range items {
		if err := s.db.PostgreSQL.Create(&items[i]).Error; err != nil {
			return err
		}
	}
	s.foodItems = items
	fmt.Printf("  🍿 %d food items seeded\n", len(items))
	return nil
}

func (s *Seeder) seedPromotionals() error {
	promos := []vouchers.Promotional{
		{
			ID:          uuid.New(),
			Name:        "Ten Percent Off",
			Type:        vouchers.PromotionalTypePercentage,
			Percent:     10,
			MaxDiscount: 20000,
			Level:       "standard",
		},
		{
			ID:          uuid.New(),
			Name:        "Member Quarter Off",
			Type:        vouchers.PromotionalTypePercentage,
			Percent:     25,
			MaxDiscount: 60000,
			Level:       "gold",
		},
		{
			ID:    uuid.New(),
			Name:  "Free Popcorn",
			Type:  vouchers.PromotionalTypeGift,
			Gift:  "Popcorn (Small)",
			Level: "standard",
		},
	}
	for i := range promos {
		if err := s.db.PostgreSQL.Create(&promos[i]).Error; err != nil {
			return err
		}
	}
	s.promos = promos
	fmt.Printf("  🏷️  %d promotionals seeded\n", len(promos))
	return nil
}

func (s *Seeder) seedVouchers() error {
	now := time.Now()
	usedAt := now.Add(-24 * time.Hour)
	window := func(v *vouchers.Voucher) {
		v.StartDate = now.Add(-7 * 24 * time.Hour)
		v.EndDate = now.Add(30 * 24 * time.Hour)
	}

	entries := []vouchers.Voucher{
		{Code: "SAVE10", CustomerID: "customer-1", PromotionalID: s.promos[0].ID, State: vouchers.StateActive},
		{Code: "GOLD25", CustomerID: "customer-2", PromotionalID: s.promos[1].ID, State: vouchers.StateActive},
		{Code: "FREECORN", CustomerID: "customer-1", PromotionalID: s.promos[2].ID, State: vouchers.StateActive},
		{Code: "USED1", CustomerID: "customer-1", PromotionalID: s.promos[0].ID, State: vouchers.StateUsed, UsedAt: &usedAt},
	}
	for i := range entries {
		window(&entries[i])
		if err := s.db.PostgreSQL.Create(&entries[i]).Error; err != nil {
			return err
		}
	}

	// An already-lapsed voucher for window testing
	lapsed := vouchers.Voucher{
		Code:          "LASTYEAR",
		CustomerID:    "customer-1",
		PromotionalID: s.promos[0].ID,
		State:         vouchers.StateActive,
		StartDate:     now.Add(-400 * 24 * time.Hour),
		EndDate:       now.Add(-300 * 24 * time.Hour),
	}
	if err := s.db.PostgreSQL.Create(&lapsed).Error; err != nil {
		return err
	}

	fmt.Printf("  🎟️  %d vouchers seeded\n", len(entries)+1)
	return nil
}
