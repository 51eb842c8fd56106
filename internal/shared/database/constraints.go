package database

import (
	"gorm.io/gorm"
)

// constraintStatements run after AutoMigrate. Postgres has no
// ADD CONSTRAINT IF NOT EXISTS, so the unique guards run inside DO blocks
// that swallow duplicate_object on databases that already carry them.
var constraintStatements = []string{
	// The unique seat guard against double selling. AutoMigrate creates it
	// from the model tags as well; restating it here keeps databases that
	// predate the tag honest.
	`DO $$ BEGIN
		ALTER TABLE tickets
		ADD CONSTRAINT uniq_ticket_seat
		UNIQUE (showtime_id, seat_row, seat_col);
	EXCEPTION WHEN duplicate_object THEN NULL;
	END $$;`,

	// Same guard on the availability table.
	`DO $$ BEGIN
		ALTER TABLE showtime_seats
		ADD CONSTRAINT uniq_showtime_seat
		UNIQUE (showtime_id, seat_row, seat_col);
	EXCEPTION WHEN duplicate_object THEN NULL;
	END $$;`,

	// Index for booking history queries by customer
	`CREATE INDEX IF NOT EXISTS idx_bills_customer_created
		ON bills (customer_id, created_at DESC);`,

	// Index for seat map reads per showtime
	`CREATE INDEX IF NOT EXISTS idx_showtime_seats_showtime_id
		ON showtime_seats (showtime_id);`,
}

// MigrateConstraints adds critical database constraints for concurrency
// control. Called from InitDB right after the schema migration; every
// statement is idempotent so reboots against a migrated database are safe.
func MigrateConstraints(db *gorm.DB) error {
	for _, stmt := range constraintStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
