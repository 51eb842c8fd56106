package seats

import (
	"context"

	"cinetix/internal/pricing"

	"github.com/google/uuid"
)

// Store is the authoritative truth of which (showtime, seat) pairs are taken.
// The read operations here are advisory: availability can change between a
// check and the booking commit, so the commit re-verifies under row locks.
type Store interface {
	// CheckAvailable returns the subset of refs that are not free for the
	// showtime. An empty result means all requested seats were free at the
	// time of the read.
	CheckAvailable(ctx context.Context, showtimeID uuid.UUID, refs []SeatRef) ([]SeatRef, error)

	// SeatTypes resolves the seat type of every ref. A ref that does not
	// exist in the showtime's room layout is missing from the result; the
	// caller treats that as invalid input.
	SeatTypes(ctx context.Context, showtimeID uuid.UUID, refs []SeatRef) (map[SeatRef]pricing.SeatType, error)

	// SeatMap returns every seat of the showtime with its occupancy state.
	SeatMap(ctx context.Context, showtimeID uuid.UUID) ([]ShowtimeSeat, error)

	// Materialize creates the per-showtime seat rows from a room layout.
	// Called once when a showtime is published.
	Materialize(ctx context.Context, rows []ShowtimeSeat) error
}
