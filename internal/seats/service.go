package seats

import (
	"context"
	"fmt"
	"time"

	"cinetix/internal/pricing"
	"cinetix/internal/shared/config"
	"cinetix/internal/shared/constants"
	"cinetix/pkg/cache"
	"cinetix/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	// Availability view
	SeatMap(ctx context.Context, showtimeID string) ([]SeatMapEntry, error)

	// Advisory holds during seat selection
	HoldSeats(ctx context.Context, customerID string, req HoldRequest) (*HoldResponse, error)
	ReleaseHold(ctx context.Context, holdID string) error

	SetCacheService(cacheService cache.Service)
}

type service struct {
	store        Store
	holds        *AtomicHoldOperations
	config       *config.Config
	cacheService cache.Service
}

func NewService(store Store, holds *AtomicHoldOperations, cfg *config.Config) Service {
	return &service{
		store:  store,
		holds:  holds,
		config: cfg,
	}
}

// SetCacheService wires the optional Redis cache.
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) SeatMap(ctx context.Context, showtimeID string) ([]SeatMapEntry, error) {
	showtimeUUID, err := uuid.Parse(showtimeID)
	if err != nil {
		return nil, fmt.Errorf("invalid showtime ID: %w", err)
	}

	cacheKey := constants.BuildSeatMapKey(showtimeID)
	if s.cacheService != nil {
		var cached []SeatMapEntry
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	rows, err := s.store.SeatMap(ctx, showtimeUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seat map: %w", err)
	}

	var refs []SeatRef
	for i := range rows {
		refs = append(refs, rows[i].Ref())
	}

	held := map[SeatRef]bool{}
	if s.holds != nil {
		held, err = s.holds.HeldSeats(ctx, showtimeUUID, refs)
		if err != nil {
			// Holds are advisory; a Redis outage must not take down the
			// seat map. Sold state still comes from the store.
			logger.GetDefault().Warn("seat hold lookup failed", "showtime_id", showtimeID, "error", err)
			held = map[SeatRef]bool{}
		}
	}

	entries := make([]SeatMapEntry, 0, len(rows))
	for i := range rows {
		price, err := pricing.PriceOf(rows[i].SeatType)
		if err != nil {
			return nil, fmt.Errorf("seat %s has unpriceable type: %w", rows[i].Ref(), err)
		}

		status := rows[i].Status
		if status == StatusAvailable && held[rows[i].Ref()] {
			status = StatusHeld
		}

		entries = append(entries, SeatMapEntry{
			Row:      rows[i].SeatRow,
			Col:      rows[i].SeatCol,
			SeatType: rows[i].SeatType,
			Price:    price,
			Status:   status,
		})
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, entries, constants.TTL_SEAT_MAP); err != nil {
			logger.GetDefault().Debug("failed to cache seat map", "key", cacheKey, "error", err)
		}
	}

	return entries, nil
}

func (s *service) HoldSeats(ctx context.Context, customerID string, req HoldRequest) (*HoldResponse, error) {
	if s.holds == nil {
		return nil, fmt.Errorf("seat holds not available")
	}

	showtimeUUID, err := uuid.Parse(req.ShowtimeID)
	if err != nil {
		return nil, fmt.Errorf("invalid showtime ID: %w", err)
	}

	// Sold seats can never be held; holds only guard the race between
	// browsing customers.
	conflicts, err := s.store.CheckAvailable(ctx, showtimeUUID, req.Seats)
	if err != nil {
		return nil, fmt.Errorf("failed to check seat availability: %w", err)
	}
	if len(conflicts) > 0 {
		return nil, fmt.Errorf("seats not available: %v", conflicts)
	}

	ttl := s.config.Redis.SeatHoldTTL
	holdID, conflict, err := s.holds.HoldSeats(ctx, showtimeUUID, customerID, req.Seats, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to hold seats atomically: %w", err)
	}
	if conflict != "" {
		return nil, fmt.Errorf("seat already held: %s", conflict)
	}

	return &HoldResponse{
		HoldID:     holdID,
		ShowtimeID: req.ShowtimeID,
		Seats:      req.Seats,
		ExpiresAt:  time.Now().Add(ttl),
		TTLSeconds: int(ttl.Seconds()),
	}, nil
}

func (s *service) ReleaseHold(ctx context.Context, holdID string) error {
	if s.holds == nil {
		return fmt.Errorf("seat holds not available")
	}
	if _, err := s.holds.ReleaseHold(ctx, holdID); err != nil {
		return err
	}
	return nil
}
