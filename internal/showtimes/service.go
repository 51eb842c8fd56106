package showtimes

import (
	"context"
	"fmt"
	"time"

	"cinetix/internal/seats"
	"cinetix/internal/shared/constants"
	"cinetix/pkg/cache"
	"cinetix/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	CreateShowtime(ctx context.Context, req CreateShowtimeRequest) (*ShowtimeResponse, error)
	GetShowtimeByID(ctx context.Context, id string) (*ShowtimeResponse, error)
	ListShowtimes(ctx context.Context, page, limit int) ([]ShowtimeResponse, int64, error)

	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	seatStore    seats.Store
	cacheService cache.Service
}

func NewService(repo Repository, seatStore seats.Store) Service {
	return &service{
		repo:      repo,
		seatStore: seatStore,
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// CreateShowtime publishes a showtime and materializes its per-showtime seat
// rows from the room layout. Seat rows must exist before the first booking,
// so this happens eagerly at publish time.
func (s *service) CreateShowtime(ctx context.Context, req CreateShowtimeRequest) (*ShowtimeResponse, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, fmt.Errorf("end time must be after start time")
	}
	if req.EndTime.Before(time.Now()) {
		return nil, fmt.Errorf("cannot publish a showtime in the past")
	}

	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return nil, fmt.Errorf("invalid room ID: %w", err)
	}

	room, err := s.repo.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load room: %w", err)
	}
	if len(room.Seats) == 0 {
		return nil, fmt.Errorf("room %s has no seat layout", room.Name)
	}

	showtime := &Showtime{
		MovieTitle: req.MovieTitle,
		RoomID:     roomID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Status:     StatusPublished,
	}
	if err := s.repo.Create(ctx, showtime); err != nil {
		return nil, fmt.Errorf("failed to create showtime: %w", err)
	}

	rows := make([]seats.ShowtimeSeat, 0, len(room.Seats))
	for _, seat := range room.Seats {
		rows = append(rows, seats.ShowtimeSeat{
			ShowtimeID: showtime.ID,
			SeatRow:    seat.SeatRow,
			SeatCol:    seat.SeatCol,
			SeatType:   seat.SeatType,
			Status:     seats.StatusAvailable,
		})
	}
	if err := s.seatStore.Materialize(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to materialize showtime seats: %w", err)
	}

	logger.GetDefault().LogShowtimePublished(ctx, showtime.ID.String(), roomID.String())

	showtime.Room = room
	resp := showtime.ToResponse()
	return &resp, nil
}

func (s *service) GetShowtimeByID(ctx context.Context, id string) (*ShowtimeResponse, error) {
	showtimeID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid showtime ID: %w", err)
	}

	cacheKey := constants.BuildShowtimeDetailKey(id)
	if s.cacheService != nil {
		var cached ShowtimeResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	showtime, err := s.repo.GetShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	resp := showtime.ToResponse()
	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, resp, constants.TTL_SHOWTIME_DETAIL); err != nil {
			logger.GetDefault().Debug("failed to cache showtime", "key", cacheKey, "error", err)
		}
	}
	return &resp, nil
}

func (s *service) ListShowtimes(ctx context.Context, page, limit int) ([]ShowtimeResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	cacheKey := constants.BuildShowtimesListKey(page, limit)
	type listPage struct {
		Items []ShowtimeResponse `json:"items"`
		Total int64              `json:"total"`
	}
	if s.cacheService != nil {
		var cached listPage
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return cached.Items, cached.Total, nil
		}
	}

	showtimes, total, err := s.repo.GetAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list showtimes: %w", err)
	}

	items := make([]ShowtimeResponse, 0, len(showtimes))
	for i := range showtimes {
		items = append(items, showtimes[i].ToResponse())
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, listPage{Items: items, Total: total}, constants.TTL_SHOWTIMES_LIST); err != nil {
			logger.GetDefault().Debug("failed to cache showtime list", "key", cacheKey, "error", err)
		}
	}

	return items, total, nil
}
