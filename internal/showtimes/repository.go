package showtimes

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a showtime or room does not exist.
var ErrNotFound = errors.New("showtime not found")

// Lookup is the read dependency the booking transaction manager needs: the
// catalog side of the system supplies showtimes, the booking core only
// resolves them.
type Lookup interface {
	GetShowtime(ctx context.Context, id uuid.UUID) (*Showtime, error)
}

type Repository interface {
	Lookup
	Create(ctx context.Context, showtime *Showtime) error
	GetAll(ctx context.Context, page, limit int) ([]Showtime, int64, error)
	GetRoomByID(ctx context.Context, id uuid.UUID) (*Room, error)
	CreateRoom(ctx context.Context, room *Room) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, showtime *Showtime) error {
	return r.db.WithContext(ctx).Create(showtime).Error
}

func (r *repository) GetShowtime(ctx context.Context, id uuid.UUID) (*Showtime, error) {
	var showtime Showtime
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("id = ?", id).
		First(&showtime).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query showtime: %w", err)
	}
	return &showtime, nil
}

func (r *repository) GetAll(ctx context.Context, page, limit int) ([]Showtime, int64, error) {
	var showtimes []Showtime
	var totalCount int64

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&Showtime{}).
		Where("status = ?", StatusPublished)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := baseQuery.
		Preload("Room").
		Order("start_time ASC").
		Offset(offset).
		Limit(limit).
		Find(&showtimes).Error

	return showtimes, totalCount, err
}

func (r *repository) GetRoomByID(ctx context.Context, id uuid.UUID) (*Room, error) {
	var room Room
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Where("id = ?", id).
		First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query room: %w", err)
	}
	return &room, nil
}

func (r *repository) CreateRoom(ctx context.Context, room *Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}
