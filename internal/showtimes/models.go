package showtimes

import (
	"time"

	"cinetix/internal/pricing"

	"github.com/google/uuid"
)

// Room is a physical screening room with a fixed seat layout.
type Room struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string     `gorm:"not null;size:100" json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Seats     []RoomSeat `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE;" json:"seats,omitempty"`
}

func (Room) TableName() string {
	return "rooms"
}

// RoomSeat is one physical seat in a room's layout. Its occupancy is never
// tracked here; occupancy lives in showtime_seats, per showtime.
type RoomSeat struct {
	ID       uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RoomID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uniq_room_seat,priority:1" json:"room_id"`
	SeatRow  string           `gorm:"size:5;not null;uniqueIndex:uniq_room_seat,priority:2" json:"seat_row"`
	SeatCol  int              `gorm:"not null;uniqueIndex:uniq_room_seat,priority:3" json:"seat_col"`
	SeatType pricing.SeatType `gorm:"type:varchar(10);not null" json:"seat_type"`
}

func (RoomSeat) TableName() string {
	return "room_seats"
}

// Status of a showtime. Only published showtimes accept bookings; edits to a
// published showtime go through an out-of-band admin workflow.
type Status string

const (
	StatusPublished Status = "PUBLISHED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPublished, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Showtime is one scheduled screening of a movie in a room. Immutable once
// published.
type Showtime struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	MovieTitle string    `gorm:"not null;size:255" json:"movie_title"`
	RoomID     uuid.UUID `gorm:"type:uuid;not null;index" json:"room_id"`
	StartTime  time.Time `gorm:"not null;index" json:"start_time"`
	EndTime    time.Time `gorm:"not null" json:"end_time"`
	Status     Status    `gorm:"type:varchar(20);not null;default:'PUBLISHED'" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Room *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

func (Showtime) TableName() string {
	return "showtimes"
}

// HasEnded reports whether the screening is over at the reference time.
func (s *Showtime) HasEnded(at time.Time) bool {
	return at.After(s.EndTime)
}

// CreateShowtimeRequest publishes a new showtime for a room.
type CreateShowtimeRequest struct {
	MovieTitle string    `json:"movie_title" binding:"required,min=1,max=255"`
	RoomID     string    `json:"room_id" binding:"required,uuid"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
}

// ShowtimeResponse is the public view of a showtime.
type ShowtimeResponse struct {
	ID         string    `json:"id"`
	MovieTitle string    `json:"movie_title"`
	RoomID     string    `json:"room_id"`
	RoomName   string    `json:"room_name,omitempty"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Status     Status    `json:"status"`
}

// ToResponse converts a showtime to its public view.
func (s *Showtime) ToResponse() ShowtimeResponse {
	resp := ShowtimeResponse{
		ID:         s.ID.String(),
		MovieTitle: s.MovieTitle,
		RoomID:     s.RoomID.String(),
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		Status:     s.Status,
	}
	if s.Room != nil {
		resp.RoomName = s.Room.Name
	}
	return resp
}
