package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs for the cinetix backend.
// Pattern: cinetix:{module}:{operation}:{identifier}

const CachePrefix = "cinetix"

// Static data (rarely changes)
const (
	TTL_STATIC_LONG   = 24 * time.Hour
	TTL_STATIC_MEDIUM = 12 * time.Hour
)

// Semi-static data (changes occasionally)
const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour
	TTL_SEMI_STATIC_SHORT  = 1 * time.Hour
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute
)

// Dynamic data (changes on every booking)
const (
	TTL_DYNAMIC_SHORT  = 5 * time.Minute
	TTL_REALTIME_SHORT = 30 * time.Second
)

// Showtime cache keys
const (
	CACHE_KEY_SHOWTIMES_LIST   = CachePrefix + ":showtimes:list"         // + :page:X:limit:Y
	CACHE_KEY_SHOWTIME_DETAIL  = CachePrefix + ":showtimes:detail:uuid:" // + showtime-id
	TTL_SHOWTIMES_LIST         = TTL_SEMI_STATIC_QUICK
	TTL_SHOWTIME_DETAIL        = TTL_SEMI_STATIC_MEDIUM
)

// Seat map cache keys. Invalidated by the booking manager after every commit
// on the showtime, so the TTL only bounds staleness from external writes.
const (
	CACHE_KEY_SEAT_MAP = CachePrefix + ":seats:map:showtime:" // + showtime-id
	TTL_SEAT_MAP       = TTL_REALTIME_SHORT
)

// BuildSeatMapKey returns the seat map cache key for a showtime.
func BuildSeatMapKey(showtimeID string) string {
	return CACHE_KEY_SEAT_MAP + showtimeID
}

// BuildShowtimeDetailKey returns the detail cache key for a showtime.
func BuildShowtimeDetailKey(showtimeID string) string {
	return CACHE_KEY_SHOWTIME_DETAIL + showtimeID
}

// BuildShowtimesListKey returns the listing cache key for a page.
func BuildShowtimesListKey(page, limit int) string {
	return fmt.Sprintf("%s:page:%d:limit:%d", CACHE_KEY_SHOWTIMES_LIST, page, limit)
}
