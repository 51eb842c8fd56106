package seats

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AtomicHoldOperations manages short-lived advisory seat holds in Redis.
// Holds keep the seat-selection UX honest while the customer checks out;
// the transactional reserve in the booking commit stays the authority.
type AtomicHoldOperations struct {
	redis *redis.Client
}

func NewAtomicHoldOperations(redisClient *redis.Client) *AtomicHoldOperations {
	return &AtomicHoldOperations{redis: redisClient}
}

// Lua script for atomic seat holding - prevents race conditions between
// concurrent hold attempts on the same showtime seats.
const luaAtomicSeatHold = `
-- KEYS[1] = hold_id
-- ARGV[1] = customer_id
-- ARGV[2] = showtime_id
-- ARGV[3] = ttl_seconds
-- ARGV[4..N] = seat refs ("A1", "A2", ...)

local hold_id = KEYS[1]
local customer_id = ARGV[1]
local showtime_id = ARGV[2]
local ttl = tonumber(ARGV[3])

-- Check that none of the seats already carries a hold
for i = 4, #ARGV do
    local seat_hold_key = "seat_hold:" .. showtime_id .. ":" .. ARGV[i]
    if redis.call("EXISTS", seat_hold_key) == 1 then
        return {0, ARGV[i]}
    end
end

-- All free: hold them atomically
local hold_key = "hold:" .. hold_id
local hold_seats_key = "hold_seats:" .. hold_id

redis.call("HMSET", hold_key,
    "customer_id", customer_id,
    "showtime_id", showtime_id,
    "seat_count", #ARGV - 3
)
redis.call("EXPIRE", hold_key, ttl)

for i = 4, #ARGV do
    local seat_hold_key = "seat_hold:" .. showtime_id .. ":" .. ARGV[i]
    redis.call("SETEX", seat_hold_key, ttl, customer_id .. ":" .. hold_id)
    redis.call("SADD", hold_seats_key, ARGV[i])
end
redis.call("EXPIRE", hold_seats_key, ttl)

return {1, "success"}
`

// Lua script for atomic hold release
const luaAtomicHoldRelease = `
-- KEYS[1] = hold_id
local hold_id = KEYS[1]

local hold_key = "hold:" .. hold_id
local hold_seats_key = "hold_seats:" .. hold_id

local showtime_id = redis.call("HGET", hold_key, "showtime_id")
if not showtime_id then
    return {0, "hold_not_found"}
end

local seat_refs = redis.call("SMEMBERS", hold_seats_key)
for i = 1, #seat_refs do
    redis.call("DEL", "seat_hold:" .. showtime_id .. ":" .. seat_refs[i])
end

redis.call("DEL", hold_key)
redis.call("DEL", hold_seats_key)

return {1, #seat_refs}
`

// HoldSeats atomically holds the seats for the customer. On a hold collision
// it returns the conflicting seat ref and no error.
func (a *AtomicHoldOperations) HoldSeats(ctx context.Context, showtimeID uuid.UUID, customerID string, refs []SeatRef, ttl time.Duration) (holdID string, conflict string, err error) {
	if a.redis == nil {
		return "", "", fmt.Errorf("redis client not available")
	}

	holdID = uuid.New().String()
	keys := []string{holdID}
	args := []interface{}{
		customerID,
		showtimeID.String(),
		strconv.Itoa(int(ttl.Seconds())),
	}
	for _, ref := range refs {
		args = append(args, ref.String())
	}

	result, err := a.redis.EvalSha(ctx, luaAtomicSeatHold, keys, args...).Result()
	if err != nil {
		// Script not cached yet: load and execute in one call
		result, err = a.redis.Eval(ctx, luaAtomicSeatHold, keys, args...).Result()
		if err != nil {
			return "", "", fmt.Errorf("failed to execute atomic seat hold: %w", err)
		}
	}

	success, detail, err := parseScriptResult(result)
	if err != nil {
		return "", "", err
	}
	if !success {
		return "", detail, nil
	}
	return holdID, "", nil
}

// ReleaseHold atomically releases a hold and returns how many seats it freed.
func (a *AtomicHoldOperations) ReleaseHold(ctx context.Context, holdID string) (int, error) {
	if a.redis == nil {
		return 0, fmt.Errorf("redis client not available")
	}

	result, err := a.redis.EvalSha(ctx, luaAtomicHoldRelease, []string{holdID}).Result()
	if err != nil {
		result, err = a.redis.Eval(ctx, luaAtomicHoldRelease, []string{holdID}).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to execute atomic hold release: %w", err)
		}
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return 0, fmt.Errorf("unexpected result format from Lua script")
	}
	success, ok := resultArray[0].(int64)
	if !ok {
		return 0, fmt.Errorf("invalid success flag in Lua script result")
	}
	if success == 0 {
		reason, _ := resultArray[1].(string)
		return 0, fmt.Errorf("failed to release hold: %s", reason)
	}
	released, ok := resultArray[1].(int64)
	if !ok {
		return 0, fmt.Errorf("invalid released count in Lua script result")
	}
	return int(released), nil
}

// HeldSeats reports which of the given seats currently carry a hold.
func (a *AtomicHoldOperations) HeldSeats(ctx context.Context, showtimeID uuid.UUID, refs []SeatRef) (map[SeatRef]bool, error) {
	if a.redis == nil || len(refs) == 0 {
		return map[SeatRef]bool{}, nil
	}

	keys := make([]string, 0, len(refs))
	for _, ref := range refs {
		keys = append(keys, fmt.Sprintf("seat_hold:%s:%s", showtimeID, ref))
	}

	values, err := a.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check seat holds: %w", err)
	}

	held := make(map[SeatRef]bool, len(refs))
	for i, ref := range refs {
		held[ref] = values[i] != nil
	}
	return held, nil
}

// PreloadScripts loads the Lua scripts into Redis for better performance.
func (a *AtomicHoldOperations) PreloadScripts(ctx context.Context) error {
	if a.redis == nil {
		return fmt.Errorf("redis client not available")
	}
	if _, err := a.redis.ScriptLoad(ctx, luaAtomicSeatHold).Result(); err != nil {
		return fmt.Errorf("failed to load seat hold script: %w", err)
	}
	if _, err := a.redis.ScriptLoad(ctx, luaAtomicHoldRelease).Result(); err != nil {
		return fmt.Errorf("failed to load hold release script: %w", err)
	}
	return nil
}

func parseScriptResult(result interface{}) (bool, string, error) {
	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return false, "", fmt.Errorf("unexpected result format from Lua script")
	}
	success, ok := resultArray[0].(int64)
	if !ok {
		return false, "", fmt.Errorf("invalid success flag in Lua script result")
	}
	detail, _ := resultArray[1].(string)
	return success == 1, detail, nil
}
