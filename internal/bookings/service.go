package bookings

import (
	"context"
	"fmt"
	"time"

	"cinetix/internal/foods"
	"cinetix/internal/pricing"
	"cinetix/internal/seats"
	"cinetix/internal/showtimes"
	"cinetix/internal/shared/constants"
	"cinetix/internal/vouchers"
	"cinetix/pkg/cache"
	"cinetix/pkg/logger"

	"github.com/google/uuid"
)

// Service is the booking transaction manager. CreateBooking orchestrates the
// whole purchase: request validation, showtime and seat checks, pricing,
// voucher validation, and the atomic commit.
type Service interface {
	CreateBooking(ctx context.Context, customerID string, req *CreateBookingRequest) (*BillResponse, error)
	GetBooking(ctx context.Context, customerID string, billID uuid.UUID) (*BillResponse, error)
	GetBookingHistory(ctx context.Context, customerID string, limit, offset int) ([]BillResponse, int64, error)

	SetNotifier(n Notifier)
	SetCacheService(c cache.Service)
	SetCommitPolicy(retries int, backoff time.Duration)
	SetSeatLimit(max int)
}

const (
	defaultCommitRetries = 3
	defaultRetryBackoff  = 50 * time.Millisecond

	maxSeatsPerBooking = 10
)

type service struct {
	repo        Repository
	showtimes   showtimes.Lookup
	seatStore   seats.Store
	foodCatalog foods.Catalog
	ledger      *vouchers.Ledger

	notifier     Notifier
	cacheService cache.Service

	now           func() time.Time
	commitRetries int
	retryBackoff  time.Duration
	maxSeats      int
}

func NewService(repo Repository, showtimeLookup showtimes.Lookup, seatStore seats.Store, foodCatalog foods.Catalog, ledger *vouchers.Ledger) Service {
	return &service{
		repo:          repo,
		showtimes:     showtimeLookup,
		seatStore:     seatStore,
		foodCatalog:   foodCatalog,
		ledger:        ledger,
		now:           time.Now,
		commitRetries: defaultCommitRetries,
		retryBackoff:  defaultRetryBackoff,
		maxSeats:      maxSeatsPerBooking,
	}
}

// SetNotifier wires the optional Kafka confirmation publisher. Publishing is
// best-effort and never fails a committed booking.
func (s *service) SetNotifier(n Notifier) {
	s.notifier = n
}

// SetCacheService wires the optional Redis cache used to invalidate seat maps
// after a commit.
func (s *service) SetCacheService(c cache.Service) {
	s.cacheService = c
}

// SetCommitPolicy overrides the retry budget for transient commit conflicts.
func (s *service) SetCommitPolicy(retries int, backoff time.Duration) {
	if retries >= 0 {
		s.commitRetries = retries
	}
	if backoff > 0 {
		s.retryBackoff = backoff
	}
}

// SetSeatLimit overrides the maximum number of seats a single booking may
// take.
func (s *service) SetSeatLimit(max int) {
	if max > 0 {
		s.maxSeats = max
	}
}

func (s *service) CreateBooking(ctx context.Context, customerID string, req *CreateBookingRequest) (*BillResponse, error) {
	if customerID == "" {
		return nil, newInvalidInput("missing customer identity")
	}
	refs, err := validateSeatRefs(req.Seats, s.maxSeats)
	if err != nil {
		return nil, err
	}

	showtime, err := s.resolveShowtime(ctx, req.ShowtimeID)
	if err != nil {
		return nil, err
	}

	seatTypes, err := s.seatStore.SeatTypes(ctx, showtime.ID, refs)
	if err != nil {
		return nil, translateStorageError(fmt.Errorf("failed to resolve seat types: %w", err))
	}
	orderedTypes := make([]pricing.SeatType, 0, len(refs))
	for _, ref := range refs {
		t, ok := seatTypes[ref]
		if !ok {
			return nil, newInvalidInput("seat %s does not exist in this room", ref)
		}
		orderedTypes = append(orderedTypes, t)
	}

	// Advisory pre-check so most conflicts are reported before the commit
	// path takes row locks. The commit re-verifies under the lock.
	conflicts, err := s.seatStore.CheckAvailable(ctx, showtime.ID, refs)
	if err != nil {
		return nil, translateStorageError(fmt.Errorf("failed to check availability: %w", err))
	}
	if len(conflicts) > 0 {
		logger.GetDefault().LogSeatConflict(ctx, showtime.ID.String(), seatLabels(conflicts))
		return nil, newSeatConflict(conflicts)
	}

	foodOrders, foodLines, err := s.resolveFoods(ctx, req.Foods)
	if err != nil {
		return nil, err
	}

	subtotal, err := pricing.Subtotal(orderedTypes, foodOrders)
	if err != nil {
		return nil, newInvalidInput("%s", err.Error())
	}

	var discount pricing.Money
	var gift string
	if req.VoucherCode != "" {
		spec, err := s.ledger.Validate(ctx, req.VoucherCode, customerID, s.now())
		if err != nil {
			if ve, ok := vouchers.AsValidationError(err); ok {
				logger.GetDefault().LogVoucherRejected(ctx, req.VoucherCode, ve.Reason.String())
				return nil, newVoucherInvalid(ve.Reason)
			}
			return nil, translateStorageError(err)
		}
		discount = vouchers.ApplyDiscount(subtotal, spec)
		gift = spec.Gift
	}

	bill := &Bill{
		CustomerID:  customerID,
		ShowtimeID:  showtime.ID,
		Subtotal:    subtotal,
		Discount:    discount,
		Total:       subtotal - discount,
		VoucherCode: req.VoucherCode,
		Gift:        gift,
		FoodLines:   foodLines,
	}
	for i, ref := range refs {
		price, err := pricing.PriceOf(orderedTypes[i])
		if err != nil {
			return nil, newInvalidInput("%s", err.Error())
		}
		bill.Tickets = append(bill.Tickets, Ticket{
			ShowtimeID: showtime.ID,
			SeatRow:    ref.Row,
			SeatCol:    ref.Col,
			SeatType:   orderedTypes[i],
			UnitPrice:  price,
			ExpiresAt:  showtime.EndTime,
		})
	}

	if err := s.commitWithRetry(ctx, bill, refs); err != nil {
		if be, ok := AsBookingError(err); ok {
			switch be.Kind {
			case KindSeatConflict:
				logger.GetDefault().LogSeatConflict(ctx, showtime.ID.String(), seatLabels(be.Seats))
			case KindVoucherInvalid:
				logger.GetDefault().LogVoucherRejected(ctx, req.VoucherCode, string(be.VoucherReason))
			}
		}
		return nil, err
	}

	logger.GetDefault().LogBookingCreated(ctx, bill.ID.String(), showtime.ID.String(), customerID)

	if s.notifier != nil {
		if err := s.notifier.PublishBookingConfirmed(ctx, bill); err != nil {
			logger.GetDefault().Warn("failed to publish booking confirmation", "bill_id", bill.ID, "error", err)
		}
	}
	if s.cacheService != nil {
		key := constants.BuildSeatMapKey(showtime.ID.String())
		if err := s.cacheService.Delete(ctx, key); err != nil {
			logger.GetDefault().Debug("failed to invalidate seat map cache", "key", key, "error", err)
		}
	}

	resp := bill.ToResponse()
	return &resp, nil
}

// commitWithRetry replays the commit on transient storage conflicts, up to the
// retry budget, re-checking availability before each replay so a seat sold
// during the race reports as a conflict instead of a storage error.
func (s *service) commitWithRetry(ctx context.Context, bill *Bill, refs []seats.SeatRef) error {
	var lastErr error
	for attempt := 0; attempt <= s.commitRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return translateStorageError(ctx.Err())
			case <-time.After(s.retryBackoff * time.Duration(attempt)):
			}

			conflicts, err := s.seatStore.CheckAvailable(ctx, bill.ShowtimeID, refs)
			if err == nil && len(conflicts) > 0 {
				return newSeatConflict(conflicts)
			}
		}

		lastErr = s.repo.CommitBooking(ctx, bill)
		if lastErr == nil {
			return nil
		}
		be, ok := AsBookingError(lastErr)
		if !ok || !be.Retryable() {
			return lastErr
		}
		logger.GetDefault().Warn("retrying booking commit after storage conflict",
			"showtime_id", bill.ShowtimeID, "attempt", attempt+1)
	}
	return lastErr
}

func (s *service) resolveShowtime(ctx context.Context, id uuid.UUID) (*showtimes.Showtime, error) {
	showtime, err := s.showtimes.GetShowtime(ctx, id)
	if err != nil {
		if err == showtimes.ErrNotFound {
			return nil, newShowtimeNotFound(id.String())
		}
		return nil, translateStorageError(fmt.Errorf("failed to load showtime: %w", err))
	}
	if showtime.Status != showtimes.StatusPublished {
		return nil, newShowtimeNotFound(id.String())
	}
	if showtime.HasEnded(s.now()) {
		return nil, newShowtimeExpired(id.String())
	}
	return showtime, nil
}

func (s *service) resolveFoods(ctx context.Context, selections []FoodSelection) ([]pricing.FoodOrder, []FoodLineItem, error) {
	if len(selections) == 0 {
		return nil, nil, nil
	}

	ids := make([]uuid.UUID, 0, len(selections))
	for _, sel := range selections {
		if sel.Quantity < 1 {
			return nil, nil, newInvalidInput("food quantity must be at least 1")
		}
		ids = append(ids, sel.FoodID)
	}

	items, err := s.foodCatalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, translateStorageError(fmt.Errorf("failed to load food items: %w", err))
	}

	orders := make([]pricing.FoodOrder, 0, len(selections))
	lines := make([]FoodLineItem, 0, len(selections))
	for _, sel := range selections {
		item, ok := items[sel.FoodID]
		if !ok {
			return nil, nil, newInvalidInput("food item %s is not available", sel.FoodID)
		}
		orders = append(orders, pricing.FoodOrder{
			FoodID:    item.ID,
			UnitPrice: item.UnitPrice,
			Quantity:  sel.Quantity,
		})
		lines = append(lines, FoodLineItem{
			FoodID:    item.ID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  sel.Quantity,
		})
	}
	return orders, lines, nil
}

func seatLabels(refs []seats.SeatRef) []string {
	labels := make([]string, 0, len(refs))
	for _, ref := range refs {
		labels = append(labels, ref.String())
	}
	return labels
}

func validateSeatRefs(refs []seats.SeatRef, max int) ([]seats.SeatRef, error) {
	if len(refs) == 0 {
		return nil, newInvalidInput("at least one seat is required")
	}
	if len(refs) > max {
		return nil, newInvalidInput("at most %d seats per booking", max)
	}
	seen := make(map[seats.SeatRef]struct{}, len(refs))
	for _, ref := range refs {
		if ref.Row == "" || ref.Col < 1 {
			return nil, newInvalidInput("invalid seat reference %q", ref.String())
		}
		if _, dup := seen[ref]; dup {
			return nil, newInvalidInput("duplicate seat %s in request", ref.String())
		}
		seen[ref] = struct{}{}
	}
	return refs, nil
}

func (s *service) GetBooking(ctx context.Context, customerID string, billID uuid.UUID) (*BillResponse, error) {
	bill, err := s.repo.GetBillByID(ctx, billID)
	if err != nil {
		if err == ErrBillNotFound {
			return nil, err
		}
		return nil, translateStorageError(err)
	}
	if bill.CustomerID != customerID {
		// Do not leak the bill's existence to other customers.
		return nil, ErrBillNotFound
	}
	resp := bill.ToResponse()
	return &resp, nil
}

func (s *service) GetBookingHistory(ctx context.Context, customerID string, limit, offset int) ([]BillResponse, int64, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	bills, total, err := s.repo.BillsByCustomer(ctx, customerID, limit, offset)
	if err != nil {
		return nil, 0, translateStorageError(err)
	}
	out := make([]BillResponse, 0, len(bills))
	for i := range bills {
		out = append(out, bills[i].ToResponse())
	}
	return out, total, nil
}
