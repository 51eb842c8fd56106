package bookings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cinetix/internal/seats"
	"cinetix/internal/vouchers"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorKind classifies why a booking attempt failed.
type ErrorKind string

const (
	KindInvalidInput       ErrorKind = "INVALID_INPUT"
	KindShowtimeNotFound   ErrorKind = "SHOWTIME_NOT_FOUND"
	KindShowtimeExpired    ErrorKind = "SHOWTIME_EXPIRED"
	KindSeatConflict       ErrorKind = "SEAT_CONFLICT"
	KindVoucherInvalid     ErrorKind = "VOUCHER_INVALID"
	KindStorageConflict    ErrorKind = "STORAGE_CONFLICT"
	KindStorageUnavailable ErrorKind = "STORAGE_UNAVAILABLE"
)

// BookingError is the tagged failure result of a booking attempt. Every kind
// except StorageUnavailable carries the actionable detail the customer needs
// to correct the request.
type BookingError struct {
	Kind          ErrorKind       `json:"kind"`
	Message       string          `json:"message"`
	Seats         []seats.SeatRef `json:"seats,omitempty"`
	VoucherReason vouchers.Reason `json:"voucher_reason,omitempty"`
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("booking failed (%s): %s", e.Kind, e.Message)
}

// Retryable reports whether the manager may replay the commit. Only
// transient storage races qualify; seat conflicts and voucher rejections
// reflect user intent and are surfaced instead.
func (e *BookingError) Retryable() bool {
	return e.Kind == KindStorageConflict
}

// HTTPStatus maps the error kind to a response status.
func (e *BookingError) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindShowtimeNotFound:
		return http.StatusNotFound
	case KindShowtimeExpired:
		return http.StatusGone
	case KindSeatConflict:
		return http.StatusConflict
	case KindVoucherInvalid:
		return http.StatusUnprocessableEntity
	case KindStorageConflict, KindStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AsBookingError unwraps err into a *BookingError if it is one.
func AsBookingError(err error) (*BookingError, bool) {
	var be *BookingError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

func newInvalidInput(format string, args ...interface{}) *BookingError {
	return &BookingError{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func newShowtimeNotFound(id string) *BookingError {
	return &BookingError{Kind: KindShowtimeNotFound, Message: fmt.Sprintf("showtime %s not found", id)}
}

func newShowtimeExpired(id string) *BookingError {
	return &BookingError{Kind: KindShowtimeExpired, Message: fmt.Sprintf("showtime %s has already ended", id)}
}

func newSeatConflict(refs []seats.SeatRef) *BookingError {
	labels := make([]string, 0, len(refs))
	for _, ref := range refs {
		labels = append(labels, ref.String())
	}
	return &BookingError{
		Kind:    KindSeatConflict,
		Message: fmt.Sprintf("seats no longer available: %s", strings.Join(labels, ", ")),
		Seats:   refs,
	}
}

func newVoucherInvalid(reason vouchers.Reason) *BookingError {
	return &BookingError{
		Kind:          KindVoucherInvalid,
		Message:       fmt.Sprintf("voucher rejected: %s", reason),
		VoucherReason: reason,
	}
}

// Postgres error codes the commit path has to distinguish.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgUniqueViolation      = "23505"
)

// translateStorageError classifies a commit-time storage error. Lock races
// and serialization failures are transient (retryable); a unique violation
// on the ticket seat index means another transaction sold the seat first;
// anything else means the store is unavailable for this request.
func translateStorageError(err error) *BookingError {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &BookingError{Kind: KindStorageUnavailable, Message: "booking aborted: " + err.Error()}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return &BookingError{Kind: KindStorageConflict, Message: "transient storage conflict: " + pgErr.Message}
		case pgUniqueViolation:
			return &BookingError{Kind: KindSeatConflict, Message: "seat was sold by a concurrent booking"}
		}
	}

	return &BookingError{Kind: KindStorageUnavailable, Message: "storage unavailable: " + err.Error()}
}
