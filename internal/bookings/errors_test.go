package bookings

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"cinetix/internal/seats"
	"cinetix/internal/vouchers"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		want int
	}{
		{KindInvalidInput, http.StatusBadRequest},
		{KindShowtimeNotFound, http.StatusNotFound},
		{KindShowtimeExpired, http.StatusGone},
		{KindSeatConflict, http.StatusConflict},
		{KindVoucherInvalid, http.StatusUnprocessableEntity},
		{KindStorageConflict, http.StatusServiceUnavailable},
		{KindStorageUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		be := &BookingError{Kind: tc.kind}
		if got := be.HTTPStatus(); got != tc.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestOnlyStorageConflictRetryable(t *testing.T) {
	for _, kind := range []ErrorKind{
		KindInvalidInput, KindShowtimeNotFound, KindShowtimeExpired,
		KindSeatConflict, KindVoucherInvalid, KindStorageUnavailable,
	} {
		if (&BookingError{Kind: kind}).Retryable() {
			t.Errorf("%s must not be retryable", kind)
		}
	}
	if !(&BookingError{Kind: KindStorageConflict}).Retryable() {
		t.Error("storage conflicts must be retryable")
	}
}

func TestTranslateStorageError(t *testing.T) {
	cases := []struct {
		code string
		want ErrorKind
	}{
		{"40001", KindStorageConflict},
		{"40P01", KindStorageConflict},
		{"55P03", KindStorageConflict},
		{"23505", KindSeatConflict},
		{"42703", KindStorageUnavailable},
	}
	for _, tc := range cases {
		err := fmt.Errorf("commit failed: %w", &pgconn.PgError{Code: tc.code, Message: "boom"})
		if got := translateStorageError(err); got.Kind != tc.want {
			t.Errorf("translateStorageError(%s) = %s, want %s", tc.code, got.Kind, tc.want)
		}
	}

	if got := translateStorageError(errors.New("connection refused")); got.Kind != KindStorageUnavailable {
		t.Errorf("plain error = %s, want %s", got.Kind, KindStorageUnavailable)
	}
}

func TestSeatConflictCarriesSeats(t *testing.T) {
	be := newSeatConflict([]seats.SeatRef{{Row: "A", Col: 1}, {Row: "B", Col: 2}})
	if len(be.Seats) != 2 {
		t.Fatalf("seats = %v, want 2 refs", be.Seats)
	}

	var asErr *BookingError
	if !errors.As(error(be), &asErr) {
		t.Fatal("BookingError must unwrap through errors.As")
	}
}

func TestVoucherInvalidCarriesReason(t *testing.T) {
	be := newVoucherInvalid(vouchers.ReasonAlreadyUsed)
	if be.VoucherReason != vouchers.ReasonAlreadyUsed {
		t.Errorf("reason = %s, want %s", be.VoucherReason, vouchers.ReasonAlreadyUsed)
	}
}
