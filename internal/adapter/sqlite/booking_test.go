package sqlite_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/courtyardhq/courtyard/internal/adapter/sqlite"
	"github.com/courtyardhq/courtyard/internal/domain"
)

func makeBooking(t *testing.T, id string, startHour, endHour int) domain.Booking {
	t.Helper()
	start := time.Date(2026, 3, 2, startHour, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, endHour, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	window, err := domain.NewBookingWindow(start, end, domain.GranularityHourly, now)
	if err != nil {
		t.Fatalf("NewBookingWindow failed: %v", err)
	}
	amenity := domain.Amenity{ID: "am-1", SocietyID: "soc-1", Granularity: domain.GranularityHourly, PricePerSlot: 50}
	return domain.NewBooking(id, amenity, "unit-1", "u-1", window)
}

func mustBook(t *testing.T, store *sqlite.Store, b domain.Booking) {
	t.Helper()
	if err := store.CreateBooking(context.Background(), b, entry(domain.KindBooking, b.ID, b.Status)); err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
}

func TestCreateBooking_OverlapRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustBook(t, store, makeBooking(t, "bk-1", 10, 12))

	err := store.CreateBooking(ctx, makeBooking(t, "bk-2", 11, 13), entry(domain.KindBooking, "bk-2", domain.BookingBooked))
	var conflict domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestCreateBooking_AdjacentWindowAllowed(t *testing.T) {
	store := newTestStore(t)

	mustBook(t, store, makeBooking(t, "bk-1", 10, 12))

	// [12:00, 14:00) starts exactly where the first booking ends.
	mustBook(t, store, makeBooking(t, "bk-2", 12, 14))
}

func TestCreateBooking_ContainingWindowRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustBook(t, store, makeBooking(t, "bk-1", 11, 12))

	// [10:00, 14:00) swallows the existing booking; its start endpoint
	// falls inside the requested window, so the endpoint check trips.
	err := store.CreateBooking(ctx, makeBooking(t, "bk-2", 10, 14), entry(domain.KindBooking, "bk-2", domain.BookingBooked))
	var conflict domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestCreateBooking_ContainedWindowMissedByDefault(t *testing.T) {
	store := newTestStore(t)

	// The endpoint check only looks at the existing rows' endpoints, so a
	// request that lies strictly inside an existing booking slips through.
	// WithFullOverlapCheck closes this gap.
	mustBook(t, store, makeBooking(t, "bk-1", 10, 14))
	mustBook(t, store, makeBooking(t, "bk-2", 11, 13))
}

func TestCreateBooking_FullOverlapCheck(t *testing.T) {
	store := newTestStore(t, sqlite.WithFullOverlapCheck())
	ctx := context.Background()

	mustBook(t, store, makeBooking(t, "bk-1", 10, 14))

	// The interval check catches the contained window the endpoint check
	// lets through.
	err := store.CreateBooking(ctx, makeBooking(t, "bk-2", 11, 13), entry(domain.KindBooking, "bk-2", domain.BookingBooked))
	var conflict domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestCreateBooking_CancelledIgnored(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	b := makeBooking(t, "bk-1", 10, 12)
	mustBook(t, store, b)

	b.Status = domain.BookingCancelled
	if err := store.UpdateBooking(ctx, b, entry(domain.KindBooking, b.ID, b.Status)); err != nil {
		t.Fatalf("UpdateBooking failed: %v", err)
	}

	// The window freed up by the cancellation can be booked again.
	mustBook(t, store, makeBooking(t, "bk-2", 10, 12))
}

func TestCreateBooking_ConcurrentRequestsOneWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	b1 := makeBooking(t, "bk-1", 10, 12)
	b2 := makeBooking(t, "bk-2", 11, 13)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, b := range []domain.Booking{b1, b2} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = store.CreateBooking(ctx, b, entry(domain.KindBooking, b.ID, b.Status))
		}()
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			var conflict domain.ConflictError
			if errors.As(err, &conflict) {
				conflicted++
			} else {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	}
	if succeeded != 1 || conflicted != 1 {
		t.Errorf("got %d successes and %d conflicts, want exactly one of each", succeeded, conflicted)
	}
}
