package app

import (
	"context"
	"fmt"
	"time"

	"github.com/courtyardhq/courtyard/internal/domain"
)

// CreateAmenityInput registers a bookable facility.
type CreateAmenityInput struct {
	SocietyID    string
	Name         string
	Description  string
	Granularity  domain.Granularity
	PricePerSlot int64
}

// CreateAmenity registers a facility residents can book. Only a society
// admin may add amenities.
func (s *Service) CreateAmenity(ctx context.Context, userID string, in CreateAmenityInput) (domain.Amenity, error) {
	if _, err := s.roles.ResolveInSociety(ctx, userID, in.SocietyID, domain.RoleSocietyAdmin, domain.RoleSuperAdmin); err != nil {
		return domain.Amenity{}, err
	}
	if in.Name == "" {
		return domain.Amenity{}, domain.ValidationError{Reason: "amenity name is required"}
	}
	if in.Granularity != domain.GranularityHourly && in.Granularity != domain.GranularityDaily {
		return domain.Amenity{}, domain.ValidationError{Reason: "granularity must be hourly or daily"}
	}
	if in.PricePerSlot < 0 {
		return domain.Amenity{}, domain.ValidationError{Reason: "price per slot must not be negative"}
	}

	id, err := generateID()
	if err != nil {
		return domain.Amenity{}, fmt.Errorf("generating amenity id: %w", err)
	}

	a := domain.NewAmenity(id, in.SocietyID, in.Name, in.Description, in.Granularity, in.PricePerSlot)
	if err := s.amenities.CreateAmenity(ctx, a); err != nil {
		return domain.Amenity{}, err
	}
	return a, nil
}

// ListAmenities returns a society's amenities.
func (s *Service) ListAmenities(ctx context.Context, societyID string) ([]domain.Amenity, error) {
	return s.amenities.ListAmenities(ctx, societyID)
}

// CreateBookingInput reserves an amenity for a window.
type CreateBookingInput struct {
	AmenityID    string
	RentalUnitID string
	StartTime    time.Time
	EndTime      time.Time
}

// CreateBooking reserves an amenity for the caller's unit. The window is
// normalized to the amenity's slot grid, priced per slot, and rejected with
// a conflict when it clashes with an existing booking.
func (s *Service) CreateBooking(ctx context.Context, userID string, in CreateBookingInput) (domain.Booking, string, error) {
	actor, err := s.roles.ResolveInUnit(ctx, userID, in.RentalUnitID)
	if err != nil {
		return domain.Booking{}, "", err
	}

	amenity, err := s.amenities.GetAmenity(ctx, in.AmenityID)
	if err != nil {
		return domain.Booking{}, "", err
	}

	window, err := domain.NewBookingWindow(in.StartTime, in.EndTime, amenity.Granularity, s.now().UTC())
	if err != nil {
		return domain.Booking{}, "", err
	}

	id, err := generateID()
	if err != nil {
		return domain.Booking{}, "", fmt.Errorf("generating booking id: %w", err)
	}

	b := domain.NewBooking(id, amenity, in.RentalUnitID, actor.UserID, window)
	entry := domain.NewLogEntry(domain.KindBooking, b.ID, b.Status, "amenity booked", actor.UserID)
	if err := s.bookings.CreateBooking(ctx, b, entry); err != nil {
		return domain.Booking{}, "", err
	}

	s.notify(ctx, domain.Notification{
		Audience: domain.AudienceRentalUnit,
		ScopeID:  b.RentalUnitID,
		Title:    "Booking confirmed",
		Message:  fmt.Sprintf("%s booked for %d slot(s), total %d", amenity.Name, b.SlotsBooked, b.AmountPaid),
		Data:     map[string]string{"booking_id": b.ID},
	})

	return b, "amenity booked", nil
}

// GetBooking returns a booking by id.
func (s *Service) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	return s.bookings.GetBooking(ctx, id)
}

// CancelBooking frees a reserved window before it starts. The caller must
// belong to the unit that booked it.
func (s *Service) CancelBooking(ctx context.Context, userID, bookingID string) (domain.Booking, string, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, "", err
	}
	actor, err := s.roles.ResolveInUnit(ctx, userID, b.RentalUnitID)
	if err != nil {
		return domain.Booking{}, "", err
	}
	if !s.now().UTC().Before(b.StartTime) {
		return domain.Booking{}, "", domain.ConflictError{Reason: "booking has already started"}
	}

	next, err := s.validator.Apply(ctx, domain.KindBooking, b.Status, domain.EventCancel)
	if err != nil {
		return domain.Booking{}, "", err
	}
	b.Status = next

	entry := domain.NewLogEntry(domain.KindBooking, b.ID, b.Status, "booking cancelled", actor.UserID)
	if err := s.bookings.UpdateBooking(ctx, b, entry); err != nil {
		return domain.Booking{}, "", err
	}

	return b, "booking cancelled", nil
}
