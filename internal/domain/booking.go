package domain

import (
	"fmt"
	"time"
)

// Booking states.
const (
	BookingBooked    Status = "booked"
	BookingCancelled Status = "cancelled"
)

const EventCancel Event = "cancel"

var bookingTransitions = []Transition{
	{Event: EventCancel, Src: BookingBooked, Dst: BookingCancelled},
}

// Granularity is the slot unit an amenity is booked in.
type Granularity string

const (
	GranularityHourly Granularity = "hourly"
	GranularityDaily  Granularity = "daily"
)

func (g Granularity) unit() time.Duration {
	if g == GranularityDaily {
		return 24 * time.Hour
	}
	return time.Hour
}

// Amenity is a bookable society facility such as a clubhouse or court.
type Amenity struct {
	ID           string
	SocietyID    string
	Name         string
	Description  string
	Granularity  Granularity
	PricePerSlot int64
	CreatedAt    time.Time
}

func NewAmenity(id, societyID, name, description string, granularity Granularity, pricePerSlot int64) Amenity {
	return Amenity{
		ID:           id,
		SocietyID:    societyID,
		Name:         name,
		Description:  description,
		Granularity:  granularity,
		PricePerSlot: pricePerSlot,
		CreatedAt:    time.Now().UTC(),
	}
}

// Booking reserves an amenity for a half-open window [Start, End).
type Booking struct {
	ID           string
	AmenityID    string
	SocietyID    string
	RentalUnitID string
	BookedBy     string
	StartTime    time.Time
	EndTime      time.Time
	SlotsBooked  int
	AmountPaid   int64
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BookingWindow is a normalized, validated reservation window.
type BookingWindow struct {
	Start time.Time
	End   time.Time
	Slots int
}

// MaxAdvanceBookingDays bounds how far ahead an amenity may be reserved.
const MaxAdvanceBookingDays = 30

// NewBookingWindow normalizes the requested window to the amenity's slot
// grid: the start floors to the slot boundary, the end ceils to it. The
// resulting half-open window must lie in the future and within the advance
// booking horizon.
func NewBookingWindow(start, end time.Time, granularity Granularity, now time.Time) (BookingWindow, error) {
	unit := granularity.unit()
	start = start.UTC().Truncate(unit)
	end = end.UTC()
	if rounded := end.Truncate(unit); rounded.Before(end) {
		end = rounded.Add(unit)
	}
	if !end.After(start) {
		return BookingWindow{}, ValidationError{Reason: "booking end must be after start"}
	}
	if start.Before(now) {
		return BookingWindow{}, ValidationError{Reason: "booking window must be in the future"}
	}
	if start.After(now.AddDate(0, 0, MaxAdvanceBookingDays)) {
		return BookingWindow{}, ValidationError{Reason: fmt.Sprintf("bookings open at most %d days in advance", MaxAdvanceBookingDays)}
	}
	return BookingWindow{
		Start: start,
		End:   end,
		Slots: int(end.Sub(start) / unit),
	}, nil
}

// Cost is the total price for the window at the given per-slot rate.
func (w BookingWindow) Cost(pricePerSlot int64) int64 {
	return int64(w.Slots) * pricePerSlot
}

func NewBooking(id string, amenity Amenity, rentalUnitID, bookedBy string, window BookingWindow) Booking {
	now := time.Now().UTC()
	return Booking{
		ID:           id,
		AmenityID:    amenity.ID,
		SocietyID:    amenity.SocietyID,
		RentalUnitID: rentalUnitID,
		BookedBy:     bookedBy,
		StartTime:    window.Start,
		EndTime:      window.End,
		SlotsBooked:  window.Slots,
		AmountPaid:   window.Cost(amenity.PricePerSlot),
		Status:       BookingBooked,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
