package http

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/courtyardhq/courtyard/internal/app"
	"github.com/courtyardhq/courtyard/internal/domain"
)

// AmenityResponse is the API representation of an amenity.
type AmenityResponse struct {
	ID           string `json:"id" doc:"Unique identifier"`
	SocietyID    string `json:"society_id" doc:"Owning society"`
	Name         string `json:"name" doc:"Amenity name"`
	Description  string `json:"description,omitempty" doc:"Amenity description"`
	Granularity  string `json:"granularity" doc:"Slot granularity (hourly or daily)"`
	PricePerSlot int64  `json:"price_per_slot" doc:"Price per slot in minor currency units"`
	CreatedAt    string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
}

func toAmenityResponse(a domain.Amenity) AmenityResponse {
	return AmenityResponse{
		ID:           a.ID,
		SocietyID:    a.SocietyID,
		Name:         a.Name,
		Description:  a.Description,
		Granularity:  string(a.Granularity),
		PricePerSlot: a.PricePerSlot,
		CreatedAt:    a.CreatedAt.Format(timeFormat),
	}
}

// BookingResponse is the API representation of a booking.
type BookingResponse struct {
	ID           string `json:"id" doc:"Unique identifier"`
	AmenityID    string `json:"amenity_id" doc:"Booked amenity"`
	SocietyID    string `json:"society_id" doc:"Owning society"`
	RentalUnitID string `json:"rental_unit_id" doc:"Unit holding the booking"`
	BookedBy     string `json:"booked_by" doc:"User who booked"`
	StartTime    string `json:"start_time" doc:"Window start (ISO 8601, slot-aligned)"`
	EndTime      string `json:"end_time" doc:"Window end (ISO 8601, slot-aligned, exclusive)"`
	SlotsBooked  int    `json:"slots_booked" doc:"Number of slots reserved"`
	AmountPaid   int64  `json:"amount_paid" doc:"Total price in minor currency units"`
	Status       string `json:"status" doc:"Lifecycle state"`
	CreatedAt    string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt    string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toBookingResponse(b domain.Booking) BookingResponse {
	return BookingResponse{
		ID:           b.ID,
		AmenityID:    b.AmenityID,
		SocietyID:    b.SocietyID,
		RentalUnitID: b.RentalUnitID,
		BookedBy:     b.BookedBy,
		StartTime:    b.StartTime.Format(timeFormat),
		EndTime:      b.EndTime.Format(timeFormat),
		SlotsBooked:  b.SlotsBooked,
		AmountPaid:   b.AmountPaid,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt.Format(timeFormat),
		UpdatedAt:    b.UpdatedAt.Format(timeFormat),
	}
}

// BookingBody pairs a booking with the outcome message of an operation.
type BookingBody struct {
	Message string          `json:"message" doc:"Operation outcome"`
	Booking BookingResponse `json:"booking"`
}

type CreateAmenityInput struct {
	UserID string `header:"X-User-ID" doc:"Acting user"`
	Body   struct {
		SocietyID    string `json:"society_id" minLength:"1" doc:"Owning society"`
		Name         string `json:"name" minLength:"1" maxLength:"255" doc:"Amenity name"`
		Description  string `json:"description,omitempty" doc:"Amenity description"`
		Granularity  string `json:"granularity" enum:"hourly,daily" doc:"Slot granularity"`
		PricePerSlot int64  `json:"price_per_slot" minimum:"0" doc:"Price per slot in minor currency units"`
	}
}

type AmenityOutput struct {
	Body AmenityResponse
}

type ListAmenitiesInput struct {
	SocietyID string `query:"society_id" required:"true" doc:"Society to list amenities for"`
}

type ListAmenitiesOutput struct {
	Body []AmenityResponse
}

type CreateBookingInput struct {
	UserID string `header:"X-User-ID" doc:"Acting user"`
	Body   struct {
		AmenityID    string    `json:"amenity_id" minLength:"1" doc:"Amenity to book"`
		RentalUnitID string    `json:"rental_unit_id" minLength:"1" doc:"Unit making the booking"`
		StartTime    time.Time `json:"start_time" doc:"Requested window start"`
		EndTime      time.Time `json:"end_time" doc:"Requested window end"`
	}
}

type BookingOutput struct {
	Body BookingBody
}

type GetBookingInput struct {
	ID string `path:"id" doc:"Booking ID"`
}

type GetBookingOutput struct {
	Body BookingResponse
}

type BookingActionInput struct {
	UserID string `header:"X-User-ID" doc:"Acting user"`
	ID     string `path:"id" doc:"Booking ID"`
}

func registerBookingRoutes(api huma.API, svc *app.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "create-amenity",
		Method:      http.MethodPost,
		Path:        "/api/v1/amenities",
		Summary:     "Register a bookable amenity",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *CreateAmenityInput) (*AmenityOutput, error) {
		a, err := svc.CreateAmenity(ctx, input.UserID, app.CreateAmenityInput{
			SocietyID:    input.Body.SocietyID,
			Name:         input.Body.Name,
			Description:  input.Body.Description,
			Granularity:  domain.Granularity(input.Body.Granularity),
			PricePerSlot: input.Body.PricePerSlot,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &AmenityOutput{Body: toAmenityResponse(a)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-amenities",
		Method:      http.MethodGet,
		Path:        "/api/v1/amenities",
		Summary:     "List a society's amenities",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *ListAmenitiesInput) (*ListAmenitiesOutput, error) {
		amenities, err := svc.ListAmenities(ctx, input.SocietyID)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]AmenityResponse, len(amenities))
		for i, a := range amenities {
			resp[i] = toAmenityResponse(a)
		}
		return &ListAmenitiesOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-booking",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookings",
		Summary:     "Book an amenity slot",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *CreateBookingInput) (*BookingOutput, error) {
		b, msg, err := svc.CreateBooking(ctx, input.UserID, app.CreateBookingInput{
			AmenityID:    input.Body.AmenityID,
			RentalUnitID: input.Body.RentalUnitID,
			StartTime:    input.Body.StartTime,
			EndTime:      input.Body.EndTime,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &BookingOutput{Body: BookingBody{Message: msg, Booking: toBookingResponse(b)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-booking",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookings/{id}",
		Summary:     "Get a booking by ID",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *GetBookingInput) (*GetBookingOutput, error) {
		b, err := svc.GetBooking(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetBookingOutput{Body: toBookingResponse(b)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "cancel-booking",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookings/{id}/cancel",
		Summary:     "Cancel a booking before it starts",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *BookingActionInput) (*BookingOutput, error) {
		b, msg, err := svc.CancelBooking(ctx, input.UserID, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &BookingOutput{Body: BookingBody{Message: msg, Booking: toBookingResponse(b)}}, nil
	})
}
