package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/courtyardhq/courtyard/internal/app"
	"github.com/courtyardhq/courtyard/internal/domain"
)

// SosResponse is the API representation of a panic alarm.
type SosResponse struct {
	ID             string `json:"id" doc:"Unique identifier"`
	SocietyID      string `json:"society_id" doc:"Society the alarm belongs to"`
	RentalUnitID   string `json:"rental_unit_id" doc:"Unit that raised it"`
	RaisedBy       string `json:"raised_by" doc:"User who raised it"`
	Category       string `json:"category,omitempty" doc:"Alarm category"`
	Status         string `json:"status" doc:"Lifecycle state"`
	AcknowledgedAt string `json:"acknowledged_at,omitempty" doc:"When a guard took ownership (ISO 8601)"`
	ResolvedAt     string `json:"resolved_at,omitempty" doc:"When the alarm was closed (ISO 8601)"`
	CreatedAt      string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt      string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toSosResponse(s domain.Sos) SosResponse {
	return SosResponse{
		ID:             s.ID,
		SocietyID:      s.SocietyID,
		RentalUnitID:   s.RentalUnitID,
		RaisedBy:       s.RaisedBy,
		Category:       s.Category,
		Status:         string(s.Status),
		AcknowledgedAt: formatTime(s.AcknowledgedAt),
		ResolvedAt:     formatTime(s.ResolvedAt),
		CreatedAt:      s.CreatedAt.Format(timeFormat),
		UpdatedAt:      s.UpdatedAt.Format(timeFormat),
	}
}

// SosBody pairs an alarm with the outcome message of an operation.
type SosBody struct {
	Message string      `json:"message" doc:"Operation outcome"`
	Sos     SosResponse `json:"sos"`
}

type RaiseSosInput struct {
	UserID string `header:"X-User-ID" doc:"Acting user"`
	Body   struct {
		SocietyID    string `json:"society_id" minLength:"1" doc:"Society ID"`
		RentalUnitID string `json:"rental_unit_id" minLength:"1" doc:"Unit raising the alarm"`
		Category     string `json:"category,omitempty" doc:"Alarm category"`
	}
}

type SosOutput struct {
	Body SosBody
}

type GetSosInput struct {
	ID string `path:"id" doc:"SOS ID"`
}

type GetSosOutput struct {
	Body SosResponse
}

type SosActionInput struct {
	UserID string `header:"X-User-ID" doc:"Acting user"`
	ID     string `path:"id" doc:"SOS ID"`
}

func registerSosRoutes(api huma.API, svc *app.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "raise-sos",
		Method:      http.MethodPost,
		Path:        "/api/v1/sos",
		Summary:     "Raise a panic alarm",
		Tags:        []string{"SOS"},
	}, func(ctx context.Context, input *RaiseSosInput) (*SosOutput, error) {
		alarm, msg, err := svc.RaiseSos(ctx, input.UserID, app.RaiseSosInput{
			SocietyID:    input.Body.SocietyID,
			RentalUnitID: input.Body.RentalUnitID,
			Category:     input.Body.Category,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &SosOutput{Body: SosBody{Message: msg, Sos: toSosResponse(alarm)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-sos",
		Method:      http.MethodGet,
		Path:        "/api/v1/sos/{id}",
		Summary:     "Get an alarm by ID",
		Tags:        []string{"SOS"},
	}, func(ctx context.Context, input *GetSosInput) (*GetSosOutput, error) {
		alarm, err := svc.GetSos(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetSosOutput{Body: toSosResponse(alarm)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "acknowledge-sos",
		Method:      http.MethodPost,
		Path:        "/api/v1/sos/{id}/acknowledge",
		Summary:     "Take ownership of an alarm",
		Tags:        []string{"SOS"},
	}, func(ctx context.Context, input *SosActionInput) (*SosOutput, error) {
		alarm, msg, err := svc.AcknowledgeSos(ctx, input.UserID, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &SosOutput{Body: SosBody{Message: msg, Sos: toSosResponse(alarm)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "resolve-sos",
		Method:      http.MethodPost,
		Path:        "/api/v1/sos/{id}/resolve",
		Summary:     "Resolve an alarm",
		Tags:        []string{"SOS"},
	}, func(ctx context.Context, input *SosActionInput) (*SosOutput, error) {
		alarm, msg, err := svc.ResolveSos(ctx, input.UserID, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &SosOutput{Body: SosBody{Message: msg, Sos: toSosResponse(alarm)}}, nil
	})
}
