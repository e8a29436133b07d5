package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/courtyardhq/courtyard/internal/app"
	"github.com/courtyardhq/courtyard/internal/domain"
)

// ProviderResponse is the API representation of a service provider.
type ProviderResponse struct {
	ID           string `json:"id" doc:"Unique identifier"`
	SocietyID    string `json:"society_id" doc:"Society the provider works in"`
	Name         string `json:"name" doc:"Provider name"`
	Code         string `json:"code" doc:"Gate code"`
	Service      string `json:"service,omitempty" doc:"Service offered"`
	MobileNumber string `json:"mobile_number,omitempty" doc:"Contact number"`
	Inside       bool   `json:"inside" doc:"Whether the provider is currently inside the premises"`
	CreatedAt    string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt    string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toProviderResponse(p domain.ServiceProvider) ProviderResponse {
	return ProviderResponse{
		ID:           p.ID,
		SocietyID:    p.SocietyID,
		Name:         p.Name,
		Code:         p.Code,
		Service:      p.Service,
		MobileNumber: p.MobileNumber,
		Inside:       p.Inside,
		CreatedAt:    p.CreatedAt.Format(timeFormat),
		UpdatedAt:    p.UpdatedAt.Format(timeFormat),
	}
}

// AssignmentResponse is the API representation of a provider-unit engagement.
type AssignmentResponse struct {
	ID           string `json:"id" doc:"Unique identifier"`
	ProviderID   string `json:"provider_id" doc:"Engaged provider"`
	RentalUnitID string `json:"rental_unit_id" doc:"Engaging unit"`
	Status       string `json:"status" doc:"Engagement state"`
	CreatedAt    string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt    string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toAssignmentResponse(a domain.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:           a.ID,
		ProviderID:   a.ProviderID,
		RentalUnitID: a.RentalUnitID,
		Status:       string(a.Status),
		CreatedAt:    a.CreatedAt.Format(timeFormat),
		UpdatedAt:    a.UpdatedAt.Format(timeFormat),
	}
}

// ProviderBody pairs a provider with the outcome message of an operation.
type ProviderBody struct {
	Message  string           `json:"message" doc:"Operation outcome"`
	Provider ProviderResponse `json:"provider"`
}

// AssignmentBody pairs an assignment with the outcome message of an operation.
type AssignmentBody struct {
	Message    string             `json:"message" doc:"Operation outcome"`
	Assignment AssignmentResponse `json:"assignment"`
}

type RegisterProviderInput struct {
	UserID string `header:"X-User-ID" doc:"Acting user"`
	Body   struct {
		SocietyID    string `json:"society_id" minLength:"1" doc:"Society the provider works in"`
		Name         string `json:"name" minLength:"1" maxLength:"255" doc:"Provider name"`
		Code         string `json:"code" minLength:"1" maxLength:"32" doc:"Gate code, unique per provider"`
		Service      string `json:"service,omitempty" doc:"Service offered"`
		MobileNumber string `json:"mobile_number,omitempty" doc:"Contact number"`
	}
}

type ProviderOutput struct {
	Body ProviderResponse
}

type GetProviderInput struct {
	ID string `path:"id" doc:"Provider ID"`
}

type EngagementInput struct {
	UserID string `header:"X-User-ID" doc:"Acting user"`
	ID     string `path:"id" doc:"Provider ID"`
	Body   struct {
		RentalUnitID string `json:"rental_unit_id" minLength:"1" doc:"Unit engaging the provider"`
	}
}

type AssignmentOutput struct {
	Body AssignmentBody
}

type GateActionInput struct {
	UserID string `header:"X-User-ID" doc:"Acting user"`
	ID     string `path:"id" doc:"Provider ID"`
	Body   struct {
		Code string `json:"code" minLength:"1" doc:"Gate code presented by the provider"`
	}
}

type ProviderActionOutput struct {
	Body ProviderBody
}

type AttendanceOutput struct {
	Body struct {
		Message string `json:"message" doc:"Operation outcome"`
	}
}

func registerProviderRoutes(api huma.API, svc *app.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "register-provider",
		Method:      http.MethodPost,
		Path:        "/api/v1/providers",
		Summary:     "Register a local service provider",
		Tags:        []string{"Providers"},
	}, func(ctx context.Context, input *RegisterProviderInput) (*ProviderOutput, error) {
		p, err := svc.RegisterProvider(ctx, input.UserID, app.RegisterProviderInput{
			SocietyID:    input.Body.SocietyID,
			Name:         input.Body.Name,
			Code:         input.Body.Code,
			Service:      input.Body.Service,
			MobileNumber: input.Body.MobileNumber,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ProviderOutput{Body: toProviderResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-provider",
		Method:      http.MethodGet,
		Path:        "/api/v1/providers/{id}",
		Summary:     "Get a provider by ID",
		Tags:        []string{"Providers"},
	}, func(ctx context.Context, input *GetProviderInput) (*ProviderOutput, error) {
		p, err := svc.GetProvider(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ProviderOutput{Body: toProviderResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "hire-provider",
		Method:      http.MethodPost,
		Path:        "/api/v1/providers/{id}/hire",
		Summary:     "Hire a provider for a unit",
		Tags:        []string{"Providers"},
	}, func(ctx context.Context, input *EngagementInput) (*AssignmentOutput, error) {
		a, msg, err := svc.HireProvider(ctx, input.UserID, input.ID, input.Body.RentalUnitID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &AssignmentOutput{Body: AssignmentBody{Message: msg, Assignment: toAssignmentResponse(a)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "fire-provider",
		Method:      http.MethodPost,
		Path:        "/api/v1/providers/{id}/fire",
		Summary:     "End a provider's engagement with a unit",
		Tags:        []string{"Providers"},
	}, func(ctx context.Context, input *EngagementInput) (*AssignmentOutput, error) {
		a, msg, err := svc.FireProvider(ctx, input.UserID, input.ID, input.Body.RentalUnitID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &AssignmentOutput{Body: AssignmentBody{Message: msg, Assignment: toAssignmentResponse(a)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "provider-entry",
		Method:      http.MethodPost,
		Path:        "/api/v1/providers/{id}/entry",
		Summary:     "Record a provider entering the premises",
		Tags:        []string{"Providers"},
	}, func(ctx context.Context, input *GateActionInput) (*ProviderActionOutput, error) {
		p, msg, err := svc.ProviderEntry(ctx, input.UserID, input.ID, input.Body.Code)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ProviderActionOutput{Body: ProviderBody{Message: msg, Provider: toProviderResponse(p)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "provider-exit",
		Method:      http.MethodPost,
		Path:        "/api/v1/providers/{id}/exit",
		Summary:     "Record a provider leaving the premises",
		Tags:        []string{"Providers"},
	}, func(ctx context.Context, input *GateActionInput) (*ProviderActionOutput, error) {
		p, msg, err := svc.ProviderExit(ctx, input.UserID, input.ID, input.Body.Code)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ProviderActionOutput{Body: ProviderBody{Message: msg, Provider: toProviderResponse(p)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "mark-provider-attendance",
		Method:      http.MethodPost,
		Path:        "/api/v1/providers/{id}/attendance",
		Summary:     "Mark a provider's attendance for today",
		Tags:        []string{"Providers"},
	}, func(ctx context.Context, input *EngagementInput) (*AttendanceOutput, error) {
		msg, err := svc.MarkAttendance(ctx, input.UserID, input.ID, input.Body.RentalUnitID)
		if err != nil {
			return nil, toHumaError(err)
		}
		out := &AttendanceOutput{}
		out.Body.Message = msg
		return out, nil
	})
}
