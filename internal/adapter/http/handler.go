// Package http exposes the workflow operations as a REST API built on Huma.
// The acting user is identified by the X-User-ID header; role checks happen
// in the app layer against the society and unit each entity belongs to.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/courtyardhq/courtyard/internal/app"
	"github.com/courtyardhq/courtyard/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

// Register adds all API routes to the Huma API.
func Register(api huma.API, svc *app.Service) {
	registerVisitorRoutes(api, svc)
	registerSosRoutes(api, svc)
	registerComplaintRoutes(api, svc)
	registerBookingRoutes(api, svc)
	registerProviderRoutes(api, svc)
	registerLedgerRoutes(api, svc)
}

// LogEntryResponse is the API representation of one status ledger row.
type LogEntryResponse struct {
	ID        int64  `json:"id" doc:"Ledger sequence number"`
	Status    string `json:"status" doc:"Status recorded by this entry"`
	Message   string `json:"message,omitempty" doc:"Free-form note"`
	ActorID   string `json:"actor_id,omitempty" doc:"User who caused the change"`
	CreatedAt string `json:"created_at" doc:"Entry timestamp (ISO 8601)"`
}

type HistoryInput struct {
	Kind string `path:"kind" enum:"visitor,sos,complaint,booking,service_provider" doc:"Entity kind"`
	ID   string `path:"id" doc:"Entity ID"`
}

type HistoryOutput struct {
	Body []LogEntryResponse
}

type EntityHistoryInput struct {
	ID string `path:"id" doc:"Entity ID"`
}

func toHistoryOutput(entries []domain.StatusLogEntry) *HistoryOutput {
	resp := make([]LogEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = LogEntryResponse{
			ID:        e.ID,
			Status:    string(e.Status),
			Message:   e.Message,
			ActorID:   e.ActorID,
			CreatedAt: e.CreatedAt.Format(timeFormat),
		}
	}
	return &HistoryOutput{Body: resp}
}

func registerLedgerRoutes(api huma.API, svc *app.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "get-status-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/history/{kind}/{id}",
		Summary:     "Get the status ledger of an entity",
		Tags:        []string{"Ledger"},
	}, func(ctx context.Context, input *HistoryInput) (*HistoryOutput, error) {
		entries, err := svc.History(ctx, domain.Kind(input.Kind), input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return toHistoryOutput(entries), nil
	})

	// Per-resource aliases for the same ledger.
	resources := []struct {
		kind domain.Kind
		path string
	}{
		{domain.KindVisitor, "visitors"},
		{domain.KindSos, "sos"},
		{domain.KindComplaint, "complaints"},
		{domain.KindBooking, "bookings"},
		{domain.KindServiceProvider, "providers"},
	}
	for _, r := range resources {
		kind := r.kind
		huma.Register(api, huma.Operation{
			OperationID: "get-" + r.path + "-history",
			Method:      http.MethodGet,
			Path:        "/api/v1/" + r.path + "/{id}/history",
			Summary:     "Get the status ledger of a " + string(kind),
			Tags:        []string{"Ledger"},
		}, func(ctx context.Context, input *EntityHistoryInput) (*HistoryOutput, error) {
			entries, err := svc.History(ctx, kind, input.ID)
			if err != nil {
				return nil, toHumaError(err)
			}
			return toHistoryOutput(entries), nil
		})
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeFormat)
}

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	var nfErr domain.NotFoundError
	if errors.As(err, &nfErr) {
		return huma.Error404NotFound(nfErr.Error())
	}

	var authErr domain.AuthorizationError
	if errors.As(err, &authErr) {
		return huma.Error403Forbidden(authErr.Error())
	}

	var conflictErr domain.ConflictError
	if errors.As(err, &conflictErr) {
		return huma.Error409Conflict(conflictErr.Error())
	}

	var trErr domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error422UnprocessableEntity(trErr.Error())
	}

	var valErr domain.ValidationError
	if errors.As(err, &valErr) {
		return huma.Error422UnprocessableEntity(valErr.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}
