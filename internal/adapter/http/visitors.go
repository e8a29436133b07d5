package http

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/courtyardhq/courtyard/internal/app"
	"github.com/courtyardhq/courtyard/internal/domain"
)

// VisitorResponse is the API representation of a visitor.
type VisitorResponse struct {
	ID                string `json:"id" doc:"Unique identifier"`
	SocietyID         string `json:"society_id" doc:"Society the visitor is at"`
	RentalUnitID      string `json:"rental_unit_id" doc:"Unit being visited"`
	Type              string `json:"type" doc:"Visitor category"`
	Name              string `json:"name,omitempty" doc:"Visitor name"`
	VendorName        string `json:"vendor_name,omitempty" doc:"Delivery vendor"`
	MobileNumber      string `json:"mobile_number,omitempty" doc:"Contact number"`
	VehicleNumber     string `json:"vehicle_number,omitempty" doc:"Vehicle plate"`
	VisitorCount      int    `json:"visitor_count" doc:"Party size"`
	LeaveParcelAtGate bool   `json:"leave_parcel_at_gate" doc:"Parcel to be held at gate"`
	ParcelCollectedBy string `json:"parcel_collected_by,omitempty" doc:"Who picked up the parcel"`
	ApprovedFrom      string `json:"approved_from,omitempty" doc:"Pre-approval window start (ISO 8601)"`
	ApprovedTill      string `json:"approved_till,omitempty" doc:"Pre-approval window end (ISO 8601)"`
	Status            string `json:"status" doc:"Lifecycle state"`
	CreatedAt         string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt         string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toVisitorResponse(v domain.Visitor) VisitorResponse {
	return VisitorResponse{
		ID:                v.ID,
		SocietyID:         v.SocietyID,
		RentalUnitID:      v.RentalUnitID,
		Type:              string(v.Type),
		Name:              v.Name,
		VendorName:        v.VendorName,
		MobileNumber:      v.MobileNumber,
		VehicleNumber:     v.VehicleNumber,
		VisitorCount:      v.VisitorCount,
		LeaveParcelAtGate: v.LeaveParcelAtGate,
		ParcelCollectedBy: v.ParcelCollectedBy,
		ApprovedFrom:      formatTime(v.ApprovedFrom),
		ApprovedTill:      formatTime(v.ApprovedTill),
		Status:            string(v.Status),
		CreatedAt:         v.CreatedAt.Format(timeFormat),
		UpdatedAt:         v.UpdatedAt.Format(timeFormat),
	}
}

// VisitorBody pairs a visitor with the outcome message of an operation.
type VisitorBody struct {
	Message string          `json:"message" doc:"Operation outcome"`
	Visitor VisitorResponse `json:"visitor"`
}

type CreateVisitorInput struct {
	UserID string `header:"X-User-ID" doc:"Acting user"`
	Body   struct {
		SocietyID         string `json:"society_id" minLength:"1" doc:"Society ID"`
		RentalUnitID      string `json:"rental_unit_id" minLength:"1" doc:"Unit being visited"`
		Type              string `json:"type" enum:"delivery,cab,visitor" doc:"Visitor category"`
		Name              string `json:"name,omitempty" doc:"Visitor name"`
		VendorName        string `json:"vendor_name,omitempty" doc:"Delivery vendor"`
		MobileNumber      string `json:"mobile_number,omitempty" doc:"Contact number"`
		VehicleNumber     string `json:"vehicle_number,omitempty" doc:"Vehicle plate"`
		VisitorCount      int    `json:"visitor_count,omitempty" minimum:"1" doc:"Party size"`
		LeaveParcelAtGate bool   `json:"leave_parcel_at_gate,omitempty" doc:"Hold the parcel at the gate"`
	}
}

type PreApproveVisitorInput struct {
	UserID string `header:"X-User-ID" doc:"Acting user"`
	Body   struct {
		SocietyID     string    `json:"society_id" minLength:"1" doc:"Society ID"`
		RentalUnitID  string    `json:"rental_unit_id" minLength:"1" doc:"Host unit"`
		Type          string    `json:"type" enum:"delivery,cab,visitor" doc:"Visitor category"`
		Name          string    `json:"name,omitempty" doc:"Visitor name"`
		VendorName    string    `json:"vendor_name,omitempty" doc:"Delivery vendor"`
		MobileNumber  string    `json:"mobile_number,omitempty" doc:"Contact number"`
		VehicleNumber string    `json:"vehicle_number,omitempty" doc:"Vehicle plate"`
		ApprovedFrom  time.Time `json:"approved_from" doc:"Window start (ISO 8601)"`
		ApprovedTill  time.Time `json:"approved_till" doc:"Window end (ISO 8601)"`
	}
}

type VisitorOutput struct {
	Body VisitorBody
}

type GetVisitorInput struct {
	ID string `path:"id" doc:"Visitor ID"`
}

type GetVisitorOutput struct {
	Body VisitorResponse
}

type VisitorActionInput struct {
	UserID string `header:"X-User-ID" doc:"Acting user"`
	ID     string `path:"id" doc:"Visitor ID"`
}

type CollectParcelInput struct {
	UserID string `header:"X-User-ID" doc:"Acting user"`
	ID     string `path:"id" doc:"Visitor ID"`
	Body   struct {
		CollectedBy string `json:"collected_by,omitempty" doc:"Who picked up the parcel"`
	}
}

func registerVisitorRoutes(api huma.API, svc *app.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "create-visitor",
		Method:      http.MethodPost,
		Path:        "/api/v1/visitors",
		Summary:     "Register a visitor at the gate",
		Tags:        []string{"Visitors"},
	}, func(ctx context.Context, input *CreateVisitorInput) (*VisitorOutput, error) {
		v, msg, err := svc.CreateVisitor(ctx, input.UserID, app.CreateVisitorInput{
			SocietyID:         input.Body.SocietyID,
			RentalUnitID:      input.Body.RentalUnitID,
			Type:              domain.VisitorType(input.Body.Type),
			Name:              input.Body.Name,
			VendorName:        input.Body.VendorName,
			MobileNumber:      input.Body.MobileNumber,
			VehicleNumber:     input.Body.VehicleNumber,
			VisitorCount:      input.Body.VisitorCount,
			LeaveParcelAtGate: input.Body.LeaveParcelAtGate,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &VisitorOutput{Body: VisitorBody{Message: msg, Visitor: toVisitorResponse(v)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "pre-approve-visitor",
		Method:      http.MethodPost,
		Path:        "/api/v1/visitors/pre-approved",
		Summary:     "Pre-approve an expected visitor",
		Tags:        []string{"Visitors"},
	}, func(ctx context.Context, input *PreApproveVisitorInput) (*VisitorOutput, error) {
		v, msg, err := svc.CreatePreApprovedVisitor(ctx, input.UserID, app.PreApproveVisitorInput{
			SocietyID:     input.Body.SocietyID,
			RentalUnitID:  input.Body.RentalUnitID,
			Type:          domain.VisitorType(input.Body.Type),
			Name:          input.Body.Name,
			VendorName:    input.Body.VendorName,
			MobileNumber:  input.Body.MobileNumber,
			VehicleNumber: input.Body.VehicleNumber,
			ApprovedFrom:  input.Body.ApprovedFrom,
			ApprovedTill:  input.Body.ApprovedTill,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &VisitorOutput{Body: VisitorBody{Message: msg, Visitor: toVisitorResponse(v)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-visitor",
		Method:      http.MethodGet,
		Path:        "/api/v1/visitors/{id}",
		Summary:     "Get a visitor by ID",
		Tags:        []string{"Visitors"},
	}, func(ctx context.Context, input *GetVisitorInput) (*GetVisitorOutput, error) {
		v, err := svc.GetVisitor(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetVisitorOutput{Body: toVisitorResponse(v)}, nil
	})

	action := func(id, path, summary string, fn func(ctx context.Context, userID, visitorID string) (domain.Visitor, string, error)) {
		huma.Register(api, huma.Operation{
			OperationID: id,
			Method:      http.MethodPost,
			Path:        path,
			Summary:     summary,
			Tags:        []string{"Visitors"},
		}, func(ctx context.Context, input *VisitorActionInput) (*VisitorOutput, error) {
			v, msg, err := fn(ctx, input.UserID, input.ID)
			if err != nil {
				return nil, toHumaError(err)
			}
			return &VisitorOutput{Body: VisitorBody{Message: msg, Visitor: toVisitorResponse(v)}}, nil
		})
	}

	action("approve-visitor", "/api/v1/visitors/{id}/approve", "Approve a pending visitor", svc.ApproveVisitor)
	action("deny-visitor", "/api/v1/visitors/{id}/deny", "Deny a pending visitor", svc.DenyVisitor)
	action("allow-visitor-entry", "/api/v1/visitors/{id}/allow-entry", "Let an approved visitor in", svc.AllowEntry)
	action("mark-visitor-exit", "/api/v1/visitors/{id}/mark-exit", "Record the visitor leaving", svc.MarkExit)
	action("receive-parcel", "/api/v1/visitors/{id}/receive-parcel", "Hold a parcel at the gate", svc.ReceiveParcel)

	huma.Register(api, huma.Operation{
		OperationID: "collect-parcel",
		Method:      http.MethodPost,
		Path:        "/api/v1/visitors/{id}/collect-parcel",
		Summary:     "Record a held parcel being picked up",
		Tags:        []string{"Visitors"},
	}, func(ctx context.Context, input *CollectParcelInput) (*VisitorOutput, error) {
		v, msg, err := svc.CollectParcel(ctx, input.UserID, input.ID, input.Body.CollectedBy)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &VisitorOutput{Body: VisitorBody{Message: msg, Visitor: toVisitorResponse(v)}}, nil
	})
}
