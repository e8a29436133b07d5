package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/courtyardhq/courtyard/internal/app"
	"github.com/courtyardhq/courtyard/internal/domain"
)

// ComplaintResponse is the API representation of a complaint.
type ComplaintResponse struct {
	ID           string `json:"id" doc:"Unique identifier"`
	SocietyID    string `json:"society_id" doc:"Society the complaint belongs to"`
	RentalUnitID string `json:"rental_unit_id" doc:"Unit that filed it"`
	RaisedBy     string `json:"raised_by" doc:"User who filed it"`
	Category     string `json:"category,omitempty" doc:"Complaint category"`
	Subject      string `json:"subject" doc:"Short summary"`
	Description  string `json:"description,omitempty" doc:"Full description"`
	Status       string `json:"status" doc:"Lifecycle state"`
	Rating       int    `json:"rating,omitempty" doc:"Satisfaction score given on resolution (1-5)"`
	CreatedAt    string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt    string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toComplaintResponse(c domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:           c.ID,
		SocietyID:    c.SocietyID,
		RentalUnitID: c.RentalUnitID,
		RaisedBy:     c.RaisedBy,
		Category:     c.Category,
		Subject:      c.Subject,
		Description:  c.Description,
		Status:       string(c.Status),
		Rating:       c.Rating,
		CreatedAt:    c.CreatedAt.Format(timeFormat),
		UpdatedAt:    c.UpdatedAt.Format(timeFormat),
	}
}

// CommentResponse is the API representation of a complaint comment.
type CommentResponse struct {
	ID        string `json:"id" doc:"Unique identifier"`
	AuthorID  string `json:"author_id" doc:"Comment author"`
	Body      string `json:"body" doc:"Comment text"`
	CreatedAt string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
}

func toCommentResponse(c domain.ComplaintComment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt.Format(timeFormat),
	}
}

// ComplaintBody pairs a complaint with the outcome message of an operation.
type ComplaintBody struct {
	Message   string            `json:"message" doc:"Operation outcome"`
	Complaint ComplaintResponse `json:"complaint"`
}

type CreateComplaintInput struct {
	UserID string `header:"X-User-ID" doc:"Acting user"`
	Body   struct {
		SocietyID    string `json:"society_id" minLength:"1" doc:"Society ID"`
		RentalUnitID string `json:"rental_unit_id" minLength:"1" doc:"Unit filing the complaint"`
		Category     string `json:"category,omitempty" doc:"Complaint category"`
		Subject      string `json:"subject" minLength:"1" maxLength:"255" doc:"Short summary"`
		Description  string `json:"description,omitempty" doc:"Full description"`
	}
}

type ComplaintOutput struct {
	Body ComplaintBody
}

type GetComplaintInput struct {
	ID string `path:"id" doc:"Complaint ID"`
}

type GetComplaintOutput struct {
	Body ComplaintResponse
}

type ComplaintActionInput struct {
	UserID string `header:"X-User-ID" doc:"Acting user"`
	ID     string `path:"id" doc:"Complaint ID"`
}

type ResolveComplaintInput struct {
	UserID string `header:"X-User-ID" doc:"Acting user"`
	ID     string `path:"id" doc:"Complaint ID"`
	Body   struct {
		Comment string `json:"comment,omitempty" doc:"Closing comment"`
		Rating  int    `json:"rating,omitempty" minimum:"1" maximum:"5" doc:"Satisfaction score"`
	}
}

type AddCommentInput struct {
	UserID string `header:"X-User-ID" doc:"Acting user"`
	ID     string `path:"id" doc:"Complaint ID"`
	Body   struct {
		Body string `json:"body" minLength:"1" doc:"Comment text"`
	}
}

type AddCommentOutput struct {
	Body CommentResponse
}

type ListCommentsInput struct {
	ID string `path:"id" doc:"Complaint ID"`
}

type ListCommentsOutput struct {
	Body []CommentResponse
}

func registerComplaintRoutes(api huma.API, svc *app.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "create-complaint",
		Method:      http.MethodPost,
		Path:        "/api/v1/complaints",
		Summary:     "File a complaint",
		Tags:        []string{"Complaints"},
	}, func(ctx context.Context, input *CreateComplaintInput) (*ComplaintOutput, error) {
		c, msg, err := svc.CreateComplaint(ctx, input.UserID, app.CreateComplaintInput{
			SocietyID:    input.Body.SocietyID,
			RentalUnitID: input.Body.RentalUnitID,
			Category:     input.Body.Category,
			Subject:      input.Body.Subject,
			Description:  input.Body.Description,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ComplaintOutput{Body: ComplaintBody{Message: msg, Complaint: toComplaintResponse(c)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-complaint",
		Method:      http.MethodGet,
		Path:        "/api/v1/complaints/{id}",
		Summary:     "Get a complaint by ID",
		Tags:        []string{"Complaints"},
	}, func(ctx context.Context, input *GetComplaintInput) (*GetComplaintOutput, error) {
		c, err := svc.GetComplaint(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetComplaintOutput{Body: toComplaintResponse(c)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "start-complaint-progress",
		Method:      http.MethodPost,
		Path:        "/api/v1/complaints/{id}/progress",
		Summary:     "Start working a complaint",
		Tags:        []string{"Complaints"},
	}, func(ctx context.Context, input *ComplaintActionInput) (*ComplaintOutput, error) {
		c, msg, err := svc.StartComplaintProgress(ctx, input.UserID, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ComplaintOutput{Body: ComplaintBody{Message: msg, Complaint: toComplaintResponse(c)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "resolve-complaint",
		Method:      http.MethodPost,
		Path:        "/api/v1/complaints/{id}/resolve",
		Summary:     "Resolve a complaint",
		Tags:        []string{"Complaints"},
	}, func(ctx context.Context, input *ResolveComplaintInput) (*ComplaintOutput, error) {
		c, msg, err := svc.ResolveComplaint(ctx, input.UserID, input.ID, input.Body.Comment, input.Body.Rating)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ComplaintOutput{Body: ComplaintBody{Message: msg, Complaint: toComplaintResponse(c)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-complaint-comment",
		Method:      http.MethodPost,
		Path:        "/api/v1/complaints/{id}/comments",
		Summary:     "Comment on an open complaint",
		Tags:        []string{"Complaints"},
	}, func(ctx context.Context, input *AddCommentInput) (*AddCommentOutput, error) {
		comment, err := svc.AddComplaintComment(ctx, input.UserID, input.ID, input.Body.Body)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &AddCommentOutput{Body: toCommentResponse(comment)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-complaint-comments",
		Method:      http.MethodGet,
		Path:        "/api/v1/complaints/{id}/comments",
		Summary:     "List a complaint's comments",
		Tags:        []string{"Complaints"},
	}, func(ctx context.Context, input *ListCommentsInput) (*ListCommentsOutput, error) {
		comments, err := svc.ListComplaintComments(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]CommentResponse, len(comments))
		for i, c := range comments {
			resp[i] = toCommentResponse(c)
		}
		return &ListCommentsOutput{Body: resp}, nil
	})
}
