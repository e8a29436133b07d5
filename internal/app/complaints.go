package app

import (
	"context"
	"fmt"

	"github.com/courtyardhq/courtyard/internal/domain"
)

// CreateComplaintInput carries a new complaint.
type CreateComplaintInput struct {
	SocietyID    string
	RentalUnitID string
	Category     string
	Subject      string
	Description  string
}

// CreateComplaint files a complaint on behalf of a resident and alerts the
// society admins.
func (s *Service) CreateComplaint(ctx context.Context, userID string, in CreateComplaintInput) (domain.Complaint, string, error) {
	actor, err := s.roles.ResolveInUnit(ctx, userID, in.RentalUnitID)
	if err != nil {
		return domain.Complaint{}, "", err
	}
	if in.Subject == "" {
		return domain.Complaint{}, "", domain.ValidationError{Reason: "complaint subject is required"}
	}

	id, err := generateID()
	if err != nil {
		return domain.Complaint{}, "", fmt.Errorf("generating complaint id: %w", err)
	}

	c := domain.NewComplaint(id, in.SocietyID, in.RentalUnitID, actor.UserID, in.Category, in.Subject, in.Description)
	entry := domain.NewLogEntry(domain.KindComplaint, c.ID, c.Status, "complaint filed", actor.UserID)
	if err := s.complaints.CreateComplaint(ctx, c, entry); err != nil {
		return domain.Complaint{}, "", err
	}

	s.notify(ctx, domain.Notification{
		Audience: domain.AudienceSocietyAdmins,
		ScopeID:  c.SocietyID,
		Title:    "New complaint",
		Message:  c.Subject,
		Data:     map[string]string{"complaint_id": c.ID},
	})

	return c, "complaint filed", nil
}

// GetComplaint returns a complaint by id.
func (s *Service) GetComplaint(ctx context.Context, id string) (domain.Complaint, error) {
	return s.complaints.GetComplaint(ctx, id)
}

// StartComplaintProgress moves a fresh complaint into in_progress. Only a
// society admin may work a complaint.
func (s *Service) StartComplaintProgress(ctx context.Context, userID, complaintID string) (domain.Complaint, string, error) {
	c, err := s.complaints.GetComplaint(ctx, complaintID)
	if err != nil {
		return domain.Complaint{}, "", err
	}
	actor, err := s.roles.ResolveInSociety(ctx, userID, c.SocietyID, domain.RoleSocietyAdmin, domain.RoleSuperAdmin)
	if err != nil {
		return domain.Complaint{}, "", err
	}

	next, err := s.validator.Apply(ctx, domain.KindComplaint, c.Status, domain.EventStartProgress)
	if err != nil {
		return domain.Complaint{}, "", err
	}
	c.Status = next

	entry := domain.NewLogEntry(domain.KindComplaint, c.ID, c.Status, "work started", actor.UserID)
	if err := s.complaints.UpdateComplaint(ctx, c, nil, entry); err != nil {
		return domain.Complaint{}, "", err
	}

	s.notify(ctx, domain.Notification{
		Audience: domain.AudienceRentalUnit,
		ScopeID:  c.RentalUnitID,
		Title:    "Complaint in progress",
		Message:  fmt.Sprintf("Work has started on %q", c.Subject),
		Data:     map[string]string{"complaint_id": c.ID},
	})

	return c, "complaint in progress", nil
}

// ResolveComplaint closes a complaint, optionally attaching a closing
// comment and a 1-5 rating in the same transaction as the status change.
// A resident of the complaint's unit may resolve it, as may a society admin.
func (s *Service) ResolveComplaint(ctx context.Context, userID, complaintID, closingComment string, rating int) (domain.Complaint, string, error) {
	c, err := s.complaints.GetComplaint(ctx, complaintID)
	if err != nil {
		return domain.Complaint{}, "", err
	}

	actor, err := s.roles.ResolveInUnit(ctx, userID, c.RentalUnitID)
	if err != nil {
		actor, err = s.roles.ResolveInSociety(ctx, userID, c.SocietyID, domain.RoleSocietyAdmin, domain.RoleSuperAdmin)
		if err != nil {
			return domain.Complaint{}, "", err
		}
	}
	if rating != 0 && (rating < 1 || rating > 5) {
		return domain.Complaint{}, "", domain.ValidationError{Reason: "rating must be between 1 and 5"}
	}

	next, err := s.validator.Apply(ctx, domain.KindComplaint, c.Status, domain.EventResolve)
	if err != nil {
		return domain.Complaint{}, "", err
	}
	c.Status = next
	if rating != 0 {
		c.Rating = rating
	}

	var comment *domain.ComplaintComment
	if closingComment != "" {
		id, err := generateID()
		if err != nil {
			return domain.Complaint{}, "", fmt.Errorf("generating comment id: %w", err)
		}
		cc := domain.NewComplaintComment(id, c.ID, actor.UserID, closingComment)
		comment = &cc
	}

	entry := domain.NewLogEntry(domain.KindComplaint, c.ID, c.Status, "complaint resolved", actor.UserID)
	if err := s.complaints.UpdateComplaint(ctx, c, comment, entry); err != nil {
		return domain.Complaint{}, "", err
	}

	s.notify(ctx, domain.Notification{
		Audience: domain.AudienceRentalUnit,
		ScopeID:  c.RentalUnitID,
		Title:    "Complaint resolved",
		Message:  fmt.Sprintf("%q has been resolved", c.Subject),
		Data:     map[string]string{"complaint_id": c.ID},
	})

	return c, "complaint resolved", nil
}

// AddComplaintComment appends a comment to an open complaint. Resolved
// complaints no longer accept comments.
func (s *Service) AddComplaintComment(ctx context.Context, userID, complaintID, body string) (domain.ComplaintComment, error) {
	c, err := s.complaints.GetComplaint(ctx, complaintID)
	if err != nil {
		return domain.ComplaintComment{}, err
	}

	actor, err := s.roles.ResolveInUnit(ctx, userID, c.RentalUnitID)
	if err != nil {
		actor, err = s.roles.ResolveInSociety(ctx, userID, c.SocietyID, domain.RoleSocietyAdmin, domain.RoleSuperAdmin)
		if err != nil {
			return domain.ComplaintComment{}, err
		}
	}
	if c.Status == domain.ComplaintResolved {
		return domain.ComplaintComment{}, domain.ConflictError{Reason: "complaint is already resolved"}
	}
	if body == "" {
		return domain.ComplaintComment{}, domain.ValidationError{Reason: "comment body is required"}
	}

	id, err := generateID()
	if err != nil {
		return domain.ComplaintComment{}, fmt.Errorf("generating comment id: %w", err)
	}

	comment := domain.NewComplaintComment(id, c.ID, actor.UserID, body)
	if err := s.complaints.AddComment(ctx, comment); err != nil {
		return domain.ComplaintComment{}, err
	}
	return comment, nil
}

// ListComplaintComments returns a complaint's comment thread, oldest first.
func (s *Service) ListComplaintComments(ctx context.Context, complaintID string) ([]domain.ComplaintComment, error) {
	if _, err := s.complaints.GetComplaint(ctx, complaintID); err != nil {
		return nil, err
	}
	return s.complaints.ListComments(ctx, complaintID)
}
