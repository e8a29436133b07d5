package app

import (
	"context"
	"fmt"
	"time"

	"github.com/courtyardhq/courtyard/internal/domain"
)

// CreateVisitorInput carries the gate entry details for a new visitor.
type CreateVisitorInput struct {
	SocietyID         string
	RentalUnitID      string
	Type              domain.VisitorType
	Name              string
	VendorName        string
	MobileNumber      string
	VehicleNumber     string
	VisitorCount      int
	LeaveParcelAtGate bool
}

// PreApproveVisitorInput announces an expected visitor ahead of arrival.
type PreApproveVisitorInput struct {
	SocietyID     string
	RentalUnitID  string
	Type          domain.VisitorType
	Name          string
	VendorName    string
	MobileNumber  string
	VehicleNumber string
	ApprovedFrom  time.Time
	ApprovedTill  time.Time
}

// CreateVisitor registers a walk-in visitor at the gate and asks the rental
// unit for approval. The caller must be a guard or admin of the society.
func (s *Service) CreateVisitor(ctx context.Context, userID string, in CreateVisitorInput) (domain.Visitor, string, error) {
	actor, err := s.roles.ResolveInSociety(ctx, userID, in.SocietyID, domain.RoleSecurityGuard, domain.RoleSocietyAdmin)
	if err != nil {
		return domain.Visitor{}, "", err
	}

	id, err := generateID()
	if err != nil {
		return domain.Visitor{}, "", fmt.Errorf("generating visitor id: %w", err)
	}

	v := domain.NewVisitor(id, in.SocietyID, in.RentalUnitID, in.Type)
	v.Name = in.Name
	v.VendorName = in.VendorName
	v.MobileNumber = in.MobileNumber
	v.VehicleNumber = in.VehicleNumber
	v.VisitorCount = max(in.VisitorCount, 1)
	v.LeaveParcelAtGate = in.LeaveParcelAtGate

	entry := domain.NewLogEntry(domain.KindVisitor, v.ID, v.Status, "visitor registered at gate", actor.UserID)
	if err := s.visitors.CreateVisitor(ctx, v, entry); err != nil {
		return domain.Visitor{}, "", err
	}

	s.notify(ctx, domain.Notification{
		Audience: domain.AudienceRentalUnit,
		ScopeID:  v.RentalUnitID,
		Title:    "Visitor at gate",
		Message:  fmt.Sprintf("%s is waiting at the gate for your approval", visitorLabel(v)),
		Data:     map[string]string{"visitor_id": v.ID},
	})

	return v, "visitor registered, approval requested", nil
}

// CreatePreApprovedVisitor lets a resident announce a visitor in advance.
// The visitor can be let in without another approval round while the window
// is open.
func (s *Service) CreatePreApprovedVisitor(ctx context.Context, userID string, in PreApproveVisitorInput) (domain.Visitor, string, error) {
	actor, err := s.roles.ResolveInUnit(ctx, userID, in.RentalUnitID)
	if err != nil {
		return domain.Visitor{}, "", err
	}
	if !in.ApprovedTill.After(in.ApprovedFrom) {
		return domain.Visitor{}, "", domain.ValidationError{Reason: "pre-approval window end must be after start"}
	}

	id, err := generateID()
	if err != nil {
		return domain.Visitor{}, "", fmt.Errorf("generating visitor id: %w", err)
	}

	v := domain.NewPreApprovedVisitor(id, in.SocietyID, in.RentalUnitID, in.Type, in.ApprovedFrom.UTC(), in.ApprovedTill.UTC())
	v.Name = in.Name
	v.VendorName = in.VendorName
	v.MobileNumber = in.MobileNumber
	v.VehicleNumber = in.VehicleNumber
	v.VisitorCount = 1

	entry := domain.NewLogEntry(domain.KindVisitor, v.ID, v.Status, "visitor pre-approved by resident", actor.UserID)
	if err := s.visitors.CreateVisitor(ctx, v, entry); err != nil {
		return domain.Visitor{}, "", err
	}

	s.notify(ctx, domain.Notification{
		Audience: domain.AudienceSocietyGuards,
		ScopeID:  v.SocietyID,
		Title:    "Visitor pre-approved",
		Message:  fmt.Sprintf("%s is expected, no approval needed on arrival", visitorLabel(v)),
		Data:     map[string]string{"visitor_id": v.ID},
	})

	return v, "visitor pre-approved", nil
}

// GetVisitor returns a visitor by id.
func (s *Service) GetVisitor(ctx context.Context, id string) (domain.Visitor, error) {
	return s.visitors.GetVisitor(ctx, id)
}

// ApproveVisitor lets a resident of the target unit approve a pending
// visitor. Approving an already approved visitor is a no-op.
func (s *Service) ApproveVisitor(ctx context.Context, userID, visitorID string) (domain.Visitor, string, error) {
	v, err := s.visitors.GetVisitor(ctx, visitorID)
	if err != nil {
		return domain.Visitor{}, "", err
	}
	actor, err := s.roles.ResolveInUnit(ctx, userID, v.RentalUnitID)
	if err != nil {
		return domain.Visitor{}, "", err
	}
	if v.Status == domain.VisitorApproved {
		return v, "visitor already approved", nil
	}

	next, err := s.validator.Apply(ctx, domain.KindVisitor, v.Status, domain.EventApprove)
	if err != nil {
		return domain.Visitor{}, "", err
	}
	v.Status = next

	entry := domain.NewLogEntry(domain.KindVisitor, v.ID, v.Status, "approved by resident", actor.UserID)
	if err := s.visitors.UpdateVisitor(ctx, v, entry); err != nil {
		return domain.Visitor{}, "", err
	}

	s.notify(ctx, domain.Notification{
		Audience: domain.AudienceSocietyGuards,
		ScopeID:  v.SocietyID,
		Title:    "Visitor approved",
		Message:  fmt.Sprintf("%s may be allowed in", visitorLabel(v)),
		Data:     map[string]string{"visitor_id": v.ID},
	})

	return v, "visitor approved", nil
}

// DenyVisitor lets a resident turn a pending visitor away. Denying an
// already denied visitor is a no-op.
func (s *Service) DenyVisitor(ctx context.Context, userID, visitorID string) (domain.Visitor, string, error) {
	v, err := s.visitors.GetVisitor(ctx, visitorID)
	if err != nil {
		return domain.Visitor{}, "", err
	}
	actor, err := s.roles.ResolveInUnit(ctx, userID, v.RentalUnitID)
	if err != nil {
		return domain.Visitor{}, "", err
	}
	if v.Status == domain.VisitorDenied {
		return v, "visitor already denied", nil
	}

	next, err := s.validator.Apply(ctx, domain.KindVisitor, v.Status, domain.EventDeny)
	if err != nil {
		return domain.Visitor{}, "", err
	}
	v.Status = next

	entry := domain.NewLogEntry(domain.KindVisitor, v.ID, v.Status, "denied by resident", actor.UserID)
	if err := s.visitors.UpdateVisitor(ctx, v, entry); err != nil {
		return domain.Visitor{}, "", err
	}

	s.notify(ctx, domain.Notification{
		Audience: domain.AudienceSocietyGuards,
		ScopeID:  v.SocietyID,
		Title:    "Visitor denied",
		Message:  fmt.Sprintf("%s must be turned away", visitorLabel(v)),
		Data:     map[string]string{"visitor_id": v.ID},
	})

	return v, "visitor denied", nil
}

// AllowEntry records that the guard let an approved or pre-approved visitor
// through the gate. A lapsed pre-approval window blocks entry. Letting in a
// visitor who is already inside is a no-op.
func (s *Service) AllowEntry(ctx context.Context, userID, visitorID string) (domain.Visitor, string, error) {
	v, err := s.visitors.GetVisitor(ctx, visitorID)
	if err != nil {
		return domain.Visitor{}, "", err
	}
	actor, err := s.roles.ResolveInSociety(ctx, userID, v.SocietyID, domain.RoleSecurityGuard, domain.RoleSocietyAdmin)
	if err != nil {
		return domain.Visitor{}, "", err
	}
	if v.Status == domain.VisitorAllowedEntry {
		return v, "visitor already allowed entry", nil
	}
	if v.Status == domain.VisitorPreApproved {
		now := s.now().UTC()
		if now.Before(v.ApprovedFrom) || now.After(v.ApprovedTill) {
			return domain.Visitor{}, "", domain.ConflictError{Reason: "pre-approval window is not open"}
		}
	}

	next, err := s.validator.Apply(ctx, domain.KindVisitor, v.Status, domain.EventAllowEntry)
	if err != nil {
		return domain.Visitor{}, "", err
	}
	v.Status = next

	entry := domain.NewLogEntry(domain.KindVisitor, v.ID, v.Status, "allowed in at gate", actor.UserID)
	if err := s.visitors.UpdateVisitor(ctx, v, entry); err != nil {
		return domain.Visitor{}, "", err
	}

	s.notify(ctx, domain.Notification{
		Audience: domain.AudienceRentalUnit,
		ScopeID:  v.RentalUnitID,
		Title:    "Visitor on the way",
		Message:  fmt.Sprintf("%s has entered the society", visitorLabel(v)),
		Data:     map[string]string{"visitor_id": v.ID},
	})

	return v, "visitor allowed entry", nil
}

// MarkExit records the visitor leaving the society. Marking an already
// exited visitor is a no-op.
func (s *Service) MarkExit(ctx context.Context, userID, visitorID string) (domain.Visitor, string, error) {
	v, err := s.visitors.GetVisitor(ctx, visitorID)
	if err != nil {
		return domain.Visitor{}, "", err
	}
	actor, err := s.roles.ResolveInSociety(ctx, userID, v.SocietyID, domain.RoleSecurityGuard, domain.RoleSocietyAdmin)
	if err != nil {
		return domain.Visitor{}, "", err
	}
	if v.Status == domain.VisitorExited {
		return v, "visitor already exited", nil
	}

	next, err := s.validator.Apply(ctx, domain.KindVisitor, v.Status, domain.EventMarkExit)
	if err != nil {
		return domain.Visitor{}, "", err
	}
	v.Status = next

	entry := domain.NewLogEntry(domain.KindVisitor, v.ID, v.Status, "exited the society", actor.UserID)
	if err := s.visitors.UpdateVisitor(ctx, v, entry); err != nil {
		return domain.Visitor{}, "", err
	}

	return v, "visitor exit recorded", nil
}

// ReceiveParcel records a delivery left with the guard instead of being
// carried up to the unit.
func (s *Service) ReceiveParcel(ctx context.Context, userID, visitorID string) (domain.Visitor, string, error) {
	v, err := s.visitors.GetVisitor(ctx, visitorID)
	if err != nil {
		return domain.Visitor{}, "", err
	}
	actor, err := s.roles.ResolveInSociety(ctx, userID, v.SocietyID, domain.RoleSecurityGuard, domain.RoleSocietyAdmin)
	if err != nil {
		return domain.Visitor{}, "", err
	}

	next, err := s.validator.Apply(ctx, domain.KindVisitor, v.Status, domain.EventReceiveParcel)
	if err != nil {
		return domain.Visitor{}, "", err
	}
	v.Status = next

	entry := domain.NewLogEntry(domain.KindVisitor, v.ID, v.Status, "parcel received at gate", actor.UserID)
	if err := s.visitors.UpdateVisitor(ctx, v, entry); err != nil {
		return domain.Visitor{}, "", err
	}

	s.notify(ctx, domain.Notification{
		Audience: domain.AudienceRentalUnit,
		ScopeID:  v.RentalUnitID,
		Title:    "Parcel at gate",
		Message:  "A parcel was left for you with the security desk",
		Data:     map[string]string{"visitor_id": v.ID},
	})

	return v, "parcel received at gate", nil
}

// CollectParcel records the resident picking up a held parcel. Only someone
// from the visited unit can collect.
func (s *Service) CollectParcel(ctx context.Context, userID, visitorID, collectedBy string) (domain.Visitor, string, error) {
	v, err := s.visitors.GetVisitor(ctx, visitorID)
	if err != nil {
		return domain.Visitor{}, "", err
	}
	actor, err := s.roles.ResolveInUnit(ctx, userID, v.RentalUnitID)
	if err != nil {
		return domain.Visitor{}, "", err
	}

	next, err := s.validator.Apply(ctx, domain.KindVisitor, v.Status, domain.EventCollectParcel)
	if err != nil {
		return domain.Visitor{}, "", err
	}
	v.Status = next
	v.ParcelCollectedBy = collectedBy

	entry := domain.NewLogEntry(domain.KindVisitor, v.ID, v.Status, "parcel collected", actor.UserID)
	if err := s.visitors.UpdateVisitor(ctx, v, entry); err != nil {
		return domain.Visitor{}, "", err
	}

	return v, "parcel collected", nil
}

func visitorLabel(v domain.Visitor) string {
	switch {
	case v.Name != "":
		return v.Name
	case v.VendorName != "":
		return v.VendorName
	default:
		return "a visitor"
	}
}
