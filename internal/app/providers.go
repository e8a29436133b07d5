package app

import (
	"context"
	"fmt"

	"github.com/courtyardhq/courtyard/internal/domain"
)

// RegisterProviderInput registers a local service provider with a society.
type RegisterProviderInput struct {
	SocietyID    string
	Name         string
	Code         string
	Service      string
	MobileNumber string
}

// RegisterProvider adds a provider to the society register. The gate code
// must be unique.
func (s *Service) RegisterProvider(ctx context.Context, userID string, in RegisterProviderInput) (domain.ServiceProvider, error) {
	if _, err := s.roles.ResolveInSociety(ctx, userID, in.SocietyID, domain.RoleSocietyAdmin, domain.RoleSuperAdmin); err != nil {
		return domain.ServiceProvider{}, err
	}
	if in.Name == "" || in.Code == "" {
		return domain.ServiceProvider{}, domain.ValidationError{Reason: "provider name and code are required"}
	}

	id, err := generateID()
	if err != nil {
		return domain.ServiceProvider{}, fmt.Errorf("generating provider id: %w", err)
	}

	p := domain.NewServiceProvider(id, in.SocietyID, in.Name, in.Code, in.Service, in.MobileNumber)
	if err := s.providers.CreateProvider(ctx, p); err != nil {
		return domain.ServiceProvider{}, err
	}
	return p, nil
}

// GetProvider returns a provider by id.
func (s *Service) GetProvider(ctx context.Context, id string) (domain.ServiceProvider, error) {
	return s.providers.GetProvider(ctx, id)
}

// HireProvider puts a provider to work for the caller's unit. A first hire
// creates the assignment; hiring back a previously fired provider
// reactivates it. Hiring an already active provider is a conflict.
func (s *Service) HireProvider(ctx context.Context, userID, providerID, rentalUnitID string) (domain.Assignment, string, error) {
	p, err := s.providers.GetProvider(ctx, providerID)
	if err != nil {
		return domain.Assignment{}, "", err
	}
	actor, err := s.roles.ResolveInUnit(ctx, userID, rentalUnitID)
	if err != nil {
		return domain.Assignment{}, "", err
	}

	assignment, err := s.providers.GetAssignment(ctx, providerID, rentalUnitID)
	switch {
	case isNotFound(err):
		id, err := generateID()
		if err != nil {
			return domain.Assignment{}, "", fmt.Errorf("generating assignment id: %w", err)
		}
		assignment = domain.NewAssignment(id, providerID, rentalUnitID)
		entry := domain.NewLogEntry(domain.KindServiceProvider, p.ID, domain.ProviderHired, fmt.Sprintf("hired for unit %s", rentalUnitID), actor.UserID)
		if err := s.providers.CreateAssignment(ctx, assignment, entry); err != nil {
			return domain.Assignment{}, "", err
		}
		return assignment, "provider hired", nil

	case err != nil:
		return domain.Assignment{}, "", err
	}

	if assignment.Status == domain.AssignmentActive {
		return domain.Assignment{}, "", domain.ConflictError{Reason: "provider is already hired for this unit"}
	}

	next, err := s.validator.Apply(ctx, domain.KindServiceProvider, assignment.Status, domain.EventHire)
	if err != nil {
		return domain.Assignment{}, "", err
	}
	assignment.Status = next

	entry := domain.NewLogEntry(domain.KindServiceProvider, p.ID, domain.ProviderReHired, fmt.Sprintf("re-hired for unit %s", rentalUnitID), actor.UserID)
	if err := s.providers.UpdateAssignment(ctx, assignment, entry); err != nil {
		return domain.Assignment{}, "", err
	}
	return assignment, "provider re-hired", nil
}

// FireProvider ends a provider's engagement with the caller's unit. Firing
// a provider who is not working for the unit is a conflict.
func (s *Service) FireProvider(ctx context.Context, userID, providerID, rentalUnitID string) (domain.Assignment, string, error) {
	p, err := s.providers.GetProvider(ctx, providerID)
	if err != nil {
		return domain.Assignment{}, "", err
	}
	actor, err := s.roles.ResolveInUnit(ctx, userID, rentalUnitID)
	if err != nil {
		return domain.Assignment{}, "", err
	}

	assignment, err := s.providers.GetAssignment(ctx, providerID, rentalUnitID)
	if isNotFound(err) {
		return domain.Assignment{}, "", domain.ConflictError{Reason: "provider is not hired for this unit"}
	}
	if err != nil {
		return domain.Assignment{}, "", err
	}
	if assignment.Status != domain.AssignmentActive {
		return domain.Assignment{}, "", domain.ConflictError{Reason: "provider is not hired for this unit"}
	}

	next, err := s.validator.Apply(ctx, domain.KindServiceProvider, assignment.Status, domain.EventFire)
	if err != nil {
		return domain.Assignment{}, "", err
	}
	assignment.Status = next

	entry := domain.NewLogEntry(domain.KindServiceProvider, p.ID, domain.ProviderFired, fmt.Sprintf("fired from unit %s", rentalUnitID), actor.UserID)
	if err := s.providers.UpdateAssignment(ctx, assignment, entry); err != nil {
		return domain.Assignment{}, "", err
	}
	return assignment, "provider fired", nil
}

// ProviderEntry records a provider entering the society and pings the units
// they work for. The gate code presented at the desk must match the
// provider's registered code. Recording entry for a provider already inside
// is a no-op.
func (s *Service) ProviderEntry(ctx context.Context, userID, providerID, code string) (domain.ServiceProvider, string, error) {
	p, err := s.providers.GetProvider(ctx, providerID)
	if err != nil {
		return domain.ServiceProvider{}, "", err
	}
	actor, err := s.roles.ResolveInSociety(ctx, userID, p.SocietyID, domain.RoleSecurityGuard, domain.RoleSocietyAdmin)
	if err != nil {
		return domain.ServiceProvider{}, "", err
	}
	if code != p.Code {
		return domain.ServiceProvider{}, "", domain.ValidationError{Reason: "invalid provider code"}
	}
	if p.Inside {
		return p, "provider already inside", nil
	}

	entry := domain.NewLogEntry(domain.KindServiceProvider, p.ID, domain.ProviderEntry, "entered the society", actor.UserID)
	if err := s.providers.SetProviderInside(ctx, p.ID, true, entry); err != nil {
		return domain.ServiceProvider{}, "", err
	}
	p.Inside = true

	s.notifyActiveUnits(ctx, p, "Provider arrived", fmt.Sprintf("%s has entered the society", p.Name))

	return p, "provider entry recorded", nil
}

// ProviderExit records a provider leaving the society after a gate-code
// match. Recording exit for a provider already outside is a no-op.
func (s *Service) ProviderExit(ctx context.Context, userID, providerID, code string) (domain.ServiceProvider, string, error) {
	p, err := s.providers.GetProvider(ctx, providerID)
	if err != nil {
		return domain.ServiceProvider{}, "", err
	}
	actor, err := s.roles.ResolveInSociety(ctx, userID, p.SocietyID, domain.RoleSecurityGuard, domain.RoleSocietyAdmin)
	if err != nil {
		return domain.ServiceProvider{}, "", err
	}
	if code != p.Code {
		return domain.ServiceProvider{}, "", domain.ValidationError{Reason: "invalid provider code"}
	}
	if !p.Inside {
		return p, "provider already outside", nil
	}

	entry := domain.NewLogEntry(domain.KindServiceProvider, p.ID, domain.ProviderExit, "left the society", actor.UserID)
	if err := s.providers.SetProviderInside(ctx, p.ID, false, entry); err != nil {
		return domain.ServiceProvider{}, "", err
	}
	p.Inside = false

	s.notifyActiveUnits(ctx, p, "Provider left", fmt.Sprintf("%s has left the society", p.Name))

	return p, "provider exit recorded", nil
}

// MarkAttendance records a provider present at the caller's unit today.
// Attendance is once per day per unit; marking it again is a no-op.
func (s *Service) MarkAttendance(ctx context.Context, userID, providerID, rentalUnitID string) (string, error) {
	p, err := s.providers.GetProvider(ctx, providerID)
	if err != nil {
		return "", err
	}
	actor, err := s.roles.ResolveInUnit(ctx, userID, rentalUnitID)
	if err != nil {
		return "", err
	}

	assignment, err := s.providers.GetAssignment(ctx, providerID, rentalUnitID)
	if isNotFound(err) || (err == nil && assignment.Status != domain.AssignmentActive) {
		return "", domain.ConflictError{Reason: "provider is not hired for this unit"}
	}
	if err != nil {
		return "", err
	}

	today := s.now().UTC()
	day := today.Format("2006-01-02")
	marked, err := s.providers.HasAttendanceOn(ctx, providerID, rentalUnitID, day)
	if err != nil {
		return "", err
	}
	if marked {
		return "attendance already marked for today", nil
	}

	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("generating attendance id: %w", err)
	}

	rec := domain.NewAttendanceRecord(id, providerID, rentalUnitID, today)
	entry := domain.NewLogEntry(domain.KindServiceProvider, p.ID, domain.ProviderAttendance, fmt.Sprintf("attendance marked for unit %s", rentalUnitID), actor.UserID)
	if err := s.providers.CreateAttendance(ctx, rec, entry); err != nil {
		// Lost a race with another device marking the same day.
		if isConflict(err) {
			return "attendance already marked for today", nil
		}
		return "", err
	}

	return "attendance marked", nil
}

func (s *Service) notifyActiveUnits(ctx context.Context, p domain.ServiceProvider, title, message string) {
	units, err := s.providers.ActiveUnits(ctx, p.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "listing active units failed", "provider_id", p.ID, "error", err)
		return
	}
	for _, unit := range units {
		s.notify(ctx, domain.Notification{
			Audience: domain.AudienceRentalUnit,
			ScopeID:  unit,
			Title:    title,
			Message:  message,
			Data:     map[string]string{"provider_id": p.ID},
		})
	}
}
