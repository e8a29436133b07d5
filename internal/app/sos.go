package app

import (
	"context"
	"fmt"

	"github.com/courtyardhq/courtyard/internal/domain"
)

// RaiseSosInput carries the alarm details.
type RaiseSosInput struct {
	SocietyID    string
	RentalUnitID string
	Category     string
}

// RaiseSos creates a panic alarm for the caller's unit and alerts the
// society guards.
func (s *Service) RaiseSos(ctx context.Context, userID string, in RaiseSosInput) (domain.Sos, string, error) {
	actor, err := s.roles.ResolveInUnit(ctx, userID, in.RentalUnitID)
	if err != nil {
		return domain.Sos{}, "", err
	}

	id, err := generateID()
	if err != nil {
		return domain.Sos{}, "", fmt.Errorf("generating sos id: %w", err)
	}

	alarm := domain.NewSos(id, in.SocietyID, in.RentalUnitID, actor.UserID, in.Category)
	entry := domain.NewLogEntry(domain.KindSos, alarm.ID, alarm.Status, "sos raised", actor.UserID)
	if err := s.sos.CreateSos(ctx, alarm, entry); err != nil {
		return domain.Sos{}, "", err
	}

	s.notify(ctx, domain.Notification{
		Audience: domain.AudienceSocietyGuards,
		ScopeID:  alarm.SocietyID,
		Title:    "SOS raised",
		Message:  fmt.Sprintf("Unit %s raised a %s alarm", alarm.RentalUnitID, alarm.Category),
		Data:     map[string]string{"sos_id": alarm.ID},
	})

	return alarm, "sos raised", nil
}

// GetSos returns an alarm by id.
func (s *Service) GetSos(ctx context.Context, id string) (domain.Sos, error) {
	return s.sos.GetSos(ctx, id)
}

// AcknowledgeSos records a guard taking ownership of a fresh alarm. An alarm
// can only be acknowledged once.
func (s *Service) AcknowledgeSos(ctx context.Context, userID, sosID string) (domain.Sos, string, error) {
	alarm, err := s.sos.GetSos(ctx, sosID)
	if err != nil {
		return domain.Sos{}, "", err
	}
	actor, err := s.roles.ResolveInSociety(ctx, userID, alarm.SocietyID, domain.RoleSecurityGuard, domain.RoleSocietyAdmin)
	if err != nil {
		return domain.Sos{}, "", err
	}
	if alarm.Status != domain.SosCreated {
		return domain.Sos{}, "", domain.ConflictError{Reason: "sos already acknowledged or resolved"}
	}

	next, err := s.validator.Apply(ctx, domain.KindSos, alarm.Status, domain.EventAcknowledge)
	if err != nil {
		return domain.Sos{}, "", err
	}
	alarm.Status = next
	alarm.AcknowledgedAt = s.now().UTC()

	entry := domain.NewLogEntry(domain.KindSos, alarm.ID, alarm.Status, "acknowledged by guard", actor.UserID)
	if err := s.sos.UpdateSos(ctx, alarm, entry); err != nil {
		return domain.Sos{}, "", err
	}

	s.notify(ctx, domain.Notification{
		Audience: domain.AudienceRentalUnit,
		ScopeID:  alarm.RentalUnitID,
		Title:    "Help is on the way",
		Message:  "A guard has acknowledged your alarm",
		Data:     map[string]string{"sos_id": alarm.ID},
	})

	return alarm, "sos acknowledged", nil
}

// ResolveSos closes an alarm, either directly or after acknowledgement.
// A resolved alarm stays resolved.
func (s *Service) ResolveSos(ctx context.Context, userID, sosID string) (domain.Sos, string, error) {
	alarm, err := s.sos.GetSos(ctx, sosID)
	if err != nil {
		return domain.Sos{}, "", err
	}
	actor, err := s.roles.ResolveInSociety(ctx, userID, alarm.SocietyID, domain.RoleSecurityGuard, domain.RoleSocietyAdmin)
	if err != nil {
		return domain.Sos{}, "", err
	}
	if alarm.Status == domain.SosResolved {
		return domain.Sos{}, "", domain.ConflictError{Reason: "sos already resolved"}
	}

	next, err := s.validator.Apply(ctx, domain.KindSos, alarm.Status, domain.EventResolve)
	if err != nil {
		return domain.Sos{}, "", err
	}
	alarm.Status = next
	alarm.ResolvedAt = s.now().UTC()

	entry := domain.NewLogEntry(domain.KindSos, alarm.ID, alarm.Status, "resolved by guard", actor.UserID)
	if err := s.sos.UpdateSos(ctx, alarm, entry); err != nil {
		return domain.Sos{}, "", err
	}

	s.notify(ctx, domain.Notification{
		Audience: domain.AudienceRentalUnit,
		ScopeID:  alarm.RentalUnitID,
		Title:    "Alarm resolved",
		Message:  "Your alarm has been marked resolved",
		Data:     map[string]string{"sos_id": alarm.ID},
	})

	return alarm, "sos resolved", nil
}
