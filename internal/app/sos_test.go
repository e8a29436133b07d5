package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/courtyardhq/courtyard/internal/app"
	"github.com/courtyardhq/courtyard/internal/domain"
)

func raiseSos(t *testing.T, f *fixture) domain.Sos {
	t.Helper()
	alarm, _, err := f.svc.RaiseSos(context.Background(), residentID, app.RaiseSosInput{
		SocietyID:    societyID,
		RentalUnitID: unitID,
		Category:     "fire",
	})
	if err != nil {
		t.Fatalf("RaiseSos failed: %v", err)
	}
	return alarm
}

func TestRaiseSos_AlertsGuards(t *testing.T) {
	f := newFixture(t)

	alarm := raiseSos(t, f)
	if alarm.Status != domain.SosCreated {
		t.Errorf("Status = %q, want %q", alarm.Status, domain.SosCreated)
	}
	if alarm.RaisedBy != residentID {
		t.Errorf("RaisedBy = %q, want %q", alarm.RaisedBy, residentID)
	}
	if len(f.notifier.sent) != 1 || f.notifier.sent[0].Audience != domain.AudienceSocietyGuards {
		t.Errorf("expected one guard notification, got %+v", f.notifier.sent)
	}
}

func TestAcknowledgeSos_OnlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alarm := raiseSos(t, f)

	got, _, err := f.svc.AcknowledgeSos(ctx, guardID, alarm.ID)
	if err != nil {
		t.Fatalf("AcknowledgeSos failed: %v", err)
	}
	if got.Status != domain.SosAcknowledged {
		t.Errorf("Status = %q, want %q", got.Status, domain.SosAcknowledged)
	}
	if !got.AcknowledgedAt.Equal(f.now) {
		t.Errorf("AcknowledgedAt = %v, want %v", got.AcknowledgedAt, f.now)
	}
	if !got.ResolvedAt.IsZero() {
		t.Errorf("ResolvedAt = %v, want zero", got.ResolvedAt)
	}

	_, _, err = f.svc.AcknowledgeSos(ctx, guardID, alarm.ID)
	var conflict domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Reason != "sos already acknowledged or resolved" {
		t.Errorf("reason = %q", conflict.Reason)
	}
}

func TestResolveSos_DirectlyFromCreated(t *testing.T) {
	f := newFixture(t)
	alarm := raiseSos(t, f)

	got, _, err := f.svc.ResolveSos(context.Background(), guardID, alarm.ID)
	if err != nil {
		t.Fatalf("ResolveSos failed: %v", err)
	}
	if got.Status != domain.SosResolved {
		t.Errorf("Status = %q, want %q", got.Status, domain.SosResolved)
	}
	if !got.ResolvedAt.Equal(f.now) {
		t.Errorf("ResolvedAt = %v, want %v", got.ResolvedAt, f.now)
	}
}

func TestResolveSos_AlreadyResolved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alarm := raiseSos(t, f)

	if _, _, err := f.svc.ResolveSos(ctx, guardID, alarm.ID); err != nil {
		t.Fatalf("ResolveSos failed: %v", err)
	}

	_, _, err := f.svc.ResolveSos(ctx, guardID, alarm.ID)
	var conflict domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Reason != "sos already resolved" {
		t.Errorf("reason = %q", conflict.Reason)
	}

	// Acknowledging after resolution reports the broader message.
	_, _, err = f.svc.AcknowledgeSos(ctx, guardID, alarm.ID)
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Reason != "sos already acknowledged or resolved" {
		t.Errorf("reason = %q", conflict.Reason)
	}
}

func TestSos_GuardRoleRequired(t *testing.T) {
	f := newFixture(t)
	alarm := raiseSos(t, f)

	_, _, err := f.svc.AcknowledgeSos(context.Background(), residentID, alarm.ID)
	var authErr domain.AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
}
