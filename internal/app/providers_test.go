package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/courtyardhq/courtyard/internal/app"
	"github.com/courtyardhq/courtyard/internal/domain"
)

func registerProvider(t *testing.T, f *fixture) domain.ServiceProvider {
	t.Helper()
	p, err := f.svc.RegisterProvider(context.Background(), adminID, app.RegisterProviderInput{
		SocietyID: societyID,
		Name:      "Ravi",
		Code:      "SP-001",
		Service:   "maid",
	})
	if err != nil {
		t.Fatalf("RegisterProvider failed: %v", err)
	}
	return p
}

func TestHireProvider_FirstHire(t *testing.T) {
	f := newFixture(t)
	p := registerProvider(t, f)

	a, msg, err := f.svc.HireProvider(context.Background(), residentID, p.ID, unitID)
	if err != nil {
		t.Fatalf("HireProvider failed: %v", err)
	}
	if a.Status != domain.AssignmentActive {
		t.Errorf("Status = %q, want %q", a.Status, domain.AssignmentActive)
	}
	if msg != "provider hired" {
		t.Errorf("message = %q, want %q", msg, "provider hired")
	}
}

func TestHireProvider_AlreadyActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := registerProvider(t, f)

	if _, _, err := f.svc.HireProvider(ctx, residentID, p.ID, unitID); err != nil {
		t.Fatal(err)
	}

	_, _, err := f.svc.HireProvider(ctx, residentID, p.ID, unitID)
	var conflict domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestFireThenRehire(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := registerProvider(t, f)

	if _, _, err := f.svc.HireProvider(ctx, residentID, p.ID, unitID); err != nil {
		t.Fatal(err)
	}

	a, _, err := f.svc.FireProvider(ctx, residentID, p.ID, unitID)
	if err != nil {
		t.Fatalf("FireProvider failed: %v", err)
	}
	if a.Status != domain.AssignmentInactive {
		t.Errorf("Status = %q, want %q", a.Status, domain.AssignmentInactive)
	}

	a, msg, err := f.svc.HireProvider(ctx, residentID, p.ID, unitID)
	if err != nil {
		t.Fatalf("re-hire failed: %v", err)
	}
	if a.Status != domain.AssignmentActive {
		t.Errorf("Status = %q, want %q", a.Status, domain.AssignmentActive)
	}
	if msg != "provider re-hired" {
		t.Errorf("message = %q, want %q", msg, "provider re-hired")
	}
}

func TestFireProvider_NotHired(t *testing.T) {
	f := newFixture(t)
	p := registerProvider(t, f)

	_, _, err := f.svc.FireProvider(context.Background(), residentID, p.ID, unitID)
	var conflict domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestProviderEntryExit_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := registerProvider(t, f)

	if _, _, err := f.svc.HireProvider(ctx, residentID, p.ID, unitID); err != nil {
		t.Fatal(err)
	}

	got, _, err := f.svc.ProviderEntry(ctx, guardID, p.ID, "SP-001")
	if err != nil {
		t.Fatalf("ProviderEntry failed: %v", err)
	}
	if !got.Inside {
		t.Error("provider should be inside")
	}

	// The hiring unit is pinged about the arrival.
	var unitPinged bool
	for _, n := range f.notifier.sent {
		if n.Audience == domain.AudienceRentalUnit && n.ScopeID == unitID && n.Title == "Provider arrived" {
			unitPinged = true
		}
	}
	if !unitPinged {
		t.Error("expected an arrival notification to the hiring unit")
	}

	before := len(f.store.log)
	_, msg, err := f.svc.ProviderEntry(ctx, guardID, p.ID, "SP-001")
	if err != nil {
		t.Fatalf("repeated ProviderEntry failed: %v", err)
	}
	if msg != "provider already inside" {
		t.Errorf("message = %q, want %q", msg, "provider already inside")
	}
	if len(f.store.log) != before {
		t.Error("repeated entry should not write ledger entries")
	}

	if _, _, err := f.svc.ProviderExit(ctx, guardID, p.ID, "SP-001"); err != nil {
		t.Fatalf("ProviderExit failed: %v", err)
	}
	_, msg, err = f.svc.ProviderExit(ctx, guardID, p.ID, "SP-001")
	if err != nil {
		t.Fatalf("repeated ProviderExit failed: %v", err)
	}
	if msg != "provider already outside" {
		t.Errorf("message = %q, want %q", msg, "provider already outside")
	}
}

func TestProviderEntry_WrongCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := registerProvider(t, f)

	if _, _, err := f.svc.HireProvider(ctx, residentID, p.ID, unitID); err != nil {
		t.Fatal(err)
	}

	_, _, err := f.svc.ProviderEntry(ctx, guardID, p.ID, "SP-999")
	var invalid domain.ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	got, err := f.svc.GetProvider(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Inside {
		t.Error("a rejected code must not let the provider in")
	}

	if _, _, err := f.svc.ProviderExit(ctx, guardID, p.ID, "SP-999"); !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError on exit with a wrong code, got %v", err)
	}
}

func TestMarkAttendance_OncePerDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := registerProvider(t, f)

	if _, _, err := f.svc.HireProvider(ctx, residentID, p.ID, unitID); err != nil {
		t.Fatal(err)
	}

	msg, err := f.svc.MarkAttendance(ctx, residentID, p.ID, unitID)
	if err != nil {
		t.Fatalf("MarkAttendance failed: %v", err)
	}
	if msg != "attendance marked" {
		t.Errorf("message = %q, want %q", msg, "attendance marked")
	}

	msg, err = f.svc.MarkAttendance(ctx, residentID, p.ID, unitID)
	if err != nil {
		t.Fatalf("second MarkAttendance failed: %v", err)
	}
	if msg != "attendance already marked for today" {
		t.Errorf("message = %q, want %q", msg, "attendance already marked for today")
	}
}

func TestMarkAttendance_RequiresActiveAssignment(t *testing.T) {
	f := newFixture(t)
	p := registerProvider(t, f)

	_, err := f.svc.MarkAttendance(context.Background(), residentID, p.ID, unitID)
	var conflict domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestRegisterProvider_DuplicateCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	registerProvider(t, f)

	_, err := f.svc.RegisterProvider(ctx, adminID, app.RegisterProviderInput{
		SocietyID: societyID,
		Name:      "Another",
		Code:      "SP-001",
	})
	var conflict domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}
