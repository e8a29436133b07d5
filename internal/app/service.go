// Package app orchestrates the workflow operations: it resolves the acting
// user's role, validates lifecycle transitions, persists changes together
// with their ledger entries, and enqueues notifications.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/courtyardhq/courtyard/internal/domain"
)

// Deps bundles the ports the service needs. Ledger and Notifier may be
// wrapped in tracing decorators before being passed in.
type Deps struct {
	Visitors   domain.VisitorRepository
	Sos        domain.SosRepository
	Complaints domain.ComplaintRepository
	Amenities  domain.AmenityRepository
	Bookings   domain.BookingRepository
	Providers  domain.ProviderRepository
	Ledger     domain.LedgerRepository
	Roles      domain.RoleResolver
	Validator  domain.TransitionValidator
	Notifier   domain.Notifier
	Logger     *slog.Logger

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// Service implements the workflow operations on top of the ports.
type Service struct {
	visitors   domain.VisitorRepository
	sos        domain.SosRepository
	complaints domain.ComplaintRepository
	amenities  domain.AmenityRepository
	bookings   domain.BookingRepository
	providers  domain.ProviderRepository
	ledger     domain.LedgerRepository
	roles      domain.RoleResolver
	validator  domain.TransitionValidator
	notifier   domain.Notifier
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates the workflow service from its dependencies.
func NewService(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		visitors:   deps.Visitors,
		sos:        deps.Sos,
		complaints: deps.Complaints,
		amenities:  deps.Amenities,
		bookings:   deps.Bookings,
		providers:  deps.Providers,
		ledger:     deps.Ledger,
		roles:      deps.Roles,
		validator:  deps.Validator,
		notifier:   deps.Notifier,
		logger:     logger,
		now:        now,
	}
}

// notify enqueues a notification after a committed state change. Delivery is
// best-effort: a failed enqueue is logged, never surfaced to the caller.
func (s *Service) notify(ctx context.Context, n domain.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.ErrorContext(ctx, "enqueuing notification failed",
			"audience", n.Audience,
			"scope_id", n.ScopeID,
			"error", err,
		)
	}
}

func isNotFound(err error) bool {
	var nf domain.NotFoundError
	return errors.As(err, &nf)
}

func isConflict(err error) bool {
	var c domain.ConflictError
	return errors.As(err, &c)
}

// History returns the full status ledger of an entity, oldest first.
func (s *Service) History(ctx context.Context, kind domain.Kind, entityID string) ([]domain.StatusLogEntry, error) {
	if !domain.ValidKind(kind) {
		return nil, domain.ValidationError{Reason: "unknown entity kind " + string(kind)}
	}
	return s.ledger.History(ctx, kind, entityID)
}
