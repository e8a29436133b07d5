package app_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/courtyardhq/courtyard/internal/app"
	"github.com/courtyardhq/courtyard/internal/domain"
)

// --- Mocks ---

type memStore struct {
	visitors    map[string]domain.Visitor
	sos         map[string]domain.Sos
	complaints  map[string]domain.Complaint
	comments    map[string][]domain.ComplaintComment
	amenities   map[string]domain.Amenity
	bookings    map[string]domain.Booking
	providers   map[string]domain.ServiceProvider
	assignments map[string]domain.Assignment
	attendance  map[string]bool
	log         []domain.StatusLogEntry
}

func newMemStore() *memStore {
	return &memStore{
		visitors:    make(map[string]domain.Visitor),
		sos:         make(map[string]domain.Sos),
		complaints:  make(map[string]domain.Complaint),
		comments:    make(map[string][]domain.ComplaintComment),
		amenities:   make(map[string]domain.Amenity),
		bookings:    make(map[string]domain.Booking),
		providers:   make(map[string]domain.ServiceProvider),
		assignments: make(map[string]domain.Assignment),
		attendance:  make(map[string]bool),
	}
}

func (m *memStore) appendLog(e domain.StatusLogEntry) {
	e.ID = int64(len(m.log) + 1)
	m.log = append(m.log, e)
}

func (m *memStore) CreateVisitor(_ context.Context, v domain.Visitor, e domain.StatusLogEntry) error {
	m.visitors[v.ID] = v
	m.appendLog(e)
	return nil
}

func (m *memStore) GetVisitor(_ context.Context, id string) (domain.Visitor, error) {
	v, ok := m.visitors[id]
	if !ok {
		return domain.Visitor{}, domain.NotFoundError{Kind: domain.KindVisitor, ID: id}
	}
	return v, nil
}

func (m *memStore) UpdateVisitor(_ context.Context, v domain.Visitor, e domain.StatusLogEntry) error {
	if _, ok := m.visitors[v.ID]; !ok {
		return domain.NotFoundError{Kind: domain.KindVisitor, ID: v.ID}
	}
	m.visitors[v.ID] = v
	m.appendLog(e)
	return nil
}

func (m *memStore) CreateSos(_ context.Context, s domain.Sos, e domain.StatusLogEntry) error {
	m.sos[s.ID] = s
	m.appendLog(e)
	return nil
}

func (m *memStore) GetSos(_ context.Context, id string) (domain.Sos, error) {
	s, ok := m.sos[id]
	if !ok {
		return domain.Sos{}, domain.NotFoundError{Kind: domain.KindSos, ID: id}
	}
	return s, nil
}

func (m *memStore) UpdateSos(_ context.Context, s domain.Sos, e domain.StatusLogEntry) error {
	if _, ok := m.sos[s.ID]; !ok {
		return domain.NotFoundError{Kind: domain.KindSos, ID: s.ID}
	}
	m.sos[s.ID] = s
	m.appendLog(e)
	return nil
}

func (m *memStore) CreateComplaint(_ context.Context, c domain.Complaint, e domain.StatusLogEntry) error {
	m.complaints[c.ID] = c
	m.appendLog(e)
	return nil
}

func (m *memStore) GetComplaint(_ context.Context, id string) (domain.Complaint, error) {
	c, ok := m.complaints[id]
	if !ok {
		return domain.Complaint{}, domain.NotFoundError{Kind: domain.KindComplaint, ID: id}
	}
	return c, nil
}

func (m *memStore) UpdateComplaint(_ context.Context, c domain.Complaint, comment *domain.ComplaintComment, e domain.StatusLogEntry) error {
	if _, ok := m.complaints[c.ID]; !ok {
		return domain.NotFoundError{Kind: domain.KindComplaint, ID: c.ID}
	}
	m.complaints[c.ID] = c
	if comment != nil {
		m.comments[c.ID] = append(m.comments[c.ID], *comment)
	}
	m.appendLog(e)
	return nil
}

func (m *memStore) AddComment(_ context.Context, comment domain.ComplaintComment) error {
	m.comments[comment.ComplaintID] = append(m.comments[comment.ComplaintID], comment)
	return nil
}

func (m *memStore) ListComments(_ context.Context, complaintID string) ([]domain.ComplaintComment, error) {
	return m.comments[complaintID], nil
}

func (m *memStore) CreateAmenity(_ context.Context, a domain.Amenity) error {
	for _, other := range m.amenities {
		if other.SocietyID == a.SocietyID && other.Name == a.Name {
			return domain.ConflictError{Reason: "amenity already exists"}
		}
	}
	m.amenities[a.ID] = a
	return nil
}

func (m *memStore) GetAmenity(_ context.Context, id string) (domain.Amenity, error) {
	a, ok := m.amenities[id]
	if !ok {
		return domain.Amenity{}, domain.NotFoundError{Kind: "amenity", ID: id}
	}
	return a, nil
}

func (m *memStore) ListAmenities(_ context.Context, societyID string) ([]domain.Amenity, error) {
	var out []domain.Amenity
	for _, a := range m.amenities {
		if a.SocietyID == societyID {
			out = append(out, a)
		}
	}
	return out, nil
}

// CreateBooking mirrors the endpoint-containment conflict check the SQLite
// store runs.
func (m *memStore) CreateBooking(_ context.Context, b domain.Booking, e domain.StatusLogEntry) error {
	for _, other := range m.bookings {
		if other.AmenityID != b.AmenityID || other.Status != domain.BookingBooked {
			continue
		}
		startInside := !other.StartTime.Before(b.StartTime) && other.StartTime.Before(b.EndTime)
		endInside := other.EndTime.After(b.StartTime) && !other.EndTime.After(b.EndTime)
		if startInside || endInside {
			return domain.ConflictError{Reason: "amenity is already booked for the requested window"}
		}
	}
	m.bookings[b.ID] = b
	m.appendLog(e)
	return nil
}

func (m *memStore) GetBooking(_ context.Context, id string) (domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return domain.Booking{}, domain.NotFoundError{Kind: domain.KindBooking, ID: id}
	}
	return b, nil
}

func (m *memStore) UpdateBooking(_ context.Context, b domain.Booking, e domain.StatusLogEntry) error {
	if _, ok := m.bookings[b.ID]; !ok {
		return domain.NotFoundError{Kind: domain.KindBooking, ID: b.ID}
	}
	m.bookings[b.ID] = b
	m.appendLog(e)
	return nil
}

func (m *memStore) CreateProvider(_ context.Context, p domain.ServiceProvider) error {
	for _, other := range m.providers {
		if other.Code == p.Code {
			return domain.ConflictError{Reason: "provider code already registered"}
		}
	}
	m.providers[p.ID] = p
	return nil
}

func (m *memStore) GetProvider(_ context.Context, id string) (domain.ServiceProvider, error) {
	p, ok := m.providers[id]
	if !ok {
		return domain.ServiceProvider{}, domain.NotFoundError{Kind: domain.KindServiceProvider, ID: id}
	}
	return p, nil
}

func (m *memStore) SetProviderInside(_ context.Context, id string, inside bool, e domain.StatusLogEntry) error {
	p, ok := m.providers[id]
	if !ok {
		return domain.NotFoundError{Kind: domain.KindServiceProvider, ID: id}
	}
	p.Inside = inside
	m.providers[id] = p
	m.appendLog(e)
	return nil
}

func assignmentKey(providerID, rentalUnitID string) string {
	return providerID + "/" + rentalUnitID
}

func (m *memStore) GetAssignment(_ context.Context, providerID, rentalUnitID string) (domain.Assignment, error) {
	a, ok := m.assignments[assignmentKey(providerID, rentalUnitID)]
	if !ok {
		return domain.Assignment{}, domain.NotFoundError{Kind: domain.KindServiceProvider, ID: providerID}
	}
	return a, nil
}

func (m *memStore) CreateAssignment(_ context.Context, a domain.Assignment, e domain.StatusLogEntry) error {
	m.assignments[assignmentKey(a.ProviderID, a.RentalUnitID)] = a
	m.appendLog(e)
	return nil
}

func (m *memStore) UpdateAssignment(_ context.Context, a domain.Assignment, e domain.StatusLogEntry) error {
	m.assignments[assignmentKey(a.ProviderID, a.RentalUnitID)] = a
	m.appendLog(e)
	return nil
}

func (m *memStore) ActiveUnits(_ context.Context, providerID string) ([]string, error) {
	var units []string
	for _, a := range m.assignments {
		if a.ProviderID == providerID && a.Status == domain.AssignmentActive {
			units = append(units, a.RentalUnitID)
		}
	}
	return units, nil
}

func (m *memStore) HasAttendanceOn(_ context.Context, providerID, rentalUnitID, day string) (bool, error) {
	return m.attendance[assignmentKey(providerID, rentalUnitID)+"/"+day], nil
}

func (m *memStore) CreateAttendance(_ context.Context, rec domain.AttendanceRecord, e domain.StatusLogEntry) error {
	key := assignmentKey(rec.ProviderID, rec.RentalUnitID) + "/" + rec.Day
	if m.attendance[key] {
		return domain.ConflictError{Reason: "attendance already marked for today"}
	}
	m.attendance[key] = true
	m.appendLog(e)
	return nil
}

func (m *memStore) History(_ context.Context, kind domain.Kind, entityID string) ([]domain.StatusLogEntry, error) {
	var out []domain.StatusLogEntry
	for _, e := range m.log {
		if e.EntityKind == kind && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

// stubRoles resolves users from a fixed grant list.
type stubRoles struct {
	grants []domain.Actor
}

func (r *stubRoles) Resolve(_ context.Context, userID string, role domain.Role) (domain.Actor, error) {
	for _, g := range r.grants {
		if g.UserID == userID && g.Role == role {
			return g, nil
		}
	}
	return domain.Actor{}, domain.AuthorizationError{Reason: "no matching role"}
}

func (r *stubRoles) ResolveInUnit(_ context.Context, userID, rentalUnitID string) (domain.Actor, error) {
	for _, g := range r.grants {
		if g.UserID == userID && g.RentalUnitID == rentalUnitID {
			return g, nil
		}
	}
	return domain.Actor{}, domain.AuthorizationError{Reason: "no role in unit"}
}

func (r *stubRoles) ResolveInSociety(_ context.Context, userID, societyID string, roles ...domain.Role) (domain.Actor, error) {
	for _, g := range r.grants {
		if g.UserID != userID || g.SocietyID != societyID {
			continue
		}
		if len(roles) == 0 {
			return g, nil
		}
		for _, role := range roles {
			if g.Role == role {
				return g, nil
			}
		}
	}
	return domain.Actor{}, domain.AuthorizationError{Reason: "no matching role in society"}
}

// tableValidator applies transitions straight from the domain table.
type tableValidator struct{}

func (tableValidator) Apply(_ context.Context, kind domain.Kind, current domain.Status, event domain.Event) (domain.Status, error) {
	for _, tr := range domain.TransitionsFor(kind) {
		if tr.Event == event && tr.Src == current {
			return tr.Dst, nil
		}
	}
	return "", domain.TransitionError{Kind: kind, Event: event, Current: current}
}

// captureNotifier records enqueued notifications.
type captureNotifier struct {
	sent []domain.Notification
}

func (n *captureNotifier) Notify(_ context.Context, notification domain.Notification) error {
	n.sent = append(n.sent, notification)
	return nil
}

// --- Fixture ---

const (
	societyID = "soc-1"
	unitID    = "unit-1"

	residentID = "u-resident"
	guardID    = "u-guard"
	adminID    = "u-admin"
)

type fixture struct {
	store    *memStore
	notifier *captureNotifier
	svc      *app.Service
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	notifier := &captureNotifier{}
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	roles := &stubRoles{grants: []domain.Actor{
		{UserID: residentID, Role: domain.RoleResident, SocietyID: societyID, RentalUnitID: unitID},
		{UserID: guardID, Role: domain.RoleSecurityGuard, SocietyID: societyID},
		{UserID: adminID, Role: domain.RoleSocietyAdmin, SocietyID: societyID},
	}}

	svc := app.NewService(app.Deps{
		Visitors:   store,
		Sos:        store,
		Complaints: store,
		Amenities:  store,
		Bookings:   store,
		Providers:  store,
		Ledger:     store,
		Roles:      roles,
		Validator:  tableValidator{},
		Notifier:   notifier,
		Logger:     slog.Default(),
		Now:        func() time.Time { return now },
	})

	return &fixture{store: store, notifier: notifier, svc: svc, now: now}
}
