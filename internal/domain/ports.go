package domain

import "context"

// VisitorRepository persists visitors. Mutations take the ledger entry to
// write in the same transaction as the entity change.
type VisitorRepository interface {
	CreateVisitor(ctx context.Context, v Visitor, log StatusLogEntry) error
	GetVisitor(ctx context.Context, id string) (Visitor, error)
	UpdateVisitor(ctx context.Context, v Visitor, log StatusLogEntry) error
}

// SosRepository persists panic alarms.
type SosRepository interface {
	CreateSos(ctx context.Context, s Sos, log StatusLogEntry) error
	GetSos(ctx context.Context, id string) (Sos, error)
	UpdateSos(ctx context.Context, s Sos, log StatusLogEntry) error
}

// ComplaintRepository persists complaints and their comment threads.
// UpdateComplaint optionally writes a closing comment with the status change.
type ComplaintRepository interface {
	CreateComplaint(ctx context.Context, c Complaint, log StatusLogEntry) error
	GetComplaint(ctx context.Context, id string) (Complaint, error)
	UpdateComplaint(ctx context.Context, c Complaint, comment *ComplaintComment, log StatusLogEntry) error
	AddComment(ctx context.Context, comment ComplaintComment) error
	ListComments(ctx context.Context, complaintID string) ([]ComplaintComment, error)
}

// AmenityRepository persists bookable amenities.
type AmenityRepository interface {
	CreateAmenity(ctx context.Context, a Amenity) error
	GetAmenity(ctx context.Context, id string) (Amenity, error)
	ListAmenities(ctx context.Context, societyID string) ([]Amenity, error)
}

// BookingRepository persists amenity bookings. CreateBooking performs the
// overlap check and the insert atomically and returns ConflictError when the
// window clashes with an existing booking.
type BookingRepository interface {
	CreateBooking(ctx context.Context, b Booking, log StatusLogEntry) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	UpdateBooking(ctx context.Context, b Booking, log StatusLogEntry) error
}

// ProviderRepository persists service providers, their per-unit assignments
// and daily attendance.
type ProviderRepository interface {
	CreateProvider(ctx context.Context, p ServiceProvider) error
	GetProvider(ctx context.Context, id string) (ServiceProvider, error)
	SetProviderInside(ctx context.Context, id string, inside bool, log StatusLogEntry) error
	GetAssignment(ctx context.Context, providerID, rentalUnitID string) (Assignment, error)
	CreateAssignment(ctx context.Context, a Assignment, log StatusLogEntry) error
	UpdateAssignment(ctx context.Context, a Assignment, log StatusLogEntry) error
	ActiveUnits(ctx context.Context, providerID string) ([]string, error)
	HasAttendanceOn(ctx context.Context, providerID, rentalUnitID, day string) (bool, error)
	CreateAttendance(ctx context.Context, rec AttendanceRecord, log StatusLogEntry) error
}

// LedgerRepository reads the append-only status history of an entity.
type LedgerRepository interface {
	History(ctx context.Context, kind Kind, entityID string) ([]StatusLogEntry, error)
}

// RoleResolver authorizes a user for the scope an operation targets.
// Each method returns AuthorizationError when no matching role exists.
type RoleResolver interface {
	Resolve(ctx context.Context, userID string, role Role) (Actor, error)
	ResolveInUnit(ctx context.Context, userID, rentalUnitID string) (Actor, error)
	ResolveInSociety(ctx context.Context, userID, societyID string, roles ...Role) (Actor, error)
}

// TransitionValidator checks an event against an entity's current status and
// returns the destination status, or TransitionError if the event is not
// allowed from there.
type TransitionValidator interface {
	Apply(ctx context.Context, kind Kind, current Status, event Event) (Status, error)
}

// Audience selects who a notification fans out to.
type Audience string

const (
	AudienceRentalUnit       Audience = "rental_unit"
	AudienceSocietyGuards    Audience = "society_guards"
	AudienceSocietyAdmins    Audience = "society_admins"
	AudienceSocietyResidents Audience = "society_residents"
)

// Notification is a push message dispatched asynchronously after a
// successful state change.
type Notification struct {
	Audience Audience
	ScopeID  string
	Title    string
	Message  string
	Data     map[string]string
}

// Notifier enqueues notifications for delivery.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
