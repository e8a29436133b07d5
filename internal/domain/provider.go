package domain

import "time"

// Assignment states between a provider and a rental unit.
const (
	AssignmentActive   Status = "active"
	AssignmentInactive Status = "inactive"
)

const (
	EventHire Event = "hire"
	EventFire Event = "fire"
)

var assignmentTransitions = []Transition{
	{Event: EventHire, Src: AssignmentInactive, Dst: AssignmentActive},
	{Event: EventFire, Src: AssignmentActive, Dst: AssignmentInactive},
}

// Ledger categories recorded for provider movement and attendance. These are
// log-only statuses, not assignment states.
const (
	ProviderHired      Status = "hired"
	ProviderReHired    Status = "re_hired"
	ProviderFired      Status = "fired"
	ProviderEntry      Status = "entry"
	ProviderExit       Status = "exit"
	ProviderAttendance Status = "attendance"
)

// ServiceProvider is a local worker (maid, cook, driver) registered with a
// society and hired per rental unit.
type ServiceProvider struct {
	ID           string
	SocietyID    string
	Name         string
	Code         string
	Service      string
	MobileNumber string
	Inside       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewServiceProvider(id, societyID, name, code, service, mobile string) ServiceProvider {
	now := time.Now().UTC()
	return ServiceProvider{
		ID:           id,
		SocietyID:    societyID,
		Name:         name,
		Code:         code,
		Service:      service,
		MobileNumber: mobile,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Assignment links a provider to a rental unit. Re-hiring flips an inactive
// assignment back to active rather than creating a second row.
type Assignment struct {
	ID           string
	ProviderID   string
	RentalUnitID string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewAssignment(id, providerID, rentalUnitID string) Assignment {
	now := time.Now().UTC()
	return Assignment{
		ID:           id,
		ProviderID:   providerID,
		RentalUnitID: rentalUnitID,
		Status:       AssignmentActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AttendanceRecord marks a provider present at a unit on a given day.
// Day is a date in YYYY-MM-DD form; one record per provider, unit and day.
type AttendanceRecord struct {
	ID           string
	ProviderID   string
	RentalUnitID string
	Day          string
	CreatedAt    time.Time
}

func NewAttendanceRecord(id, providerID, rentalUnitID string, on time.Time) AttendanceRecord {
	return AttendanceRecord{
		ID:           id,
		ProviderID:   providerID,
		RentalUnitID: rentalUnitID,
		Day:          on.UTC().Format("2006-01-02"),
		CreatedAt:    time.Now().UTC(),
	}
}
