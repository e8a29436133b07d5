package domain

import "time"

// Sos alarm states.
const (
	SosCreated      Status = "created"
	SosAcknowledged Status = "acknowledged"
	SosResolved     Status = "resolved"
)

// Sos alarm events.
const (
	EventAcknowledge Event = "acknowledge"
	EventResolve     Event = "resolve"
)

var sosTransitions = []Transition{
	{Event: EventAcknowledge, Src: SosCreated, Dst: SosAcknowledged},
	{Event: EventResolve, Src: SosCreated, Dst: SosResolved},
	{Event: EventResolve, Src: SosAcknowledged, Dst: SosResolved},
}

// Sos is a panic alarm raised by a resident and handled by guards.
// AcknowledgedAt and ResolvedAt record when the respective transitions
// happened; zero means the transition has not occurred.
type Sos struct {
	ID             string
	SocietyID      string
	RentalUnitID   string
	RaisedBy       string
	Category       string
	Status         Status
	AcknowledgedAt time.Time
	ResolvedAt     time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewSos(id, societyID, rentalUnitID, raisedBy, category string) Sos {
	now := time.Now().UTC()
	return Sos{
		ID:           id,
		SocietyID:    societyID,
		RentalUnitID: rentalUnitID,
		RaisedBy:     raisedBy,
		Category:     category,
		Status:       SosCreated,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
