package domain

import "time"

// Visitor lifecycle states.
const (
	VisitorPendingApproval Status = "pending_approval"
	VisitorPreApproved     Status = "pre_approved"
	VisitorApproved        Status = "approved"
	VisitorDenied          Status = "denied"
	VisitorAllowedEntry    Status = "allowed_entry"
	VisitorExited          Status = "exited"
	VisitorReceivedAtGate  Status = "received_at_gate"
	VisitorCollected       Status = "collected"
)

// Visitor lifecycle events.
const (
	EventApprove       Event = "approve"
	EventDeny          Event = "deny"
	EventAllowEntry    Event = "allow_entry"
	EventMarkExit      Event = "mark_exit"
	EventReceiveParcel Event = "receive_parcel"
	EventCollectParcel Event = "collect_parcel"
)

var visitorTransitions = []Transition{
	{Event: EventApprove, Src: VisitorPendingApproval, Dst: VisitorApproved},
	{Event: EventDeny, Src: VisitorPendingApproval, Dst: VisitorDenied},
	{Event: EventAllowEntry, Src: VisitorApproved, Dst: VisitorAllowedEntry},
	{Event: EventAllowEntry, Src: VisitorPreApproved, Dst: VisitorAllowedEntry},
	{Event: EventMarkExit, Src: VisitorAllowedEntry, Dst: VisitorExited},
	// Parcel sub-flow for delivery visitors left at the gate.
	{Event: EventReceiveParcel, Src: VisitorApproved, Dst: VisitorReceivedAtGate},
	{Event: EventCollectParcel, Src: VisitorReceivedAtGate, Dst: VisitorCollected},
	{Event: EventCollectParcel, Src: VisitorApproved, Dst: VisitorCollected},
}

// VisitorType classifies who is at the gate.
type VisitorType string

const (
	VisitorTypeDelivery VisitorType = "delivery"
	VisitorTypeCab      VisitorType = "cab"
	VisitorTypeGuest    VisitorType = "visitor"
)

// Visitor is a person (or parcel carrier) tracked from the society gate.
type Visitor struct {
	ID                string
	SocietyID         string
	RentalUnitID      string
	Type              VisitorType
	Name              string
	VendorName        string
	MobileNumber      string
	VehicleNumber     string
	VisitorCount      int
	LeaveParcelAtGate bool
	ParcelCollectedBy string
	ApprovedFrom      time.Time
	ApprovedTill      time.Time
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewVisitor creates a walk-in visitor awaiting resident approval.
func NewVisitor(id, societyID, rentalUnitID string, kind VisitorType) Visitor {
	now := time.Now().UTC()
	return Visitor{
		ID:           id,
		SocietyID:    societyID,
		RentalUnitID: rentalUnitID,
		Type:         kind,
		Status:       VisitorPendingApproval,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewPreApprovedVisitor creates a visitor announced in advance by a
// resident, valid between from and till.
func NewPreApprovedVisitor(id, societyID, rentalUnitID string, kind VisitorType, from, till time.Time) Visitor {
	v := NewVisitor(id, societyID, rentalUnitID, kind)
	v.Status = VisitorPreApproved
	v.ApprovedFrom = from
	v.ApprovedTill = till
	return v
}
