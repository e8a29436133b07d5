package domain

import "time"

// Complaint workflow states.
const (
	ComplaintNew        Status = "new"
	ComplaintInProgress Status = "in_progress"
	ComplaintResolved   Status = "resolved"
)

const EventStartProgress Event = "start_progress"

var complaintTransitions = []Transition{
	{Event: EventStartProgress, Src: ComplaintNew, Dst: ComplaintInProgress},
	{Event: EventResolve, Src: ComplaintNew, Dst: ComplaintResolved},
	{Event: EventResolve, Src: ComplaintInProgress, Dst: ComplaintResolved},
}

// Complaint is an issue reported by a resident against society facilities.
// Rating is an optional 1-5 satisfaction score set on resolution; zero means
// unrated.
type Complaint struct {
	ID           string
	SocietyID    string
	RentalUnitID string
	RaisedBy     string
	Category     string
	Subject      string
	Description  string
	Status       Status
	Rating       int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewComplaint(id, societyID, rentalUnitID, raisedBy, category, subject, description string) Complaint {
	now := time.Now().UTC()
	return Complaint{
		ID:           id,
		SocietyID:    societyID,
		RentalUnitID: rentalUnitID,
		RaisedBy:     raisedBy,
		Category:     category,
		Subject:      subject,
		Description:  description,
		Status:       ComplaintNew,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ComplaintComment is a threaded remark on an open complaint. Comments are
// rejected once the complaint is resolved.
type ComplaintComment struct {
	ID          string
	ComplaintID string
	AuthorID    string
	Body        string
	CreatedAt   time.Time
}

func NewComplaintComment(id, complaintID, authorID, body string) ComplaintComment {
	return ComplaintComment{
		ID:          id,
		ComplaintID: complaintID,
		AuthorID:    authorID,
		Body:        body,
		CreatedAt:   time.Now().UTC(),
	}
}
