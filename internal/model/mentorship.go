package model

import "time"

// Status is the lifecycle state of a mentorship request.
//
// The state machine is small and one-directional:
//
//	pending  → accepted | declined   (mentor decides)
//	accepted → completed             (either participant)
//
// declined and completed are terminal — no route transitions out of them.
// The transitions themselves are guarded by ownership checks in the service
// layer, not by the current status: accepting an already-declined request
// simply overwrites the status. That mirrors the behaviour users expect from
// the app as shipped, and keeps every mutation a single-row UPDATE.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusCompleted Status = "completed"
)

// MentorshipRequest is a proposed or ongoing mentorship between one mentor
// and one mentee. Created by the mentee (always with status pending) and
// thereafter mutated only through the status transitions above.
//
// Mentor and Mentee are optional denormalised views of the referenced users,
// populated by list queries so templates can show names without N+1 lookups.
// They are nil on a bare GetByID.
type MentorshipRequest struct {
	ID        string    `json:"id"        db:"id"`
	MentorID  string    `json:"mentorId"  db:"mentor_id"`
	MenteeID  string    `json:"menteeId"  db:"mentee_id"`
	Goal      string    `json:"goal"      db:"goal"`
	Status    Status    `json:"status"    db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Mentor *User `json:"mentor,omitempty" db:"-"`
	Mentee *User `json:"mentee,omitempty" db:"-"`
}

// Participant reports whether the given user is one of the two parties on
// this request. Every message-log and complete() authorization check reduces
// to this.
func (m *MentorshipRequest) Participant(userID string) bool {
	return userID == m.MentorID || userID == m.MenteeID
}
