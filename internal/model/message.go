package model

import "time"

// Message is one chat entry inside an accepted mentorship.
//
// Messages are append-only: there is no edit or delete endpoint, and the only
// way a message row disappears is the ON DELETE CASCADE when its parent
// request is removed. The request exclusively owns its messages.
//
// SenderName is denormalised from the users table by the list query so the
// chat view can label each bubble; it is never written back.
type Message struct {
	ID           string    `json:"id"        db:"id"`
	MentorshipID string    `json:"mentorshipId" db:"mentorship_id"`
	SenderID     string    `json:"senderId"  db:"sender_id"`
	Body         string    `json:"body"      db:"body"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`

	SenderName string `json:"senderName,omitempty" db:"-"`
}
