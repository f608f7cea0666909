// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other
// languages, but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Role is a user's fixed role in the community.
//
// WHY A NAMED STRING TYPE?
// A plain string would work, but a named type makes function signatures
// self-documenting (Mentors(role Role) vs Mentors(role string)) and gives
// validation a home (IsValid below). The underlying value is still a string,
// so it stores and scans like TEXT in SQLite.
//
// The role is chosen at registration and never changes afterwards — there is
// deliberately no "switch role" operation anywhere in the app.
type Role string

const (
	RoleMentor Role = "mentor"
	RoleMentee Role = "mentee"
)

// IsValid reports whether the role is one of the two known roles.
// Used when validating the registration form.
func (r Role) IsValid() bool {
	return r == RoleMentor || r == RoleMentee
}

// User represents a registered member of the mentorship community.
//
// WHY Email IS STORED LOWERCASE:
// Email addresses are case-insensitive in practice ("Ada@x.com" and
// "ada@x.com" are the same mailbox). The service layer lowercases the
// address before storing or looking it up, and the users table carries a
// case-insensitive UNIQUE index as a backstop, so the same mailbox can never
// register twice.
//
// PasswordHash holds a bcrypt hash (salt embedded in the string) — never the
// plaintext. It carries `json:"-"` so it cannot leak through an encoded
// response, even by accident.
type User struct {
	ID           string    `json:"id"           db:"id"`
	Name         string    `json:"name"         db:"name"`
	Email        string    `json:"email"        db:"email"`
	Role         Role      `json:"role"         db:"role"`
	Bio          string    `json:"bio"          db:"bio"`
	Skills       string    `json:"skills"       db:"skills"`
	Availability string    `json:"availability" db:"availability"`
	PasswordHash string    `json:"-"            db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt"    db:"created_at"`
}
