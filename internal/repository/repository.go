// Package repository declares the storage interfaces the service layer
// depends on. The concrete SQLite implementation lives in repository/sqlite;
// tests substitute in-memory fakes. Services never import the sqlite package.
package repository

import (
	"context"

	"github.com/sakif/mentorhub/internal/model"
)

// UserRepository stores and retrieves user accounts.
//
// GetByEmail expects an already-lowercased address (the service normalises);
// the sqlite implementation's NOCASE index makes the lookup case-insensitive
// regardless, so stale mixed-case rows can never hide.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	CountAll(ctx context.Context) (int, error)
}

// MentorshipRepository stores mentorship requests and their status.
//
// ListForUser returns every request where the user is mentor or mentee,
// newest first — the descending creation-time order is a contract the
// dashboard and mentorships pages rely on, not a presentation detail.
type MentorshipRepository interface {
	Create(ctx context.Context, req *model.MentorshipRequest) error
	GetByID(ctx context.Context, id string) (*model.MentorshipRequest, error)
	ListForUser(ctx context.Context, userID string) ([]model.MentorshipRequest, error)
	UpdateStatus(ctx context.Context, id string, status model.Status) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, status model.Status) (int, error)
}

// MessageRepository stores the append-only chat log of a mentorship.
// ListForMentorship returns messages oldest first (chat order).
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	ListForMentorship(ctx context.Context, mentorshipID string) ([]model.Message, error)
}
