package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sakif/mentorhub/internal/apperror"
	"github.com/sakif/mentorhub/internal/auth"
	"github.com/sakif/mentorhub/internal/model"
)

// In-memory fakes for the repository interfaces. Using fakes (not a mock
// framework) keeps tests dependency-free and easy to read — you can see
// exactly what each fake does. They mirror the sqlite behaviour the services
// rely on: NotFound/Conflict errors, newest-first request listing, chat-order
// messages, and the delete cascade.

type fakeUserRepo struct {
	users  map[string]*model.User // keyed by ID
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	for _, u := range f.users {
		// The sqlite store's UNIQUE COLLATE NOCASE index.
		if strings.EqualFold(u.Email, user.Email) {
			return apperror.Conflict("An account with that email already exists.")
		}
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeUserRepo) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	stored, ok := f.users[user.ID]
	if !ok {
		return apperror.NotFound("user", user.ID)
	}
	stored.Name = user.Name
	stored.Bio = user.Bio
	stored.Skills = user.Skills
	stored.Availability = user.Availability
	return nil
}

func (f *fakeUserRepo) CountAll(ctx context.Context) (int, error) {
	return len(f.users), nil
}

type fakeMentorshipRepo struct {
	requests []*model.MentorshipRequest // insertion order
	messages *fakeMessageRepo           // for the delete cascade, may be nil
	nextID   int
}

func newFakeMentorshipRepo() *fakeMentorshipRepo {
	return &fakeMentorshipRepo{}
}

func (f *fakeMentorshipRepo) Create(ctx context.Context, req *model.MentorshipRequest) error {
	f.nextID++
	req.ID = fmt.Sprintf("req-%d", f.nextID)
	req.CreatedAt = time.Now()
	copied := *req
	f.requests = append(f.requests, &copied)
	return nil
}

func (f *fakeMentorshipRepo) GetByID(ctx context.Context, id string) (*model.MentorshipRequest, error) {
	for _, r := range f.requests {
		if r.ID == id {
			copied := *r
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("mentorship request", id)
}

func (f *fakeMentorshipRepo) ListForUser(ctx context.Context, userID string) ([]model.MentorshipRequest, error) {
	// Newest first, like the ORDER BY created_at DESC in the real store.
	var out []model.MentorshipRequest
	for i := len(f.requests) - 1; i >= 0; i-- {
		if r := f.requests[i]; r.Participant(userID) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeMentorshipRepo) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	for _, r := range f.requests {
		if r.ID == id {
			r.Status = status
			return nil
		}
	}
	return apperror.NotFound("mentorship request", id)
}

func (f *fakeMentorshipRepo) Delete(ctx context.Context, id string) error {
	for i, r := range f.requests {
		if r.ID == id {
			f.requests = append(f.requests[:i], f.requests[i+1:]...)
			if f.messages != nil {
				f.messages.deleteForMentorship(id)
			}
			return nil
		}
	}
	return apperror.NotFound("mentorship request", id)
}

func (f *fakeMentorshipRepo) CountByStatus(ctx context.Context, status model.Status) (int, error) {
	n := 0
	for _, r := range f.requests {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeMessageRepo struct {
	messages []*model.Message // insertion order == chat order
	nextID   int
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (f *fakeMessageRepo) Create(ctx context.Context, msg *model.Message) error {
	f.nextID++
	msg.ID = fmt.Sprintf("msg-%d", f.nextID)
	msg.CreatedAt = time.Now()
	copied := *msg
	f.messages = append(f.messages, &copied)
	return nil
}

func (f *fakeMessageRepo) ListForMentorship(ctx context.Context, mentorshipID string) ([]model.Message, error) {
	var out []model.Message
	for _, m := range f.messages {
		if m.MentorshipID == mentorshipID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) deleteForMentorship(mentorshipID string) {
	kept := f.messages[:0]
	for _, m := range f.messages {
		if m.MentorshipID != mentorshipID {
			kept = append(kept, m)
		}
	}
	f.messages = kept
}

// testLogger discards everything below Error so test output stays readable.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestAuthService wires an AuthService with fakes. Cost 4 is the bcrypt
// minimum — makes tests fast.
func newTestAuthService(t *testing.T, repo *fakeUserRepo) *AuthService {
	t.Helper()
	return NewAuthService(repo, auth.NewPasswordServiceForTest(4), testLogger())
}

// newTestMentorshipService wires a MentorshipService plus the fakes behind
// it, with the message cascade hooked up.
func newTestMentorshipService(t *testing.T) (*MentorshipService, *fakeUserRepo, *fakeMentorshipRepo, *fakeMessageRepo) {
	t.Helper()
	users := newFakeUserRepo()
	messages := newFakeMessageRepo()
	mentorships := newFakeMentorshipRepo()
	mentorships.messages = messages
	svc := NewMentorshipService(mentorships, messages, users, testLogger())
	return svc, users, mentorships, messages
}

// seedUser inserts a user directly into the fake, bypassing registration.
func seedUser(t *testing.T, repo *fakeUserRepo, name, email string, role model.Role) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: email, Role: role, PasswordHash: "x"}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}
