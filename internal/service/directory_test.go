package service

import (
	"context"
	"testing"

	"github.com/sakif/mentorhub/internal/model"
)

func newTestDirectoryService(t *testing.T) (*DirectoryService, *fakeUserRepo, *fakeMentorshipRepo) {
	t.Helper()
	users := newFakeUserRepo()
	mentorships := newFakeMentorshipRepo()
	return NewDirectoryService(users, mentorships, testLogger()), users, mentorships
}

func TestMentorsAndMentees(t *testing.T) {
	svc, users, _ := newTestDirectoryService(t)
	seedUser(t, users, "Grace", "grace@example.com", model.RoleMentor)
	seedUser(t, users, "Ada", "ada@example.com", model.RoleMentee)
	seedUser(t, users, "Mel", "mel@example.com", model.RoleMentee)
	ctx := context.Background()

	mentors, err := svc.Mentors(ctx)
	if err != nil {
		t.Fatalf("Mentors() error = %v", err)
	}
	if len(mentors) != 1 || mentors[0].Name != "Grace" {
		t.Errorf("Mentors() = %+v, want just Grace", mentors)
	}

	mentees, err := svc.Mentees(ctx)
	if err != nil {
		t.Fatalf("Mentees() error = %v", err)
	}
	if len(mentees) != 2 {
		t.Errorf("Mentees() returned %d users, want 2", len(mentees))
	}
}

func TestStats(t *testing.T) {
	svc, users, mentorships := newTestDirectoryService(t)
	mentor := seedUser(t, users, "Grace", "grace@example.com", model.RoleMentor)
	mentee := seedUser(t, users, "Ada", "ada@example.com", model.RoleMentee)
	ctx := context.Background()

	// Two requests, one accepted — only the accepted one is "active".
	ledgerSvc := NewMentorshipService(mentorships, newFakeMessageRepo(), users, testLogger())
	accepted, err := ledgerSvc.Create(ctx, mentee, mentor.ID, "goal one")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := ledgerSvc.Create(ctx, mentee, mentor.ID, "goal two"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := ledgerSvc.Accept(ctx, mentor.ID, accepted.ID); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.TotalUsers != 2 {
		t.Errorf("TotalUsers = %d, want 2", stats.TotalUsers)
	}
	if stats.MentorCount != 1 {
		t.Errorf("MentorCount = %d, want 1", stats.MentorCount)
	}
	if stats.MenteeCount != 1 {
		t.Errorf("MenteeCount = %d, want 1", stats.MenteeCount)
	}
	if stats.ActiveMentorships != 1 {
		t.Errorf("ActiveMentorships = %d, want 1", stats.ActiveMentorships)
	}
}

func TestStats_EmptyCommunity(t *testing.T) {
	svc, _, _ := newTestDirectoryService(t)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalUsers != 0 || stats.ActiveMentorships != 0 {
		t.Errorf("Stats() on empty community = %+v, want zeros", stats)
	}
}
