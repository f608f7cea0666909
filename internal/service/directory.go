package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/mentorhub/internal/model"
	"github.com/sakif/mentorhub/internal/repository"
)

// DirectoryService exposes the member directory: who's a mentor, who's a
// mentee, and the headline numbers on the dashboard. Read-only.
type DirectoryService struct {
	users       repository.UserRepository
	mentorships repository.MentorshipRepository
	logger      *slog.Logger
}

// NewDirectoryService creates a DirectoryService.
func NewDirectoryService(
	users repository.UserRepository,
	mentorships repository.MentorshipRepository,
	logger *slog.Logger,
) *DirectoryService {
	return &DirectoryService{
		users:       users,
		mentorships: mentorships,
		logger:      logger,
	}
}

// Mentors lists every user registered as a mentor.
func (s *DirectoryService) Mentors(ctx context.Context) ([]model.User, error) {
	return s.users.ListByRole(ctx, model.RoleMentor)
}

// Mentees lists every user registered as a mentee.
func (s *DirectoryService) Mentees(ctx context.Context) ([]model.User, error) {
	return s.users.ListByRole(ctx, model.RoleMentee)
}

// Stats is the dashboard's headline block.
type Stats struct {
	TotalUsers        int
	MentorCount       int
	MenteeCount       int
	ActiveMentorships int // requests currently in status accepted
}

// Stats gathers the dashboard counters. Four small queries; the community
// is small enough that nothing here needs caching.
func (s *DirectoryService) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.users.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/directory: counting users: %w", err)
	}

	mentors, err := s.users.ListByRole(ctx, model.RoleMentor)
	if err != nil {
		return nil, fmt.Errorf("service/directory: listing mentors: %w", err)
	}

	mentees, err := s.users.ListByRole(ctx, model.RoleMentee)
	if err != nil {
		return nil, fmt.Errorf("service/directory: listing mentees: %w", err)
	}

	active, err := s.mentorships.CountByStatus(ctx, model.StatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("service/directory: counting active mentorships: %w", err)
	}

	return &Stats{
		TotalUsers:        total,
		MentorCount:       len(mentors),
		MenteeCount:       len(mentees),
		ActiveMentorships: active,
	}, nil
}
