package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/mentorhub/internal/apperror"
	"github.com/sakif/mentorhub/internal/model"
	"github.com/sakif/mentorhub/internal/repository"
)

// MentorshipService is the request ledger and its message log.
//
// THE TRANSITION RULES IN ONE PLACE:
//
//	Create   → caller must be a mentee, target must be a mentor → pending
//	Accept   → caller must be the request's mentor              → accepted
//	Decline  → caller must be the request's mentor              → declined
//	Complete → caller must be mentor or mentee on the request   → completed
//
// Transitions are guarded by ownership, not by the current status: accepting
// a declined request overwrites the status. Re-validating mentor.role on
// accept would add nothing — roles are immutable after registration, so the
// creation-time check holds for the life of the request.
type MentorshipService struct {
	mentorships repository.MentorshipRepository
	messages    repository.MessageRepository
	users       repository.UserRepository
	logger      *slog.Logger
}

// NewMentorshipService creates a MentorshipService.
func NewMentorshipService(
	mentorships repository.MentorshipRepository,
	messages repository.MessageRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *MentorshipService {
	return &MentorshipService{
		mentorships: mentorships,
		messages:    messages,
		users:       users,
		logger:      logger,
	}
}

// Create records a new mentorship request from the caller (a mentee) to the
// chosen mentor, with status pending.
func (s *MentorshipService) Create(ctx context.Context, caller *model.User, mentorID, goal string) (*model.MentorshipRequest, error) {
	goal = strings.TrimSpace(goal)

	if mentorID == "" || goal == "" {
		return nil, apperror.ValidationFailed("goal", "Please select a mentor and describe your goal.")
	}
	if caller.Role != model.RoleMentee {
		return nil, apperror.Forbidden("Only mentees can request mentorships.")
	}

	mentor, err := s.users.GetByID(ctx, mentorID)
	if err != nil || mentor.Role != model.RoleMentor {
		return nil, apperror.ValidationFailed("mentor_id", "Selected mentor is not available.")
	}

	req := &model.MentorshipRequest{
		MentorID: mentor.ID,
		MenteeID: caller.ID,
		Goal:     goal,
		Status:   model.StatusPending,
	}
	if err := s.mentorships.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("service/mentorship: creating request: %w", err)
	}

	s.logger.Info("mentorship request created",
		slog.String("requestID", req.ID),
		slog.String("mentorID", mentor.ID),
		slog.String("menteeID", caller.ID),
	)

	return req, nil
}

// Accept transitions a request to accepted. Mentor-only.
func (s *MentorshipService) Accept(ctx context.Context, callerID, requestID string) error {
	return s.mentorTransition(ctx, callerID, requestID, model.StatusAccepted,
		"Only the assigned mentor can accept this request.")
}

// Decline transitions a request to declined. Mentor-only.
func (s *MentorshipService) Decline(ctx context.Context, callerID, requestID string) error {
	return s.mentorTransition(ctx, callerID, requestID, model.StatusDeclined,
		"Only the assigned mentor can decline this request.")
}

// mentorTransition is the shared accept/decline path: load, check the caller
// is the assigned mentor, write the new status as a single-row UPDATE.
func (s *MentorshipService) mentorTransition(ctx context.Context, callerID, requestID string, status model.Status, denied string) error {
	req, err := s.mentorships.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.MentorID != callerID {
		return apperror.Forbidden(denied)
	}

	if err := s.mentorships.UpdateStatus(ctx, requestID, status); err != nil {
		return fmt.Errorf("service/mentorship: setting request %s to %s: %w", requestID, status, err)
	}

	s.logger.Info("mentorship request status changed",
		slog.String("requestID", requestID),
		slog.String("status", string(status)),
	)

	return nil
}

// Complete marks a mentorship completed. Either participant may do it.
func (s *MentorshipService) Complete(ctx context.Context, callerID, requestID string) error {
	req, err := s.mentorships.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if !req.Participant(callerID) {
		return apperror.Forbidden("You cannot complete an unrelated request.")
	}

	if err := s.mentorships.UpdateStatus(ctx, requestID, model.StatusCompleted); err != nil {
		return fmt.Errorf("service/mentorship: completing request %s: %w", requestID, err)
	}

	s.logger.Info("mentorship completed", slog.String("requestID", requestID))

	return nil
}

// ListForUser returns the caller's requests (as mentor or mentee), newest
// first.
func (s *MentorshipService) ListForUser(ctx context.Context, userID string) ([]model.MentorshipRequest, error) {
	reqs, err := s.mentorships.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/mentorship: listing requests for %s: %w", userID, err)
	}
	return reqs, nil
}

// Delete removes a request and, via the storage cascade, its entire message
// log. Administrative path — not reachable from any route; kept for ops use
// and exercised by the tests.
func (s *MentorshipService) Delete(ctx context.Context, requestID string) error {
	if err := s.mentorships.Delete(ctx, requestID); err != nil {
		return err
	}
	s.logger.Info("mentorship request deleted", slog.String("requestID", requestID))
	return nil
}

// PostMessage appends a chat message to a request's log. Participants only;
// the body must be non-blank after trimming. The timestamp is assigned by
// the repository, never taken from the client.
func (s *MentorshipService) PostMessage(ctx context.Context, callerID, requestID, body string) (*model.Message, error) {
	req, err := s.mentorships.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.Participant(callerID) {
		return nil, apperror.Forbidden("You are not part of this mentorship.")
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperror.ValidationFailed("body", "Message cannot be empty.")
	}

	msg := &model.Message{
		MentorshipID: req.ID,
		SenderID:     callerID,
		Body:         body,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("service/mentorship: posting message to %s: %w", requestID, err)
	}

	return msg, nil
}

// Messages returns a request's chat log in chat order (oldest first),
// together with the request itself for the page header. Participants only —
// the log is visible to nobody else, including other mentors.
func (s *MentorshipService) Messages(ctx context.Context, callerID, requestID string) (*model.MentorshipRequest, []model.Message, error) {
	req, err := s.mentorships.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if !req.Participant(callerID) {
		return nil, nil, apperror.Forbidden("You are not part of this mentorship.")
	}

	msgs, err := s.messages.ListForMentorship(ctx, requestID)
	if err != nil {
		return nil, nil, fmt.Errorf("service/mentorship: listing messages for %s: %w", requestID, err)
	}

	return req, msgs, nil
}
