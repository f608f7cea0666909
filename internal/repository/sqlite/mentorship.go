package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/mentorhub/internal/apperror"
	"github.com/sakif/mentorhub/internal/model"
	"github.com/sakif/mentorhub/internal/repository"
)

// MentorshipDB implements repository.MentorshipRepository over the shared
// pool. Obtain one with DB.Mentorships().
type MentorshipDB struct {
	conn *sql.DB
}

var _ repository.MentorshipRepository = (*MentorshipDB)(nil)

// Create inserts a mentorship request. The status is whatever the caller set
// — the service always sets StatusPending, but the repository doesn't
// second-guess it (the service owns the business rules, the repository owns
// the SQL).
func (db *MentorshipDB) Create(ctx context.Context, req *model.MentorshipRequest) error {
	req.ID = xid.New().String()
	req.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO mentorship_requests (id, mentor_id, mentee_id, goal, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		req.ID,
		req.MentorID,
		req.MenteeID,
		req.Goal,
		req.Status,
		req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating mentorship request: %w", err)
	}

	return nil
}

// GetByID retrieves a single request. The Mentor/Mentee views are left nil
// here — ownership checks only need the two IDs.
func (db *MentorshipDB) GetByID(ctx context.Context, id string) (*model.MentorshipRequest, error) {
	var m model.MentorshipRequest

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, mentor_id, mentee_id, goal, status, created_at
		 FROM mentorship_requests WHERE id = ?`,
		id,
	).Scan(
		&m.ID,
		&m.MentorID,
		&m.MenteeID,
		&m.Goal,
		&m.Status,
		&m.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("mentorship request", id)
		}
		return nil, fmt.Errorf("sqlite: getting mentorship request %s: %w", id, err)
	}

	return &m, nil
}

// ListForUser returns every request where the user is mentor or mentee,
// newest first.
//
// THE ORDER BY IS A CONTRACT:
// "most recent first" is part of the ledger's behaviour, not a display
// preference — the tests pin it. Don't be tempted to drop it because xid
// happens to be time-sortable; created_at is the source of truth.
//
// The double JOIN denormalises both participants' names so the list pages
// can render "Ada → Grace" without a query per row.
func (db *MentorshipDB) ListForUser(ctx context.Context, userID string) ([]model.MentorshipRequest, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT r.id, r.mentor_id, r.mentee_id, r.goal, r.status, r.created_at,
		        mentor.name, mentee.name
		 FROM mentorship_requests r
		 JOIN users mentor ON mentor.id = r.mentor_id
		 JOIN users mentee ON mentee.id = r.mentee_id
		 WHERE r.mentor_id = ? OR r.mentee_id = ?
		 ORDER BY r.created_at DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing mentorship requests for %s: %w", userID, err)
	}
	defer rows.Close()

	var reqs []model.MentorshipRequest
	for rows.Next() {
		var m model.MentorshipRequest
		var mentorName, menteeName string
		if err := rows.Scan(
			&m.ID, &m.MentorID, &m.MenteeID, &m.Goal, &m.Status, &m.CreatedAt,
			&mentorName, &menteeName,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning mentorship row: %w", err)
		}
		m.Mentor = &model.User{ID: m.MentorID, Name: mentorName, Role: model.RoleMentor}
		m.Mentee = &model.User{ID: m.MenteeID, Name: menteeName, Role: model.RoleMentee}
		reqs = append(reqs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating mentorship requests: %w", err)
	}

	return reqs, nil
}

// UpdateStatus sets a request's status in a single-row UPDATE. There is no
// WHERE clause on the current status: the transition rules (and their
// deliberate lack of a re-open guard) live in the service layer.
func (db *MentorshipDB) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE mentorship_requests SET status = ? WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating status of request %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("mentorship request", id)
	}

	return nil
}

// Delete removes a request. The ON DELETE CASCADE on messages.mentorship_id
// removes the chat log in the same statement — the request exclusively owns
// its messages, so nothing orphaned survives.
func (db *MentorshipDB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM mentorship_requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting mentorship request %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("mentorship request", id)
	}

	return nil
}

// CountByStatus returns the number of requests in the given status
// (dashboard's "active mentorships" counts StatusAccepted).
func (db *MentorshipDB) CountByStatus(ctx context.Context, status model.Status) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM mentorship_requests WHERE status = ?`, status,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting requests by status %s: %w", status, err)
	}
	return n, nil
}
