package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/mentorhub/internal/model"
	"github.com/sakif/mentorhub/internal/repository"
)

// MessageDB implements repository.MessageRepository over the shared pool.
// Obtain one with DB.Messages().
//
// Deliberately tiny: the log is append-only, so Create and ListForMentorship
// are the whole surface. No Update, no Delete — messages only ever disappear
// through the cascade when their parent request is deleted.
type MessageDB struct {
	conn *sql.DB
}

var _ repository.MessageRepository = (*MessageDB)(nil)

// Create appends a message with a server-assigned timestamp.
func (db *MessageDB) Create(ctx context.Context, msg *model.Message) error {
	msg.ID = xid.New().String()
	msg.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO messages (id, mentorship_id, sender_id, body, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		msg.ID,
		msg.MentorshipID,
		msg.SenderID,
		msg.Body,
		msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating message: %w", err)
	}

	return nil
}

// ListForMentorship returns the chat log oldest-first. Ascending
// creation-time order is the contract — it must equal insertion order, which
// holds because CreatedAt is assigned server-side in Create.
//
// The JOIN pulls each sender's name so the chat view can label messages.
func (db *MessageDB) ListForMentorship(ctx context.Context, mentorshipID string) ([]model.Message, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT m.id, m.mentorship_id, m.sender_id, m.body, m.created_at, u.name
		 FROM messages m
		 JOIN users u ON u.id = m.sender_id
		 WHERE m.mentorship_id = ?
		 ORDER BY m.created_at ASC, m.id ASC`,
		mentorshipID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing messages for %s: %w", mentorshipID, err)
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(
			&m.ID, &m.MentorshipID, &m.SenderID, &m.Body, &m.CreatedAt, &m.SenderName,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning message row: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating messages: %w", err)
	}

	return msgs, nil
}
