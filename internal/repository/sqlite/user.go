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

// UserDB implements repository.UserRepository over the shared pool.
// Obtain one with DB.Users().
type UserDB struct {
	conn *sql.DB
}

// Compile-time check: if a method goes missing the build breaks here rather
// than at a distant call site.
var _ repository.UserRepository = (*UserDB)(nil)

// Create inserts a new user, generating the ID and creation timestamp.
//
// The xid package gives us 20-char, URL-safe, time-sortable IDs without any
// coordination. The caller's struct is modified in place (pointer receiver)
// so the generated ID and timestamp are visible after the call.
//
// A duplicate email surfaces as the UNIQUE COLLATE NOCASE constraint firing;
// we translate that into the domain's Conflict error so the service never
// has to know what a SQLite error looks like.
func (db *UserDB) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, role, bio, skills, availability, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.Role,
		user.Bio,
		user.Skills,
		user.Availability,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("An account with that email already exists.")
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

const userColumns = `id, name, email, role, bio, skills, availability, password_hash, created_at`

// scanUser reads one user row. Shared by every SELECT in this file so the
// column order lives in exactly one place (next to userColumns above).
func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Role,
		&u.Bio,
		&u.Skills,
		&u.Availability,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by internal ID.
// Returns apperror.ErrNotFound if no such user exists.
func (db *UserDB) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return u, nil
}

// GetByEmail retrieves a user by email address. The NOCASE collation on the
// email column makes the comparison case-insensitive at the store level.
func (db *UserDB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)

	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}
	return u, nil
}

// ListByRole returns every user with the given role. The community is small
// by design (no pagination in scope), so a full projection is fine; name
// order keeps the mentor picker stable between page loads.
func (db *UserDB) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = ? ORDER BY name`, role)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users by role %s: %w", role, err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// UpdateProfile saves the self-service profile fields: name, bio, skills,
// availability. Email, role, password hash, and created_at are immutable
// through this path — the UPDATE simply doesn't touch them.
func (db *UserDB) UpdateProfile(ctx context.Context, user *model.User) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET name = ?, bio = ?, skills = ?, availability = ? WHERE id = ?`,
		user.Name,
		user.Bio,
		user.Skills,
		user.Availability,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("user", user.ID)
	}

	return nil
}

// CountAll returns the total number of registered users (dashboard stat).
func (db *UserDB) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting users: %w", err)
	}
	return n, nil
}
