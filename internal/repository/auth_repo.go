package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todo_api/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*UserRepository)(nil)

const (
	insertUserSQL        = `INSERT INTO users (name, email, password_hash, created_at) VALUES (?, ?, ?, ?)`
	selectUserByEmailSQL = `SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`
	selectUserByIDSQL    = `SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`
	updatePasswordSQL    = `UPDATE users SET password_hash = ? WHERE email = ?`

	insertRevokedTokenSQL = `INSERT INTO revoked_tokens (jti, revoked_at) VALUES (?, ?)`
	selectRevokedJtiSQL   = `SELECT COUNT(*) FROM revoked_tokens WHERE jti = ?`

	upsertPasswordResetSQL = `INSERT INTO password_resets (email, token, created_at) VALUES (?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET token = excluded.token, created_at = excluded.created_at`
	selectPasswordResetSQL = `SELECT email, token, created_at FROM password_resets WHERE email = ?`
	deletePasswordResetSQL = `DELETE FROM password_resets WHERE email = ?`
)

// CreateUser inserts a new user and returns its ID.
func (r *UserRepository) CreateUser(name, email, passwordHash string) (int, error) {
	res, err := r.db.Exec(insertUserSQL, name, email, passwordHash,
		time.Now().UTC().Format(timestampLayout))
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", email, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", email, err)
	}
	return int(lastID), nil
}

// GetUserByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	return r.scanUser(r.db.QueryRow(selectUserByEmailSQL, email), email)
}

// GetUserByID fetches a user by primary key. Returns (nil, nil) if not found.
func (r *UserRepository) GetUserByID(id int) (*models.User, error) {
	return r.scanUser(r.db.QueryRow(selectUserByIDSQL, id), fmt.Sprintf("#%d", id))
}

func (r *UserRepository) scanUser(row *sql.Row, ref string) (*models.User, error) {
	var (
		u         models.User
		createdAt string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %s: %w", ref, err)
	}
	if u.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at for user %s: %w", ref, err)
	}
	return &u, nil
}

// UpdatePassword replaces the stored hash for the given email.
func (r *UserRepository) UpdatePassword(email, passwordHash string) error {
	if _, err := r.db.Exec(updatePasswordSQL, passwordHash, email); err != nil {
		return fmt.Errorf("update password for %q: %w", email, err)
	}
	return nil
}

// RevokeToken denylists a token's jti.
func (r *UserRepository) RevokeToken(jti string, revokedAt time.Time) error {
	if _, err := r.db.Exec(insertRevokedTokenSQL, jti, revokedAt.UTC().Format(timestampLayout)); err != nil {
		return fmt.Errorf("revoke token %q: %w", jti, err)
	}
	return nil
}

// IsTokenRevoked reports whether a jti has been denylisted.
func (r *UserRepository) IsTokenRevoked(jti string) (bool, error) {
	var n int
	if err := r.db.QueryRow(selectRevokedJtiSQL, jti).Scan(&n); err != nil {
		return false, fmt.Errorf("check revoked token %q: %w", jti, err)
	}
	return n > 0, nil
}

// SavePasswordReset stores (or replaces) the reset token for an email.
func (r *UserRepository) SavePasswordReset(reset models.PasswordReset) error {
	_, err := r.db.Exec(upsertPasswordResetSQL,
		reset.Email, reset.Token, reset.CreatedAt.UTC().Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("save password reset for %q: %w", reset.Email, err)
	}
	return nil
}

// GetPasswordReset fetches the pending reset for an email. Returns (nil, nil) if none.
func (r *UserRepository) GetPasswordReset(email string) (*models.PasswordReset, error) {
	var (
		reset     models.PasswordReset
		createdAt string
	)
	err := r.db.QueryRow(selectPasswordResetSQL, email).Scan(&reset.Email, &reset.Token, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select password reset for %q: %w", email, err)
	}
	if reset.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at for reset %q: %w", email, err)
	}
	return &reset, nil
}

// DeletePasswordReset discards the pending reset for an email.
func (r *UserRepository) DeletePasswordReset(email string) error {
	if _, err := r.db.Exec(deletePasswordResetSQL, email); err != nil {
		return fmt.Errorf("delete password reset for %q: %w", email, err)
	}
	return nil
}
