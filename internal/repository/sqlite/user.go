package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/careercraft/internal/apperror"
	"github.com/sakif/careercraft/internal/model"
	"github.com/sakif/careercraft/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, name, email, password_hash, google_id, avatar_url,
	reset_otp, reset_otp_expires, created_at, updated_at`

// Create inserts a new user, generating the ID and timestamps in-place.
// A duplicate email surfaces as apperror.ErrConflict.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, google_id, avatar_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.GoogleID,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		// The driver has no typed error for constraint violations, so we
		// match on the standard SQLite message.
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return apperror.Conflict("user already exists")
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	return nil
}

// GetByID retrieves a user by internal ID.
// Returns apperror.ErrNotFound if no such user exists.
func (db *DB) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row, id)
}

// GetByEmail retrieves a user by email (exact, case-sensitive match).
// Returns apperror.ErrNotFound if no such user exists.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row, email)
}

// UpdateGoogleIdentity records the Google subject id on an existing user.
// The avatar is only written when the user has none yet — a locally chosen
// picture wins over the Google one.
func (db *DB) UpdateGoogleIdentity(ctx context.Context, id, googleID, avatarURL string) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE users
		 SET google_id = ?,
		     avatar_url = CASE WHEN avatar_url = '' THEN ? ELSE avatar_url END,
		     updated_at = ?
		 WHERE id = ?`,
		googleID, avatarURL, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating google identity for user %s: %w", id, err)
	}
	return nil
}

// SetResetOTP stores a pending password-reset code and its expiry.
func (db *DB) SetResetOTP(ctx context.Context, id, otp string, expires time.Time) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE users SET reset_otp = ?, reset_otp_expires = ?, updated_at = ? WHERE id = ?`,
		otp, expires, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: setting reset OTP for user %s: %w", id, err)
	}
	return nil
}

// ClearResetOTP removes any pending password-reset code.
func (db *DB) ClearResetOTP(ctx context.Context, id string) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE users SET reset_otp = '', reset_otp_expires = NULL, updated_at = ? WHERE id = ?`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: clearing reset OTP for user %s: %w", id, err)
	}
	return nil
}

// UpdatePassword replaces the password hash and clears the reset OTP in one
// statement, so a used code can never be replayed even if a second request
// races the first.
func (db *DB) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE users
		 SET password_hash = ?, reset_otp = '', reset_otp_expires = NULL, updated_at = ?
		 WHERE id = ?`,
		passwordHash, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating password for user %s: %w", id, err)
	}
	return nil
}

// scanUser reads one user row. The key is only used in error messages.
func scanUser(row *sql.Row, key string) (*model.User, error) {
	var u model.User
	var expires sql.NullTime

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.GoogleID,
		&u.AvatarURL,
		&u.ResetOTP,
		&expires,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user")
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", key, err)
	}

	if expires.Valid {
		t := expires.Time
		u.ResetOTPExpires = &t
	}

	return &u, nil
}
