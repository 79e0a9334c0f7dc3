// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage provides the real implementation;
// tests substitute in-memory fakes.
package repository

import (
	"context"
	"time"

	"github.com/sakif/careercraft/internal/model"
)

// UserRepository persists account records.
//
// Emails are unique; Create fails with a conflict error on a duplicate.
// The OTP mutators exist as separate operations (rather than a generic
// Update) because ForgotPassword must be able to roll the fields back
// without touching anything else on the row.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// UpdateGoogleIdentity records the Google subject id and, only when the
	// user has no avatar yet, the avatar URL.
	UpdateGoogleIdentity(ctx context.Context, id, googleID, avatarURL string) error
	SetResetOTP(ctx context.Context, id, otp string, expires time.Time) error
	ClearResetOTP(ctx context.Context, id string) error
	// UpdatePassword replaces the password hash and clears any pending
	// reset OTP in the same statement.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// ResumeRepository persists the one-per-user resume document.
//
// Both writers are upserts keyed by the unique user_id: the row is created
// on first use and replaced field-by-field afterwards. UpsertData replaces
// the whole data blob (last write wins); SetPDFURL touches only the URL.
type ResumeRepository interface {
	GetByUserID(ctx context.Context, userID string) (*model.Resume, error)
	UpsertData(ctx context.Context, userID string, data model.ResumeData) (*model.Resume, error)
	SetPDFURL(ctx context.Context, userID, pdfURL string) (*model.Resume, error)
}
