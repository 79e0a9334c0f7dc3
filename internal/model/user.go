// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Accounts are created either through email/password registration or on the
// first Google sign-in. In the Google case no password is ever chosen by the
// user — a random placeholder is hashed and stored so that the column is
// never empty and a later "forgot password" flow still works.
//
// The reset OTP fields are only populated while a password reset is pending:
// ForgotPassword sets them, a successful ResetPassword (or a failed email
// dispatch) clears them again.
//
// PasswordHash and the OTP fields are never serialized — note the `json:"-"`
// tags. API responses use PublicProfile instead, but the tags are a second
// line of defence if a *User ever ends up in writeJSON directly.
type User struct {
	ID              string     `json:"id"        db:"id"`
	Name            string     `json:"name"      db:"name"`
	Email           string     `json:"email"     db:"email"` // unique, stored case-sensitively
	PasswordHash    string     `json:"-"         db:"password_hash"`
	GoogleID        string     `json:"-"         db:"google_id"`  // Google's stable subject id (may be empty)
	AvatarURL       string     `json:"avatarUrl" db:"avatar_url"` // profile picture URL (may be empty)
	ResetOTP        string     `json:"-"         db:"reset_otp"`
	ResetOTPExpires *time.Time `json:"-"         db:"reset_otp_expires"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}

// PublicProfile is the subset of User returned by the auth endpoints.
type PublicProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Profile returns the public view of the user.
func (u *User) Profile() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}
}

// HasValidResetOTP reports whether the stored OTP matches and has not
// expired at the given instant. Both conditions must hold — a matching but
// expired code is as useless as a wrong one.
func (u *User) HasValidResetOTP(otp string, now time.Time) bool {
	if u.ResetOTP == "" || u.ResetOTPExpires == nil {
		return false
	}
	return u.ResetOTP == otp && now.Before(*u.ResetOTPExpires)
}
