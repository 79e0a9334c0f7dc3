// Package service contains the business logic layer.
//
// The layering follows the usual three-tier shape:
//
//	Handler (HTTP)  → parses requests, writes responses
//	Service (rules) → validates, enforces invariants, orchestrates
//	Repository (DB) → reads/writes rows
//
// Services accept primitives and return domain errors; they know nothing
// about HTTP. The handlers translate apperror values into status codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/careercraft/internal/apperror"
	"github.com/sakif/careercraft/internal/auth"
	"github.com/sakif/careercraft/internal/mail"
	"github.com/sakif/careercraft/internal/model"
	"github.com/sakif/careercraft/internal/repository"
)

// AuthService handles registration, login, Google sign-in and the
// OTP-based password reset flow.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	mailer    mail.Dispatcher
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	mailer mail.Dispatcher,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		mailer:    mailer,
		logger:    logger,
	}
}

// AuthResult bundles the authenticated user and the freshly issued session
// token, so the handler can respond (and optionally set a cookie) in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account and signs the user in.
//
// Rules, in order: all three fields are required; the email must not be
// taken; the password is bcrypt-hashed before anything is stored. The
// uniqueness check is backed by the UNIQUE constraint in the store, so a
// race between two identical registrations still leaves exactly one user.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" || password == "" {
		return nil, apperror.ValidationFailed("", "please add all fields")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Conflict (duplicate email) passes through untouched.
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return s.withToken(user)
}

// Login checks the credentials and signs the user in.
//
// A missing user and a wrong password produce the same "invalid
// credentials" error — telling an attacker which of the two failed would
// confirm which emails have accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, apperror.ValidationFailed("", "invalid credentials")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.ValidationFailed("", "invalid credentials")
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return s.withToken(user)
}

// GoogleSignIn signs in (or provisions) the account for a verified Google
// identity.
//
// The GoogleUser here always comes out of auth.GoogleProvider, i.e. from
// Google's own endpoints — never from request fields. Existing accounts
// get the Google subject id attached (and an avatar, if they had none);
// new accounts are created with the email's local part as a name fallback
// and a random, never-disclosed placeholder password.
func (s *AuthService) GoogleSignIn(ctx context.Context, gu *auth.GoogleUser) (*AuthResult, error) {
	if gu == nil {
		return nil, fmt.Errorf("service/auth: google user must not be nil")
	}

	user, err := s.users.GetByEmail(ctx, gu.Email)
	switch {
	case err == nil:
		if err := s.users.UpdateGoogleIdentity(ctx, user.ID, gu.Sub, gu.Picture); err != nil {
			return nil, fmt.Errorf("service/auth: linking google identity: %w", err)
		}
		user.GoogleID = gu.Sub
		if user.AvatarURL == "" {
			user.AvatarURL = gu.Picture
		}

	case errors.Is(err, apperror.ErrNotFound):
		name := gu.Name
		if name == "" {
			// Fall back to the email's local part, e.g. "ann" for ann@x.com.
			name, _, _ = strings.Cut(gu.Email, "@")
		}

		placeholder, err := auth.RandomPassword()
		if err != nil {
			return nil, fmt.Errorf("service/auth: %w", err)
		}
		hash, err := s.passwords.Hash(placeholder)
		if err != nil {
			return nil, fmt.Errorf("service/auth: hashing placeholder password: %w", err)
		}

		user = &model.User{
			Name:         name,
			Email:        gu.Email,
			PasswordHash: hash,
			GoogleID:     gu.Sub,
			AvatarURL:    gu.Picture,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("service/auth: creating google user: %w", err)
		}

	default:
		return nil, fmt.Errorf("service/auth: looking up google user: %w", err)
	}

	s.logger.Info("user authenticated via Google",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return s.withToken(user)
}

// ForgotPassword generates a reset OTP, stores it with its expiry and
// emails it out.
//
// If the email cannot be dispatched, the stored OTP fields are rolled back
// before the error returns — otherwise the user would be stuck with a
// pending code they never received, and a retry would look like a replay.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return err // unknown emails surface as 404
	}

	otp, err := auth.GenerateOTP()
	if err != nil {
		return fmt.Errorf("service/auth: %w", err)
	}

	expires := time.Now().Add(auth.OTPDuration)
	if err := s.users.SetResetOTP(ctx, user.ID, otp, expires); err != nil {
		return fmt.Errorf("service/auth: storing reset OTP: %w", err)
	}

	message := fmt.Sprintf("Your Password Reset OTP is: %s\n\nIt expires in 10 minutes.", otp)
	if err := s.mailer.Send(ctx, user.Email, "Password Reset Token", message); err != nil {
		s.logger.Error("reset OTP email failed",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
		// Roll back so no unusable pending reset state is left behind.
		if clearErr := s.users.ClearResetOTP(ctx, user.ID); clearErr != nil {
			s.logger.Error("rolling back reset OTP failed",
				slog.String("userID", user.ID),
				slog.String("error", clearErr.Error()),
			)
		}
		return fmt.Errorf("service/auth: sending reset email: %w", err)
	}

	s.logger.Info("reset OTP sent", slog.String("userID", user.ID))
	return nil
}

// ResetPassword replaces the password if email, OTP and expiry all line up.
//
// All three conditions are checked against the same freshly loaded row, and
// the repository clears the OTP in the same statement that writes the new
// hash, so a code works exactly once.
func (s *AuthService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	if newPassword == "" {
		return apperror.ValidationFailed("newPassword", "new password is required")
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil || !user.HasValidResetOTP(otp, time.Now()) {
		return apperror.ValidationFailed("otp", "invalid or expired OTP")
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return apperror.ValidationFailed("newPassword", err.Error())
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("service/auth: updating password: %w", err)
	}

	s.logger.Info("password reset", slog.String("userID", user.ID))
	return nil
}

// GetUserByID returns the user for the given internal ID. Used by the
// /api/auth/me handler after the middleware validated the session token.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}
	return s.users.GetByID(ctx, id)
}

// ValidateToken validates a session JWT and returns the userID it encodes.
func (s *AuthService) ValidateToken(tokenStr string) (string, error) {
	userID, err := s.tokens.Validate(tokenStr)
	if err != nil {
		return "", fmt.Errorf("service/auth: %w", err)
	}
	return userID, nil
}

func (s *AuthService) withToken(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
