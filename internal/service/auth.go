package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/gatekeeper-server/internal/logger"
	"github.com/dtroode/gatekeeper-server/internal/model"
	"github.com/dtroode/gatekeeper-server/internal/password"
)

// RegisterParams carries validated registration input.
type RegisterParams struct {
	Email     string
	Password  string
	FirstName *string
	LastName  *string
}

// Credentials carries login input.
type Credentials struct {
	Email    string
	Password string
}

// AuthResult is the envelope returned by flows that establish a session.
type AuthResult struct {
	User         model.User
	AccessToken  string
	RefreshToken string
}

// LinkTTLs configures lifetimes for the emailed single-use tokens.
type LinkTTLs struct {
	Verification time.Duration
	Reset        time.Duration
}

// Auth composes the password hasher, token services, user store, and
// notification gateway into the register/login/logout/refresh/verify/reset
// flows. The ordering and failure handling here carry the atomicity and
// non-enumeration guarantees; the HTTP layer is a thin adapter over it.
type Auth struct {
	users     model.UserStore
	hasher    *password.Hasher
	tokens    *TokenService
	manager   model.AccessTokenManager
	ephemeral *Ephemeral
	notifier  model.Notifier
	tx        model.TxManager
	baseURL   string
	ttls      LinkTTLs
	logger    *logger.Logger
}

func NewAuth(
	users model.UserStore,
	hasher *password.Hasher,
	tokens *TokenService,
	manager model.AccessTokenManager,
	ephemeral *Ephemeral,
	notifier model.Notifier,
	tx model.TxManager,
	baseURL string,
	ttls LinkTTLs,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		manager:   manager,
		ephemeral: ephemeral,
		notifier:  notifier,
		tx:        tx,
		baseURL:   strings.TrimRight(baseURL, "/"),
		ttls:      ttls,
		logger:    logger,
	}
}

// Register creates the user, issues a verification link, and returns working
// credentials. A failed verification email never rolls back the user nor
// fails the response: the account is already durable, and resend-verification
// exists as compensation.
func (a *Auth) Register(ctx context.Context, params RegisterParams) (AuthResult, error) {
	if err := validateEmail(params.Email); err != nil {
		return AuthResult{}, err
	}
	if err := a.hasher.ValidateStrength(params.Password); err != nil {
		return AuthResult{}, err
	}

	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		return AuthResult{}, model.NewInternalError(fmt.Errorf("hash password: %w", err))
	}

	now := time.Now()
	user, err := a.users.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        params.Email,
		PasswordHash: hash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			return AuthResult{}, model.NewValidationError("email already registered")
		}
		return AuthResult{}, model.NewDatabaseError(err)
	}

	a.sendVerification(ctx, user)

	access, refresh, err := a.tokens.Issue(ctx, user)
	if err != nil {
		return AuthResult{}, model.NewInternalError(fmt.Errorf("issue tokens: %w", err))
	}

	a.logger.Info("Auth service: user registered", "user_id", user.ID)

	return AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Login verifies credentials and establishes a session. Unknown email and
// wrong password return the same failure.
func (a *Auth) Login(ctx context.Context, creds Credentials) (AuthResult, error) {
	user, err := a.users.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return AuthResult{}, errInvalidCredentials()
		}
		return AuthResult{}, model.NewDatabaseError(err)
	}

	ok, err := a.hasher.Verify(creds.Password, user.PasswordHash)
	if err != nil {
		return AuthResult{}, model.NewInternalError(fmt.Errorf("verify password: %w", err))
	}
	if !ok {
		return AuthResult{}, errInvalidCredentials()
	}

	access, refresh, err := a.tokens.Issue(ctx, user)
	if err != nil {
		return AuthResult{}, model.NewInternalError(fmt.Errorf("issue tokens: %w", err))
	}

	a.logger.Info("Auth service: user logged in", "user_id", user.ID)

	return AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Logout is best-effort: the presented refresh token and every session owned
// by the access token's subject are revoked independently, and failures are
// logged, never surfaced. Logout always appears to succeed.
func (a *Auth) Logout(ctx context.Context, accessToken, refreshToken string) {
	if refreshToken != "" {
		if err := a.tokens.RevokeByToken(ctx, refreshToken); err != nil {
			a.logger.Warn("Auth service: failed to revoke refresh token on logout", "error", err.Error())
		}
	}

	if accessToken != "" {
		claims, err := a.manager.Parse(accessToken)
		if err != nil {
			a.logger.Warn("Auth service: unparseable access token on logout", "error", err.Error())
			return
		}
		if err := a.tokens.RevokeAllForUser(ctx, claims.UserID); err != nil {
			a.logger.Warn("Auth service: failed to revoke user sessions on logout",
				"user_id", claims.UserID,
				"error", err.Error())
		}
	}
}

// Refresh rotates the presented refresh token and mints a new access token.
// Missing, expired, and revoked tokens all collapse into the same
// invalid-session failure toward the caller.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	userID, newRefresh, err := a.tokens.Rotate(ctx, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound),
			errors.Is(err, model.ErrTokenExpired),
			errors.Is(err, model.ErrTokenRevoked):
			return AuthResult{}, model.NewAuthError("invalid or expired session")
		default:
			return AuthResult{}, model.NewDatabaseError(err)
		}
	}

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return AuthResult{}, model.NewNotFoundError("user account no longer exists")
		}
		return AuthResult{}, model.NewDatabaseError(err)
	}

	access, err := a.manager.Generate(user.ID, user.Email)
	if err != nil {
		return AuthResult{}, model.NewInternalError(fmt.Errorf("issue access token: %w", err))
	}

	return AuthResult{User: user, AccessToken: access, RefreshToken: newRefresh}, nil
}

// VerifyEmail consumes a verification token and marks the user verified. The
// consume and the flag update form one transaction, so a crash between them
// cannot burn the link without verifying the account.
func (a *Auth) VerifyEmail(ctx context.Context, rawToken string) (model.User, error) {
	var user model.User
	err := a.tx.WithinTx(ctx, func(ctx context.Context) error {
		userID, err := a.ephemeral.Consume(ctx, rawToken, model.PurposeEmailVerification)
		if err != nil {
			return err
		}
		user, err = a.users.SetEmailVerified(ctx, userID)
		return err
	})
	if err != nil {
		return model.User{}, verificationFlowError(err)
	}

	a.logger.Info("Auth service: email verified", "user_id", user.ID)
	return user, nil
}

// ResendVerification re-issues the verification token and re-sends the link.
func (a *Auth) ResendVerification(ctx context.Context, email string) error {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewNotFoundError("user not found")
		}
		return model.NewDatabaseError(err)
	}

	if user.EmailVerified {
		return model.NewValidationError("email already verified")
	}

	a.sendVerification(ctx, user)
	return nil
}

// ForgotPassword issues a reset link if the email matches an account. The
// response is success either way: account existence must not be inferable
// from the response shape.
func (a *Auth) ForgotPassword(ctx context.Context, email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		return model.NewDatabaseError(err)
	}

	raw, err := a.ephemeral.Issue(ctx, user.ID, model.PurposePasswordReset, a.ttls.Reset)
	if err != nil {
		return model.NewInternalError(fmt.Errorf("issue reset token: %w", err))
	}

	link := fmt.Sprintf("%s/reset-password/%s", a.baseURL, raw)
	if err := a.notifier.SendPasswordResetEmail(ctx, user.Email, link, user.DisplayName()); err != nil {
		a.logger.Error("Auth service: failed to send password reset email",
			"user_id", user.ID,
			"error", err.Error())
	}

	return nil
}

// ValidateResetToken reports whether a reset link is still usable without
// consuming it.
func (a *Auth) ValidateResetToken(ctx context.Context, rawToken string) error {
	if _, err := a.ephemeral.Peek(ctx, rawToken, model.PurposePasswordReset); err != nil {
		return resetFlowError(err)
	}
	return nil
}

// ResetPassword consumes the reset token and applies the new password hash as
// one transaction: if the password update fails, the token consumption rolls
// back with it and the link stays usable.
func (a *Auth) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if err := a.hasher.ValidateStrength(newPassword); err != nil {
		return err
	}

	hash, err := a.hasher.Hash(newPassword)
	if err != nil {
		return model.NewInternalError(fmt.Errorf("hash password: %w", err))
	}

	var userID uuid.UUID
	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		userID, err = a.ephemeral.Consume(ctx, rawToken, model.PurposePasswordReset)
		if err != nil {
			return err
		}
		if err := a.users.UpdatePassword(ctx, userID, hash); err != nil {
			return err
		}
		return a.ephemeral.Clear(ctx, userID, model.PurposePasswordReset)
	})
	if err != nil {
		return resetFlowError(err)
	}

	a.logger.Info("Auth service: password reset", "user_id", userID)
	return nil
}

// sendVerification issues a verification token and emails the link.
// Best-effort: failures are logged and never propagated.
func (a *Auth) sendVerification(ctx context.Context, user model.User) {
	raw, err := a.ephemeral.Issue(ctx, user.ID, model.PurposeEmailVerification, a.ttls.Verification)
	if err != nil {
		a.logger.Error("Auth service: failed to issue verification token",
			"user_id", user.ID,
			"error", err.Error())
		return
	}

	link := fmt.Sprintf("%s/verify-email/%s", a.baseURL, raw)
	if err := a.notifier.SendVerificationEmail(ctx, user.Email, link, user.DisplayName()); err != nil {
		a.logger.Error("Auth service: failed to send verification email",
			"user_id", user.ID,
			"error", err.Error())
	}
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return model.NewValidationError("invalid email format")
	}
	return nil
}

func errInvalidCredentials() error {
	return model.NewAuthError("invalid email or password")
}

func verificationFlowError(err error) error {
	switch {
	case errors.Is(err, model.ErrTokenExpired):
		return model.NewTokenError(model.KindTokenExpired, "verification token has expired")
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrTokenConsumed):
		return model.NewNotFoundError("invalid verification token")
	default:
		return model.NewDatabaseError(err)
	}
}

func resetFlowError(err error) error {
	switch {
	case errors.Is(err, model.ErrTokenExpired):
		return model.NewTokenError(model.KindTokenExpired, "reset token has expired")
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrTokenConsumed):
		return model.NewNotFoundError("invalid reset token")
	default:
		return model.NewDatabaseError(err)
	}
}
