package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/gatekeeper-server/internal/logger"
	servermocks "github.com/dtroode/gatekeeper-server/internal/mocks"
	"github.com/dtroode/gatekeeper-server/internal/model"
	"github.com/dtroode/gatekeeper-server/internal/password"
	"github.com/dtroode/gatekeeper-server/internal/service"
)

type authFixture struct {
	users      *servermocks.UserStore
	refresh    *servermocks.RefreshTokenStore
	ephemerals *servermocks.EphemeralTokenStore
	manager    *servermocks.AccessTokenManager
	notifier   *servermocks.Notifier
	hasher     *password.Hasher
	auth       *service.Auth
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:      &servermocks.UserStore{},
		refresh:    &servermocks.RefreshTokenStore{},
		ephemerals: &servermocks.EphemeralTokenStore{},
		manager:    &servermocks.AccessTokenManager{},
		notifier:   &servermocks.Notifier{},
		hasher:     password.New(password.DefaultPolicy()),
	}
	log := logger.New(0)
	tokens := service.NewTokenService(f.manager, f.refresh, passthroughTx{}, time.Hour, log)
	ephemeral := service.NewEphemeral(f.ephemerals, passthroughTx{}, log)
	f.auth = service.NewAuth(
		f.users,
		f.hasher,
		tokens,
		f.manager,
		ephemeral,
		f.notifier,
		passthroughTx{},
		"https://app.example.com/",
		service.LinkTTLs{Verification: 24 * time.Hour, Reset: time.Hour},
		log,
	)
	return f
}

func TestAuth_Register_Success(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	userID := uuid.New()

	f.users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "a@b.c" && u.PasswordHash != "" && u.PasswordHash != "Abcdefg1"
	})).Return(model.User{ID: userID, Email: "a@b.c"}, nil)
	f.ephemerals.On("Create", mock.Anything, mock.MatchedBy(func(et model.EphemeralToken) bool {
		return et.UserID == userID && et.Purpose == model.PurposeEmailVerification
	})).Return(nil)
	f.notifier.On("SendVerificationEmail", mock.Anything, "a@b.c", mock.MatchedBy(func(link string) bool {
		return strings.HasPrefix(link, "https://app.example.com/verify-email/")
	}), mock.Anything).Return(nil)
	f.manager.On("Generate", userID, "a@b.c").Return("access-token", nil)
	f.refresh.On("Create", mock.Anything, mock.Anything).Return(nil)

	res, err := f.auth.Register(ctx, service.RegisterParams{Email: "a@b.c", Password: "Abcdefg1"})
	require.NoError(t, err)
	assert.Equal(t, "access-token", res.AccessToken)
	assert.Len(t, res.RefreshToken, 64)
	assert.Equal(t, userID, res.User.ID)
	f.notifier.AssertExpectations(t)
}

func TestAuth_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	f.users.On("Create", mock.Anything, mock.Anything).Return(model.User{}, model.ErrAlreadyExists)

	_, err := f.auth.Register(ctx, service.RegisterParams{Email: "a@b.c", Password: "Abcdefg1"})
	require.Error(t, err)
	typed, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindValidation, typed.Kind)
	assert.Equal(t, "email already registered", typed.Message)
}

func TestAuth_Register_InvalidEmail(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	_, err := f.auth.Register(ctx, service.RegisterParams{Email: "not-an-email", Password: "Abcdefg1"})
	require.Error(t, err)
	typed, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindValidation, typed.Kind)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuth_Register_WeakPassword(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	_, err := f.auth.Register(ctx, service.RegisterParams{Email: "a@b.c", Password: "weak"})
	require.Error(t, err)
	typed, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindValidation, typed.Kind)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuth_Register_EmailFailureDoesNotFailRegistration(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	userID := uuid.New()

	f.users.On("Create", mock.Anything, mock.Anything).Return(model.User{ID: userID, Email: "a@b.c"}, nil)
	f.ephemerals.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("SendVerificationEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp unreachable"))
	f.manager.On("Generate", userID, "a@b.c").Return("access-token", nil)
	f.refresh.On("Create", mock.Anything, mock.Anything).Return(nil)

	res, err := f.auth.Register(ctx, service.RegisterParams{Email: "a@b.c", Password: "Abcdefg1"})
	require.NoError(t, err)
	assert.Equal(t, "access-token", res.AccessToken)
}

func TestAuth_Login_Success(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	userID := uuid.New()

	hash, err := f.hasher.Hash("Abcdefg1")
	require.NoError(t, err)

	f.users.On("GetByEmail", mock.Anything, "a@b.c").
		Return(model.User{ID: userID, Email: "a@b.c", PasswordHash: hash}, nil)
	f.manager.On("Generate", userID, "a@b.c").Return("access-token", nil)
	f.refresh.On("Create", mock.Anything, mock.Anything).Return(nil)

	res, err := f.auth.Login(ctx, service.Credentials{Email: "a@b.c", Password: "Abcdefg1"})
	require.NoError(t, err)
	assert.Equal(t, "access-token", res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
}

func TestAuth_Login_FailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()

	unknownEmail := newAuthFixture()
	unknownEmail.users.On("GetByEmail", mock.Anything, "ghost@b.c").
		Return(model.User{}, model.ErrNotFound)
	_, errUnknown := unknownEmail.auth.Login(ctx, service.Credentials{Email: "ghost@b.c", Password: "Abcdefg1"})

	wrongPassword := newAuthFixture()
	hash, err := wrongPassword.hasher.Hash("Abcdefg1")
	require.NoError(t, err)
	wrongPassword.users.On("GetByEmail", mock.Anything, "a@b.c").
		Return(model.User{ID: uuid.New(), Email: "a@b.c", PasswordHash: hash}, nil)
	_, errWrong := wrongPassword.auth.Login(ctx, service.Credentials{Email: "a@b.c", Password: "Wrong-pass1"})

	// Unknown account and wrong password must not be tellable apart.
	require.Error(t, errUnknown)
	require.Error(t, errWrong)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())

	typed, ok := model.AsError(errUnknown)
	require.True(t, ok)
	assert.Equal(t, model.KindAuth, typed.Kind)
}

func TestAuth_Logout_BestEffort(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	userID := uuid.New()

	f.refresh.On("Revoke", mock.Anything, hashOf("refresh-raw")).Return(errors.New("db down"))
	f.manager.On("Parse", "access-raw").Return(model.AccessClaims{UserID: userID}, nil)
	f.refresh.On("RevokeAllByUser", mock.Anything, userID).Return(nil)

	// No return value: logout swallows failures.
	f.auth.Logout(ctx, "access-raw", "refresh-raw")
	f.refresh.AssertExpectations(t)
}

func TestAuth_Logout_UnparseableAccessToken(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	f.refresh.On("Revoke", mock.Anything, mock.Anything).Return(nil)
	f.manager.On("Parse", "garbage").Return(model.AccessClaims{}, errors.New("malformed"))

	f.auth.Logout(ctx, "garbage", "refresh-raw")
	f.refresh.AssertNotCalled(t, "RevokeAllByUser", mock.Anything, mock.Anything)
}

func TestAuth_Refresh_Success(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	userID := uuid.New()

	stored := model.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: hashOf("refresh-raw"),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	f.refresh.On("GetByHash", mock.Anything, hashOf("refresh-raw")).Return(stored, nil)
	f.refresh.On("Revoke", mock.Anything, hashOf("refresh-raw")).Return(nil)
	f.refresh.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.users.On("GetByID", mock.Anything, userID).Return(model.User{ID: userID, Email: "a@b.c"}, nil)
	f.manager.On("Generate", userID, "a@b.c").Return("new-access", nil)

	res, err := f.auth.Refresh(ctx, "refresh-raw")
	require.NoError(t, err)
	assert.Equal(t, "new-access", res.AccessToken)
	assert.NotEqual(t, "refresh-raw", res.RefreshToken)
}

func TestAuth_Refresh_InvalidSessionsCollapse(t *testing.T) {
	ctx := context.Background()
	revokedAt := time.Now().Add(-time.Minute)

	tests := []struct {
		name   string
		stored model.RefreshToken
		getErr error
	}{
		{name: "unknown token", getErr: model.ErrNotFound},
		{
			name:   "expired token",
			stored: model.RefreshToken{UserID: uuid.New(), ExpiresAt: time.Now().Add(-time.Hour)},
		},
		{
			name: "revoked token",
			stored: model.RefreshToken{
				UserID:    uuid.New(),
				ExpiresAt: time.Now().Add(time.Hour),
				RevokedAt: &revokedAt,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			f.refresh.On("GetByHash", mock.Anything, mock.Anything).Return(tt.stored, tt.getErr)
			f.refresh.On("RevokeAllByUser", mock.Anything, mock.Anything).Return(nil)

			_, err := f.auth.Refresh(ctx, "presented")
			require.Error(t, err)
			typed, ok := model.AsError(err)
			require.True(t, ok)
			assert.Equal(t, model.KindAuth, typed.Kind)
			assert.Equal(t, "invalid or expired session", typed.Message)
		})
	}
}

func TestAuth_VerifyEmail_Success(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	userID := uuid.New()

	f.ephemerals.On("Consume", mock.Anything, hashOf("raw"), model.PurposeEmailVerification, mock.Anything).
		Return(model.EphemeralToken{UserID: userID}, nil)
	f.users.On("SetEmailVerified", mock.Anything, userID).
		Return(model.User{ID: userID, Email: "a@b.c", EmailVerified: true}, nil)

	user, err := f.auth.VerifyEmail(ctx, "raw")
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
}

func TestAuth_VerifyEmail_TokenErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		consumeErr error
		wantKind   model.Kind
	}{
		{name: "unknown", consumeErr: model.ErrNotFound, wantKind: model.KindNotFound},
		{name: "already consumed", consumeErr: model.ErrTokenConsumed, wantKind: model.KindNotFound},
		{name: "expired", consumeErr: model.ErrTokenExpired, wantKind: model.KindTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			f.ephemerals.On("Consume", mock.Anything, mock.Anything, model.PurposeEmailVerification, mock.Anything).
				Return(model.EphemeralToken{}, tt.consumeErr)

			_, err := f.auth.VerifyEmail(ctx, "raw")
			require.Error(t, err)
			typed, ok := model.AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, typed.Kind)
			f.users.AssertNotCalled(t, "SetEmailVerified", mock.Anything, mock.Anything)
		})
	}
}

func TestAuth_ResendVerification(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", mock.Anything, "ghost@b.c").Return(model.User{}, model.ErrNotFound)

		err := f.auth.ResendVerification(ctx, "ghost@b.c")
		require.Error(t, err)
		typed, ok := model.AsError(err)
		require.True(t, ok)
		assert.Equal(t, model.KindNotFound, typed.Kind)
	})

	t.Run("already verified", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", mock.Anything, "a@b.c").
			Return(model.User{ID: userID, Email: "a@b.c", EmailVerified: true}, nil)

		err := f.auth.ResendVerification(ctx, "a@b.c")
		require.Error(t, err)
		typed, ok := model.AsError(err)
		require.True(t, ok)
		assert.Equal(t, model.KindValidation, typed.Kind)
	})

	t.Run("resends link", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", mock.Anything, "a@b.c").
			Return(model.User{ID: userID, Email: "a@b.c"}, nil)
		f.ephemerals.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.notifier.On("SendVerificationEmail", mock.Anything, "a@b.c", mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, f.auth.ResendVerification(ctx, "a@b.c"))
		f.notifier.AssertExpectations(t)
	})
}

func TestAuth_ForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	f.users.On("GetByEmail", mock.Anything, "ghost@b.c").Return(model.User{}, model.ErrNotFound)

	require.NoError(t, f.auth.ForgotPassword(ctx, "ghost@b.c"))
	f.ephemerals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "SendPasswordResetEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuth_ForgotPassword_SendsResetLink(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	userID := uuid.New()

	f.users.On("GetByEmail", mock.Anything, "a@b.c").
		Return(model.User{ID: userID, Email: "a@b.c"}, nil)
	f.ephemerals.On("Create", mock.Anything, mock.MatchedBy(func(et model.EphemeralToken) bool {
		return et.UserID == userID && et.Purpose == model.PurposePasswordReset
	})).Return(nil)
	f.notifier.On("SendPasswordResetEmail", mock.Anything, "a@b.c", mock.MatchedBy(func(link string) bool {
		return strings.HasPrefix(link, "https://app.example.com/reset-password/")
	}), mock.Anything).Return(nil)

	require.NoError(t, f.auth.ForgotPassword(ctx, "a@b.c"))
	f.notifier.AssertExpectations(t)
}

func TestAuth_ValidateResetToken(t *testing.T) {
	ctx := context.Background()

	t.Run("usable", func(t *testing.T) {
		f := newAuthFixture()
		f.ephemerals.On("GetByHash", mock.Anything, hashOf("raw"), model.PurposePasswordReset).
			Return(model.EphemeralToken{UserID: uuid.New(), ExpiresAt: time.Now().Add(time.Hour)}, nil)

		require.NoError(t, f.auth.ValidateResetToken(ctx, "raw"))
	})

	t.Run("expired", func(t *testing.T) {
		f := newAuthFixture()
		f.ephemerals.On("GetByHash", mock.Anything, hashOf("raw"), model.PurposePasswordReset).
			Return(model.EphemeralToken{UserID: uuid.New(), ExpiresAt: time.Now().Add(-time.Hour)}, nil)

		err := f.auth.ValidateResetToken(ctx, "raw")
		require.Error(t, err)
		typed, ok := model.AsError(err)
		require.True(t, ok)
		assert.Equal(t, model.KindTokenExpired, typed.Kind)
	})
}

func TestAuth_ResetPassword_Success(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	userID := uuid.New()

	f.ephemerals.On("Consume", mock.Anything, hashOf("raw"), model.PurposePasswordReset, mock.Anything).
		Return(model.EphemeralToken{UserID: userID}, nil)
	f.users.On("UpdatePassword", mock.Anything, userID, mock.MatchedBy(func(hash string) bool {
		ok, err := f.hasher.Verify("NewPassw0rd", hash)
		return err == nil && ok
	})).Return(nil)
	f.ephemerals.On("Clear", mock.Anything, userID, model.PurposePasswordReset).Return(nil)

	require.NoError(t, f.auth.ResetPassword(ctx, "raw", "NewPassw0rd"))
	f.ephemerals.AssertExpectations(t)
	f.users.AssertExpectations(t)
}

func TestAuth_ResetPassword_WeakPassword(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	err := f.auth.ResetPassword(ctx, "raw", "weak")
	require.Error(t, err)
	typed, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindValidation, typed.Kind)
	f.ephemerals.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
