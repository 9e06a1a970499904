package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/gatekeeper-server/internal/logger"
	"github.com/dtroode/gatekeeper-server/internal/model"
	"github.com/dtroode/gatekeeper-server/internal/service"
)

// AuthService defines the auth flows the HTTP layer adapts.
type AuthService interface {
	Register(ctx context.Context, params service.RegisterParams) (service.AuthResult, error)
	Login(ctx context.Context, creds service.Credentials) (service.AuthResult, error)
	Logout(ctx context.Context, accessToken, refreshToken string)
	Refresh(ctx context.Context, refreshToken string) (service.AuthResult, error)
	VerifyEmail(ctx context.Context, token string) (model.User, error)
	ResendVerification(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ValidateResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// Auth handles the /auth/* HTTP endpoints.
type Auth struct {
	service AuthService
	logger  *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(service AuthService, logger *logger.Logger) *Auth {
	return &Auth{service: service, logger: logger}
}

type registerRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type userResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	FirstName     *string   `json:"first_name,omitempty"`
	LastName      *string   `json:"last_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type authResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		CreatedAt:     u.CreatedAt,
	}
}

func toAuthResponse(res service.AuthResult) authResponse {
	return authResponse{
		User:         toUserResponse(res.User),
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}
}

// Register handles POST /auth/register.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.service.Register(r.Context(), service.RegisterParams{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toAuthResponse(res))
}

// Login handles POST /auth/login.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.service.Login(r.Context(), service.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toAuthResponse(res))
}

// Logout handles POST /auth/logout. It never fails visibly: revocation is
// best-effort and the body is optional.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if r.Body != nil && r.ContentLength != 0 {
		// A malformed body does not stop the logout.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	h.service.Logout(r.Context(), bearerToken(r), req.RefreshToken)

	h.writeJSON(w, http.StatusOK, struct{}{})
}

// Refresh handles POST /auth/refresh.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		h.writeError(w, model.NewValidationError("refresh token is required"))
		return
	}

	res, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toAuthResponse(res))
}

// VerifyEmail handles GET /auth/verify-email/{token} and returns the updated
// user on success.
func (h *Auth) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.VerifyEmail(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toUserResponse(user))
}

// ResendVerification handles POST /auth/resend-verification.
func (h *Auth) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ResendVerification(r.Context(), req.Email); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, struct{}{})
}

// ForgotPassword handles POST /auth/forgot-password. The response is success
// whether or not the email matches an account.
func (h *Auth) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, struct{}{})
}

// ValidateResetToken handles GET /auth/validate-reset-token/{token}.
func (h *Auth) ValidateResetToken(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ValidateResetToken(r.Context(), chi.URLParam(r, "token")); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, struct{}{})
}

// ResetPassword handles POST /auth/reset-password.
func (h *Auth) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, struct{}{})
}

func (h *Auth) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, model.NewValidationError("malformed request body"))
		return false
	}
	return true
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return ""
}
