package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dtroode/gatekeeper-server/internal/model"
)

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// writeError translates a typed failure into an HTTP status and a safe JSON
// body. Internal causes are logged here and never serialized.
func (h *Auth) writeError(w http.ResponseWriter, err error) {
	appErr, ok := model.AsError(err)
	if !ok {
		appErr = model.NewInternalError(err)
	}

	if appErr.Kind == model.KindDatabase || appErr.Kind == model.KindInternal {
		h.logger.Error("Auth handler: request failed", "error", appErr.Error())
	}

	h.writeJSON(w, statusFor(appErr.Kind), errorResponse{Error: errorBody{
		Kind:    appErr.Kind.String(),
		Message: safeMessage(appErr),
	}})
}

func statusFor(kind model.Kind) int {
	switch kind {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindAuth, model.KindTokenInvalid:
		return http.StatusUnauthorized
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindTokenExpired:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func safeMessage(err *model.Error) string {
	if err.Kind == model.KindDatabase || err.Kind == model.KindInternal {
		return "internal server error"
	}
	return err.Message
}

func (h *Auth) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Auth handler: failed to encode response", "error", err.Error())
	}
}
