package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/postdeck/postdeck-go/internal/model"
	"github.com/postdeck/postdeck-go/internal/service"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleSignup handles POST /signup requests.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, errorResponse(verr.Error()))
		case errors.Is(err, service.ErrUsernameTaken):
			writeJSON(w, http.StatusConflict, errorResponse("Username is already taken"))
		default:
			slog.Error("signup failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, model.AuthResponse{
		Success: true,
		Message: "User created",
		User:    &user,
	})
}

// HandleLogin handles POST /login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.Credentials
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Authenticate(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, errorResponse("Invalid username or password"))
			return
		}
		slog.Error("login failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, model.AuthResponse{
		Success: true,
		Message: "Logged in as " + user.Username,
		User:    &user,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}
