package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/trailbook/trailbook/internal/auth"
	"github.com/trailbook/trailbook/internal/handler/dto"
	"github.com/trailbook/trailbook/internal/service"
)

// AccountHandler handles registration, login and profile requests.
type AccountHandler struct {
	svc    *service.AccountService
	logger *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /create-account.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.FullName == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "All fields required")
		return
	}

	user, token, err := h.svc.Register(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "User already exist")
			return
		}
		writeServerError(w, r, h.logger, err)
		return
	}

	h.logger.Info("account created",
		slog.String("user_id", user.ID),
	)

	writeJSON(w, http.StatusCreated, dto.AuthResponse{
		Envelope:    dto.Envelope{Error: false, Message: "Registration Successful"},
		User:        dto.UserSummary{FullName: user.FullName, Email: user.Email},
		AccessToken: token,
	})
}

// Login handles POST /login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Fill all the fields")
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusBadRequest, "User not found")
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusBadRequest, "Invalid Credentials")
		default:
			writeServerError(w, r, h.logger, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Envelope:    dto.Envelope{Error: false, Message: "Login Successful"},
		User:        dto.UserSummary{FullName: user.FullName, Email: user.Email},
		AccessToken: token,
	})
}

// GetUser handles GET /get-user.
func (h *AccountHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	user, err := h.svc.CurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			// Valid token for a user that no longer exists.
			writeError(w, http.StatusUnauthorized, "Invalid or missing token")
			return
		}
		writeServerError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserResponse{
		Envelope: dto.Envelope{Error: false, Message: ""},
		User:     user,
	})
}
