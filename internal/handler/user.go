package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/libraryapp/libraryapp/internal/handler/dto"
	"github.com/libraryapp/libraryapp/internal/service"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.UserCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, err := h.svc.SaveUser(r.Context(), req.Name, req.Age)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_created", "user_id", user.ID, "name", user.Name)

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// List handles GET /user.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.GetUsers(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserListResponse(users))
}

// UpdateName handles PUT /user.
func (h *UserHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	var req dto.UserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "User ID is required")
		return
	}

	if err := h.svc.UpdateUserName(r.Context(), req.ID, req.Name); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_renamed", "user_id", req.ID)

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /user?name=....
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "MISSING_NAME", "User name is required")
		return
	}

	if err := h.svc.DeleteUser(r.Context(), name); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_deleted", "name", name)

	w.WriteHeader(http.StatusNoContent)
}

// LoanHistories handles GET /user/loan.
func (h *UserHandler) LoanHistories(w http.ResponseWriter, r *http.Request) {
	histories, err := h.svc.GetUserLoanHistories(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserLoanHistoryResponse(histories))
}

// handleServiceError maps service errors to HTTP responses.
func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrEmptyUserName):
		writeError(w, http.StatusBadRequest, "MISSING_NAME", "User name is required")
	case errors.Is(err, service.ErrNegativeAge):
		writeError(w, http.StatusBadRequest, "INVALID_AGE", "Age must not be negative")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
