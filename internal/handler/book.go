package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/libraryapp/libraryapp/internal/handler/dto"
	"github.com/libraryapp/libraryapp/internal/service"
)

// BookHandler handles HTTP requests for catalog and lending operations.
type BookHandler struct {
	svc    *service.LendingService
	logger *slog.Logger
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(svc *service.LendingService, logger *slog.Logger) *BookHandler {
	return &BookHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /book.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	book, err := h.svc.SaveBook(r.Context(), req.Name, req.Category)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("book_created", "book_id", book.ID, "name", book.Name, "category", book.Category)

	writeJSON(w, http.StatusCreated, dto.ToBookResponse(book))
}

// Loan handles POST /book/loan.
func (h *BookHandler) Loan(w http.ResponseWriter, r *http.Request) {
	var req dto.BookLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.UserName == "" || req.BookName == "" {
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "user_name and book_name are required")
		return
	}

	record, err := h.svc.LoanBook(r.Context(), req.UserName, req.BookName)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("book_loaned", "loan_id", record.ID, "book_name", record.BookName, "user_id", record.UserID)

	writeJSON(w, http.StatusCreated, dto.ToLoanResponse(record))
}

// Return handles PUT /book/return.
func (h *BookHandler) Return(w http.ResponseWriter, r *http.Request) {
	var req dto.BookReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.UserName == "" || req.BookName == "" {
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "user_name and book_name are required")
		return
	}

	record, err := h.svc.ReturnBook(r.Context(), req.UserName, req.BookName)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("book_returned", "loan_id", record.ID, "book_name", record.BookName)

	writeJSON(w, http.StatusOK, dto.ToLoanResponse(record))
}

// LoanedCount handles GET /book/loan.
func (h *BookHandler) LoanedCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.CountLoanedBook(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanCountResponse{Count: count})
}

// Statistics handles GET /book/stat.
func (h *BookHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetBookStatistics(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBookStatResponse(stats))
}

// handleServiceError maps service errors to HTTP responses.
func (h *BookHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrBookAlreadyLoaned):
		writeError(w, http.StatusConflict, "BOOK_ALREADY_LOANED", "Book already on loan")
	case errors.Is(err, service.ErrNoActiveLoan):
		writeError(w, http.StatusConflict, "NO_ACTIVE_LOAN", "No matching active loan")
	case errors.Is(err, service.ErrEmptyBookName):
		writeError(w, http.StatusBadRequest, "MISSING_NAME", "Book name is required")
	case errors.Is(err, service.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, "INVALID_CATEGORY", "Unknown book category")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
