package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/trailbook/trailbook/internal/auth"
	"github.com/trailbook/trailbook/internal/handler/dto"
	"github.com/trailbook/trailbook/internal/service"
)

// BookHandler handles picture-book CRUD, search and filtering.
type BookHandler struct {
	svc    *service.JournalService
	logger *slog.Logger
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(svc *service.JournalService, logger *slog.Logger) *BookHandler {
	return &BookHandler{
		svc:    svc,
		logger: logger,
	}
}

// Add handles POST /add-book.
// All fields are required, including imageURL (unlike Edit).
func (h *BookHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req dto.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// A present-but-empty visitedLocation list is allowed; only absence fails.
	if req.Title == "" || req.Story == "" || req.VisitedLocation == nil ||
		req.ImageURL == "" || req.VisitedDate == nil {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	userID := auth.MustUserIDFromContext(r.Context())

	book, err := h.svc.CreateBook(r.Context(), userID, service.BookInput{
		Title:           req.Title,
		Story:           req.Story,
		VisitedLocation: req.VisitedLocation,
		ImageURL:        req.ImageURL,
		VisitedDate:     *req.VisitedDate,
	})
	if err != nil {
		writeServerError(w, r, h.logger, err)
		return
	}

	h.logger.Info("book added",
		slog.String("book_id", book.ID),
		slog.String("user_id", userID),
	)

	writeJSON(w, http.StatusCreated, dto.BookResponse{
		Envelope: dto.Envelope{Error: false, Message: "Picture Added Successfully"},
		Book:     book,
	})
}

// Edit handles PATCH /edit-book/{id}.
// imageURL is optional here; an empty value falls back to the
// placeholder asset.
func (h *BookHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == "" || req.Story == "" || req.VisitedLocation == nil ||
		req.VisitedDate == nil {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	userID := auth.MustUserIDFromContext(r.Context())

	book, err := h.svc.UpdateBook(r.Context(), userID, id, service.BookInput{
		Title:           req.Title,
		Story:           req.Story,
		VisitedLocation: req.VisitedLocation,
		ImageURL:        req.ImageURL,
		VisitedDate:     *req.VisitedDate,
	})
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			writeError(w, http.StatusNotFound, "Picture book not found")
			return
		}
		writeServerError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BookResponse{
		Envelope: dto.Envelope{Error: false, Message: "Updated Successfully"},
		Book:     book,
	})
}

// Delete handles DELETE /delete-book/{id}.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := auth.MustUserIDFromContext(r.Context())

	if err := h.svc.DeleteBook(r.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			writeError(w, http.StatusNotFound, "Picture book not found")
			return
		}
		writeServerError(w, r, h.logger, err)
		return
	}

	h.logger.Info("book deleted",
		slog.String("book_id", id),
		slog.String("user_id", userID),
	)

	writeMessage(w, http.StatusOK, "Deleted Successfully")
}

// UpdateFavourite handles PUT /update-favourite-book/{id}.
func (h *BookHandler) UpdateFavourite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.FavouriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.IsFavourite == nil {
		writeError(w, http.StatusBadRequest, "isFavourite is required")
		return
	}

	userID := auth.MustUserIDFromContext(r.Context())

	book, err := h.svc.SetFavourite(r.Context(), userID, id, *req.IsFavourite)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			writeError(w, http.StatusNotFound, "Picture book not found")
			return
		}
		writeServerError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BookResponse{
		Envelope: dto.Envelope{Error: false, Message: "Updated Successfully"},
		Book:     book,
	})
}

// List handles GET /get-all-books.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	books, err := h.svc.ListBooks(r.Context(), userID)
	if err != nil {
		writeServerError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BooksResponse{
		Envelope: dto.Envelope{Error: false, Message: ""},
		Books:    books,
	})
}

// Search handles GET /search?query=.
func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	userID := auth.MustUserIDFromContext(r.Context())

	books, err := h.svc.SearchBooks(r.Context(), userID, query)
	if err != nil {
		writeServerError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SearchResponse{
		Envelope: dto.Envelope{Error: false, Message: ""},
		Stories:  books,
	})
}

// Filter handles GET /filter-books?startDate=&endDate=.
// Both bounds are epoch-millisecond values; the range is inclusive.
func (h *BookHandler) Filter(w http.ResponseWriter, r *http.Request) {
	startMs, err1 := strconv.ParseInt(r.URL.Query().Get("startDate"), 10, 64)
	endMs, err2 := strconv.ParseInt(r.URL.Query().Get("endDate"), 10, 64)
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "startDate and endDate are required")
		return
	}

	userID := auth.MustUserIDFromContext(r.Context())

	books, err := h.svc.FilterBooksByDate(r.Context(), userID, startMs, endMs)
	if err != nil {
		writeServerError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FilterResponse{
		Envelope:      dto.Envelope{Error: false, Message: ""},
		FilteredBooks: books,
	})
}
