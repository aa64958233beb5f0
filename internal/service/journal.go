package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/trailbook/trailbook/internal/model"
	"github.com/trailbook/trailbook/internal/repository"
	"github.com/trailbook/trailbook/internal/storage"
)

// ErrBookNotFound is returned when a book does not exist or belongs to
// another user.
var ErrBookNotFound = errors.New("book not found")

// placeholderAsset is the asset served when an edit clears the image.
const placeholderAsset = "/assets/image-placeholder.jpg"

// JournalService handles picture-book business logic.
type JournalService struct {
	repo    *repository.Repository
	store   *storage.Storage
	baseURL string
	logger  *slog.Logger
}

// NewJournalService creates a new JournalService.
func NewJournalService(repo *repository.Repository, store *storage.Storage, baseURL string, logger *slog.Logger) *JournalService {
	return &JournalService{
		repo:    repo,
		store:   store,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// BookInput carries the client-supplied fields of a book.
// VisitedDate is an epoch-millisecond timestamp.
type BookInput struct {
	Title           string
	Story           string
	VisitedLocation []string
	ImageURL        string
	VisitedDate     int64
}

// CreateBook stores a new book owned by userID.
func (s *JournalService) CreateBook(ctx context.Context, userID string, input BookInput) (*model.Book, error) {
	book := &model.Book{
		ID:              ulid.Make().String(),
		UserID:          userID,
		Title:           input.Title,
		Story:           input.Story,
		VisitedLocation: input.VisitedLocation,
		IsFavourite:     false,
		ImageURL:        input.ImageURL,
		VisitedDate:     time.UnixMilli(input.VisitedDate).UTC(),
		CreatedOn:       time.Now().UTC(),
	}
	if book.VisitedLocation == nil {
		book.VisitedLocation = []string{}
	}

	if err := s.repo.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	return book, nil
}

// UpdateBook replaces the mutable fields of an owned book. An empty
// ImageURL falls back to the placeholder asset.
func (s *JournalService) UpdateBook(ctx context.Context, userID, id string, input BookInput) (*model.Book, error) {
	imageURL := input.ImageURL
	if imageURL == "" {
		imageURL = s.PlaceholderURL()
	}

	book := &model.Book{
		ID:              id,
		UserID:          userID,
		Title:           input.Title,
		Story:           input.Story,
		VisitedLocation: input.VisitedLocation,
		ImageURL:        imageURL,
		VisitedDate:     time.UnixMilli(input.VisitedDate).UTC(),
	}
	if book.VisitedLocation == nil {
		book.VisitedLocation = []string{}
	}

	updated, err := s.repo.UpdateBook(ctx, book)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("update book: %w", err)
	}

	return updated, nil
}

// SetFavourite flips the favourite flag of an owned book.
func (s *JournalService) SetFavourite(ctx context.Context, userID, id string, isFavourite bool) (*model.Book, error) {
	book, err := s.repo.SetBookFavourite(ctx, userID, id, isFavourite)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("set favourite: %w", err)
	}

	return book, nil
}

// DeleteBook removes an owned book, then best-effort deletes its stored
// image file. File deletion failures are logged and swallowed; the
// record is already gone.
func (s *JournalService) DeleteBook(ctx context.Context, userID, id string) error {
	imageURL, err := s.repo.DeleteBook(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return ErrBookNotFound
		}
		return fmt.Errorf("delete book: %w", err)
	}

	name, err := storage.FilenameFromURL(imageURL)
	if err != nil {
		s.logger.Warn("could not derive image filename", "book_id", id, "error", err)
		return nil
	}

	if _, err := s.store.Delete(name); err != nil {
		s.logger.Warn("failed to delete book image", "book_id", id, "file", name, "error", err)
	}

	return nil
}

// ListBooks returns all books owned by userID, favourites first.
func (s *JournalService) ListBooks(ctx context.Context, userID string) ([]*model.Book, error) {
	books, err := s.repo.ListBooks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// SearchBooks returns the user's books matching the text.
func (s *JournalService) SearchBooks(ctx context.Context, userID, text string) ([]*model.Book, error) {
	books, err := s.repo.SearchBooks(ctx, userID, text)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return books, nil
}

// FilterBooksByDate returns the user's books with a visited date inside
// the inclusive epoch-millisecond range.
func (s *JournalService) FilterBooksByDate(ctx context.Context, userID string, startMs, endMs int64) ([]*model.Book, error) {
	start := time.UnixMilli(startMs).UTC()
	end := time.UnixMilli(endMs).UTC()

	books, err := s.repo.FilterBooksByDate(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("filter books: %w", err)
	}
	return books, nil
}

// UploadImage stores the image stream and returns its public URL.
func (s *JournalService) UploadImage(_ context.Context, file io.Reader, originalName string) (string, error) {
	name, err := s.store.Save(file, originalName)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	return s.baseURL + "/uploads/" + name, nil
}

// DeleteImage removes the stored file named by the final path segment
// of imageURL. Returns false with no error if the file was already
// gone.
func (s *JournalService) DeleteImage(_ context.Context, imageURL string) (bool, error) {
	name, err := storage.FilenameFromURL(imageURL)
	if err != nil {
		return false, err
	}

	return s.store.Delete(name)
}

// PlaceholderURL returns the URL of the static placeholder image.
func (s *JournalService) PlaceholderURL() string {
	return s.baseURL + placeholderAsset
}
