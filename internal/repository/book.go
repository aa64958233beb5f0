package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/trailbook/trailbook/internal/model"
)

// ErrBookNotFound is returned when a book does not exist or is not
// owned by the requesting user. The two cases are deliberately
// indistinguishable so ownership cannot be probed.
var ErrBookNotFound = errors.New("book not found")

// bookColumns is the canonical column list for book queries.
const bookColumns = "id, user_id, title, story, visited_location, is_favourite, image_url, visited_date, created_on"

// favouritesFirst orders favourite books before the rest, keeping
// creation order as the stable secondary sort.
const favouritesFirst = " ORDER BY is_favourite DESC, created_on, id"

// CreateBook inserts a new book into the database.
func (r *Repository) CreateBook(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (id, user_id, title, story, visited_location, is_favourite, image_url, visited_date, created_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		book.ID,
		book.UserID,
		book.Title,
		book.Story,
		book.VisitedLocation,
		book.IsFavourite,
		book.ImageURL,
		book.VisitedDate,
		book.CreatedOn,
	)

	if err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}

	return nil
}

// GetBook retrieves a book by ID, scoped to its owner.
func (r *Repository) GetBook(ctx context.Context, userID, id string) (*model.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE id = $1 AND user_id = $2
	`

	book, err := scanBook(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return book, nil
}

// UpdateBook replaces the mutable fields of a book, scoped to its owner.
// Returns the updated book.
func (r *Repository) UpdateBook(ctx context.Context, book *model.Book) (*model.Book, error) {
	query := `
		UPDATE books
		SET title = $3, story = $4, visited_location = $5, image_url = $6, visited_date = $7
		WHERE id = $1 AND user_id = $2
		RETURNING ` + bookColumns

	updated, err := scanBook(r.pool.QueryRow(ctx, query,
		book.ID,
		book.UserID,
		book.Title,
		book.Story,
		book.VisitedLocation,
		book.ImageURL,
		book.VisitedDate,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	return updated, nil
}

// SetBookFavourite flips the favourite flag of a book, scoped to its owner.
// Returns the updated book.
func (r *Repository) SetBookFavourite(ctx context.Context, userID, id string, isFavourite bool) (*model.Book, error) {
	query := `
		UPDATE books
		SET is_favourite = $3
		WHERE id = $1 AND user_id = $2
		RETURNING ` + bookColumns

	book, err := scanBook(r.pool.QueryRow(ctx, query, id, userID, isFavourite))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to set favourite: %w", err)
	}

	return book, nil
}

// DeleteBook removes a book, scoped to its owner, and returns the URL
// of the image it referenced so the caller can clean up the file.
func (r *Repository) DeleteBook(ctx context.Context, userID, id string) (string, error) {
	query := `
		DELETE FROM books
		WHERE id = $1 AND user_id = $2
		RETURNING image_url
	`

	var imageURL string
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(&imageURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrBookNotFound
		}
		return "", fmt.Errorf("failed to delete book: %w", err)
	}

	return imageURL, nil
}

// ListBooks returns all books owned by the user, favourites first.
func (r *Repository) ListBooks(ctx context.Context, userID string) ([]*model.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE user_id = $1` + favouritesFirst

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	return collectBooks(rows)
}

// SearchBooks returns the user's books whose title, story or any
// visited location contains the text, case-insensitively. Favourites
// first.
func (r *Repository) SearchBooks(ctx context.Context, userID, text string) ([]*model.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE user_id = $1
		  AND (title ILIKE $2
		    OR story ILIKE $2
		    OR EXISTS (SELECT 1 FROM unnest(visited_location) AS loc WHERE loc ILIKE $2))` +
		favouritesFirst

	pattern := "%" + escapeLike(text) + "%"

	rows, err := r.pool.Query(ctx, query, userID, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	defer rows.Close()

	return collectBooks(rows)
}

// FilterBooksByDate returns the user's books whose visited date falls
// inside the inclusive range. Favourites first.
func (r *Repository) FilterBooksByDate(ctx context.Context, userID string, start, end time.Time) ([]*model.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE user_id = $1
		  AND visited_date >= $2
		  AND visited_date <= $3` +
		favouritesFirst

	rows, err := r.pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to filter books: %w", err)
	}
	defer rows.Close()

	return collectBooks(rows)
}

// scanBook scans a single book row.
func scanBook(row pgx.Row) (*model.Book, error) {
	var book model.Book
	err := row.Scan(
		&book.ID,
		&book.UserID,
		&book.Title,
		&book.Story,
		&book.VisitedLocation,
		&book.IsFavourite,
		&book.ImageURL,
		&book.VisitedDate,
		&book.CreatedOn,
	)
	if err != nil {
		return nil, err
	}
	if book.VisitedLocation == nil {
		book.VisitedLocation = []string{}
	}
	return &book, nil
}

// collectBooks drains rows into a slice.
func collectBooks(rows pgx.Rows) ([]*model.Book, error) {
	books := make([]*model.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	return books, nil
}

// escapeLike escapes LIKE/ILIKE metacharacters so user input matches
// literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
