// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/trailbook/trailbook/internal/model"

// RegisterRequest represents the request body for creating an account.
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// BookRequest represents the request body for adding or editing a book.
// VisitedDate is an epoch-millisecond timestamp; a pointer so absence
// can be told apart from zero.
type BookRequest struct {
	Title           string   `json:"title"`
	Story           string   `json:"story"`
	VisitedLocation []string `json:"visitedLocation"`
	ImageURL        string   `json:"imageURL"`
	VisitedDate     *int64   `json:"visitedDate"`
}

// FavouriteRequest represents the request body for toggling the
// favourite flag.
type FavouriteRequest struct {
	IsFavourite *bool `json:"isFavourite"`
}

// UserSummary is the reduced user shape returned by register and login.
type UserSummary struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Envelope is the uniform response shape shared by every endpoint.
type Envelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Envelope
	User        UserSummary `json:"user"`
	AccessToken string      `json:"accessToken"`
}

// UserResponse is returned by get-user.
type UserResponse struct {
	Envelope
	User *model.User `json:"user"`
}

// BookResponse is returned by the single-book mutations.
type BookResponse struct {
	Envelope
	Book *model.Book `json:"book"`
}

// BooksResponse is returned by get-all-books.
type BooksResponse struct {
	Envelope
	Books []*model.Book `json:"books"`
}

// SearchResponse is returned by search.
type SearchResponse struct {
	Envelope
	Stories []*model.Book `json:"stories"`
}

// FilterResponse is returned by filter-books.
type FilterResponse struct {
	Envelope
	FilteredBooks []*model.Book `json:"filteredBooks"`
}

// ImageUploadResponse is returned by image-upload.
type ImageUploadResponse struct {
	Envelope
	ImageURL string `json:"imageURL"`
}
