package model

import "time"

// Book represents one travel-journal entry ("picture book").
// Every book belongs to exactly one user; ownership is set at creation
// and never changes.
type Book struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Title           string    `json:"title"`
	Story           string    `json:"story"`
	VisitedLocation []string  `json:"visitedLocation"`
	IsFavourite     bool      `json:"isFavourite"`
	ImageURL        string    `json:"imageURL"`
	VisitedDate     time.Time `json:"visitedDate"`
	CreatedOn       time.Time `json:"createdOn"`
}
