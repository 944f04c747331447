package service

import (
	"strings"
	"time"

	"github.com/listenupapp/pagetrail/internal/domain"
)

// AddBookRequest contains the book to add to the library.
type AddBookRequest struct {
	ID            string   `json:"id" validate:"notblank,max=256"`
	Title         string   `json:"title" validate:"notblank,max=1000"`
	Authors       []string `json:"authors" validate:"max=50,dive,max=500"`
	Description   string   `json:"description" validate:"max=100000"`
	CoverImage    string   `json:"coverImage" validate:"omitempty,url"`
	PublishedDate string   `json:"publishedDate" validate:"max=32"`
	AverageRating float64  `json:"averageRating" validate:"gte=0,lte=5"`
	PageCount     int      `json:"pageCount" validate:"gte=0"`
	Categories    []string `json:"categories" validate:"max=50,dive,max=200"`
}

// BookRequest builds a request from a catalog book.
func BookRequest(b domain.Book) AddBookRequest {
	return AddBookRequest{
		ID:            b.ID,
		Title:         b.Title,
		Authors:       b.Authors,
		Description:   b.Description,
		CoverImage:    b.CoverImage,
		PublishedDate: b.PublishedDate,
		AverageRating: b.AverageRating,
		PageCount:     b.PageCount,
		Categories:    b.Categories,
	}
}

func (r AddBookRequest) book() domain.Book {
	b := domain.Book{
		ID:            strings.TrimSpace(r.ID),
		Title:         strings.TrimSpace(r.Title),
		Authors:       r.Authors,
		Description:   r.Description,
		CoverImage:    r.CoverImage,
		PublishedDate: r.PublishedDate,
		AverageRating: r.AverageRating,
		PageCount:     r.PageCount,
		Categories:    r.Categories,
	}
	return b.Clone()
}

// ChangeStatusRequest moves an entry to another lifecycle status.
type ChangeStatusRequest struct {
	Status domain.Status `json:"status" validate:"required"`
}

// UpdateProgressRequest records the current page and, optionally, minutes read.
type UpdateProgressRequest struct {
	CurrentPage int `json:"currentPage"`
	Minutes     int `json:"minutes" validate:"gte=0,lte=1440"`
}

// LogSessionRequest appends an explicit reading session.
type LogSessionRequest struct {
	Date      *time.Time `json:"date"`
	Minutes   int        `json:"minutes" validate:"gte=0,lte=1440"`
	PagesRead int        `json:"pagesRead"`
}

// AddReReadRequest records a completed re-read.
type AddReReadRequest struct {
	DateStarted   *time.Time `json:"dateStarted"`
	DateCompleted *time.Time `json:"dateCompleted" validate:"required"`
	Rating        int        `json:"rating" validate:"rating"`
	Notes         string     `json:"notes" validate:"max=10000"`
	Minutes       int        `json:"minutes" validate:"gte=0"`
}

// EditReReadRequest changes fields of a re-read entry. Nil fields are kept.
type EditReReadRequest struct {
	DateStarted   *time.Time `json:"dateStarted"`
	DateCompleted *time.Time `json:"dateCompleted"`
	Rating        *int       `json:"rating" validate:"omitempty,rating"`
	Notes         *string    `json:"notes" validate:"omitempty,max=10000"`
	Minutes       *int       `json:"minutes" validate:"omitempty,gte=0"`
}

// UpdateDetailsRequest changes the rating, notes or reading goal. Nil fields are kept.
// A zero rating clears it.
type UpdateDetailsRequest struct {
	PersonalRating *int    `json:"personalRating" validate:"omitempty,rating"`
	Notes          *string `json:"notes" validate:"omitempty,max=10000"`
	ReadingGoal    *string `json:"readingGoal" validate:"omitempty,max=500"`
}

// SetTagsRequest replaces the tag set of an entry.
type SetTagsRequest struct {
	Tags []string `json:"tags" validate:"max=100,dive,max=200"`
}
