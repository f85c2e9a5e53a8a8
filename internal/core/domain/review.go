package domain

import (
	"time"
	"unicode/utf8"
)

const (
	RatingMin        = 1
	RatingMax        = 5
	CommentMaxLength = 500
)

// Review is a client's rating of a completed hire. At most one exists per hire.
type Review struct {
	ID             string
	HireID         string
	ProfessionalID string
	ClientID       string // empty for guest reviews
	GuestName      string
	Rating         int
	Comment        string
	CreatedAt      time.Time
}

// ValidRating reports whether r is within 1..5.
func ValidRating(r int) bool {
	return r >= RatingMin && r <= RatingMax
}

// ValidComment reports whether the optional comment fits the length bound.
func ValidComment(c string) bool {
	return utf8.RuneCountInString(c) <= CommentMaxLength
}
