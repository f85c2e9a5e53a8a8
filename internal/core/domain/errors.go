package domain

import "errors"

// State machine.
var (
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrUnauthorized        = errors.New("actor not permitted")
	ErrConcurrencyConflict = errors.New("hire was modified concurrently")
	ErrHireNotFound        = errors.New("hire not found")
	ErrCorruptHire         = errors.New("hire must reference exactly one of client or guest")
)

// Reviews.
var (
	ErrDuplicateReview    = errors.New("hire already reviewed")
	ErrNotEligible        = errors.New("hire is not eligible for review")
	ErrInvalidReviewToken = errors.New("invalid review token")
	ErrReviewNotFound     = errors.New("review not found")
)

// Directory and guest flow.
var (
	ErrProfessionalNotFound     = errors.New("professional not found")
	ErrProfessionalNotEligible  = errors.New("professional does not match the requested category")
	ErrNoProfessionalsAvailable = errors.New("no professionals available for category")
	ErrInvalidFilter            = errors.New("invalid directory filter")
)

// Input and collaborators.
var (
	ErrValidation           = errors.New("validation failed")
	ErrDeliveryFailure      = errors.New("notification delivery failed")
	ErrNotificationExists   = errors.New("notification already stored")
	ErrConversationNotFound = errors.New("conversation not found")
)

// Accounts.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("access forbidden")
)
