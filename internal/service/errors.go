package service

import "errors"

var (
	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidStatus is returned when a status value is not accepted for the operation
	ErrInvalidStatus = errors.New("invalid status")

	// ErrUnauthorized is returned when no valid admin session accompanies a request
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller is not allowed to perform an admin operation
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials is returned when an admin login does not match the configured credential
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrBonusAccountNotFound is returned when no bonus account matches a phone
	ErrBonusAccountNotFound = errors.New("bonus account not found")

	// ErrAmbiguousPhone is returned when several bonus accounts normalize to the same phone digits
	ErrAmbiguousPhone = errors.New("phone matches more than one bonus account")

	// ErrInsufficientBonuses is returned when a redemption exceeds the available balance
	ErrInsufficientBonuses = errors.New("insufficient bonuses")

	// ErrReviewNotFound is returned when a review cannot be found
	ErrReviewNotFound = errors.New("review not found")

	// ErrPostNotFound is returned when a blog post cannot be found or is not public
	ErrPostNotFound = errors.New("post not found")

	// ErrPostSlugExists is returned when creating a post whose slug is taken
	ErrPostSlugExists = errors.New("post slug already exists")
)
