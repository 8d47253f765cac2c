package application

import "errors"

// Error taxonomy shared by all services. Handlers translate these to HTTP
// status codes; everything else is treated as an internal error.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("not allowed")
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrDuplicateReview    = errors.New("store already reviewed by this author")
	ErrInvalidResetToken  = errors.New("reset token is invalid or has expired")
	ErrInvalidQuery       = errors.New("invalid query parameters")
	ErrTagsRequired       = errors.New("at least one tag is required")
)
