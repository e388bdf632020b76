package application

import "errors"

// Domain error kinds. Handlers translate these into HTTP statuses;
// everything else is treated as an internal failure.
var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMovieNotFound      = errors.New("movie not found")
	ErrNotOwner           = errors.New("movie belongs to another user")
	ErrUploadFailed       = errors.New("poster upload failed")
)
