package common

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound           = errors.New("requested user not found")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternalServer     = errors.New("internal server error")
)

// HTTPStatusFromError maps domain errors to HTTP status codes. Duplicate
// registrations and bad logins both surface as 400, matching the public
// contract of the API.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrConflict) || errors.Is(err, ErrInvalidCredentials) {
		return http.StatusBadRequest
	}

	// Unique violations that escaped the repository's translation still mean
	// a duplicate user.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return http.StatusBadRequest
		}
	}

	return http.StatusInternalServerError
}

// ClientMessage returns the message exposed to API clients for err. Unknown
// errors collapse to a generic server error so internal detail stays out of
// the response body.
func ClientMessage(err error) string {
	switch {
	case errors.Is(err, ErrConflict):
		return "User already exists with this email or username"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, ErrNotFound):
		return "User not found"
	case errors.Is(err, ErrBadRequest):
		return "All fields are required"
	default:
		return "Server error"
	}
}
