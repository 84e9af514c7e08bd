package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnknownUser is returned when no user matches the presented username.
	ErrUnknownUser = errors.New("unknown user")
	// ErrInvalidCredentials is returned when password verification fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserConflict is returned when a username or email is already taken.
	ErrUserConflict = errors.New("username or email already taken")
	// ErrInvalidToken is returned when a bearer token fails signature or
	// payload validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnknownToken is returned when a token is well formed but its claim
	// no longer matches any user's find hash.
	ErrUnknownToken = errors.New("unknown token")
	// ErrFindHashExhausted is returned when find-hash generation keeps
	// colliding with the unique index after all retries.
	ErrFindHashExhausted = errors.New("find hash generation exhausted retries")
	// ErrHashing is returned when password hashing itself fails.
	ErrHashing = errors.New("password hashing failed")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Internal failures
// collapse to a generic 500 so no detail leaks to the client.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUnknownUser):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "UNKNOWN_USER")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUserConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "USER_CONFLICT")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrUnknownToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNKNOWN_TOKEN")
	case errors.Is(err, ErrFindHashExhausted):
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "FIND_HASH_EXHAUSTED")
	case errors.Is(err, ErrHashing):
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "HASHING_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
