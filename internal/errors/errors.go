package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrorResponse is the envelope every failed request returns.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// APIError carries an HTTP status code alongside a user-facing message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// New creates a new API error.
func New(statusCode int, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    message,
	}
}

var (
	// ErrInvalidCredentials is returned for both an unknown email and a wrong
	// password, so a caller cannot tell which one failed.
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid credentials")
	// ErrEmailTaken is returned when registering with an email already in use.
	ErrEmailTaken = New(http.StatusConflict, "Email already registered")
	// ErrMissingCredentials is returned when login fields are absent.
	ErrMissingCredentials = New(http.StatusBadRequest, "Please provide email and password")
	// ErrNotAuthorized is returned for a missing, malformed, expired or revoked token.
	ErrNotAuthorized = New(http.StatusUnauthorized, "Not authorized to access this route")
	// ErrUserGone is returned when a valid token references a deleted user.
	ErrUserGone = New(http.StatusUnauthorized, "User no longer exists")
	// ErrTaskNotFound is returned when a task does not exist for the caller.
	// A task owned by someone else maps to the same error.
	ErrTaskNotFound = New(http.StatusNotFound, "Task not found")
	// ErrTaskNotOwned is returned when an update matches no (id, owner) row.
	ErrTaskNotOwned = New(http.StatusBadRequest, "Task not found or not authorized")
	// ErrEmptyUpdate is returned when an update carries no fields.
	ErrEmptyUpdate = New(http.StatusBadRequest, "No fields to update")
	// ErrInvalidID is returned when a path id is not a valid UUID.
	ErrInvalidID = New(http.StatusBadRequest, "Invalid ID format")
)

// Postgres SQLSTATE codes recognized by the translator.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRep      = "22P02"
)

// Translate maps any error from the service or storage layer to an APIError.
// Domain errors pass through with their own status; Postgres errors are mapped
// by SQLSTATE; everything else becomes an opaque 500.
func Translate(err error) *APIError {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return New(http.StatusBadRequest, "Duplicate field value entered")
		case pgForeignKeyViolation:
			return New(http.StatusBadRequest, "Referenced resource not found")
		case pgInvalidTextRep:
			return New(http.StatusBadRequest, "Invalid ID format")
		}
	}

	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return New(http.StatusNotFound, "Resource not found")
	}

	return New(http.StatusInternalServerError, "Server Error")
}
