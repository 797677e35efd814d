package common

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrNoToken            = errors.New("no token provided")
	ErrConflict           = errors.New("resource conflict") // username or email already exists
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBadRequest         = errors.New("bad request")
	ErrValidation         = errors.New("validation failed")
)

// Client-facing messages. They never carry internal detail.
const (
	MsgValidation         = "Validation error"
	MsgInvalidPayload     = "Invalid request payload"
	MsgConflict           = "Username or email already in use"
	MsgInvalidCredentials = "Invalid credentials"
	MsgNoToken            = "No token provided, authorization denied"
	MsgInvalidToken       = "Token is not valid"
	MsgServerError        = "Server error"
)

// ValidationError collects every violated input rule of a request.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// HTTPStatusFromError maps domain errors to HTTP status codes.
// Conflicts and bad credentials are reported as 400 so that they look like
// any other rejected form submission.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNoToken) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) || errors.Is(err, ErrInvalidCredentials) {
		return http.StatusBadRequest
	}
	if IsUniqueViolation(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the fixed client message for err.
func PublicMessage(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return MsgValidation
	case errors.Is(err, ErrBadRequest):
		return MsgInvalidPayload
	case errors.Is(err, ErrConflict), IsUniqueViolation(err):
		return MsgConflict
	case errors.Is(err, ErrInvalidCredentials):
		return MsgInvalidCredentials
	case errors.Is(err, ErrNoToken):
		return MsgNoToken
	case errors.Is(err, ErrUnauthorized):
		return MsgInvalidToken
	default:
		return MsgServerError
	}
}

// IsUniqueViolation reports whether err is a Postgres unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
