package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists is returned when registering a duplicate email.
	ErrUserAlreadyExists = errors.New("user with this email already exists")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrMFARequired is returned when login needs a second factor.
	ErrMFARequired = errors.New("multi-factor authentication required")
	// ErrMFAAlreadyEnabled is returned when MFA setup is repeated.
	ErrMFAAlreadyEnabled = errors.New("MFA already enabled for this user")
	// ErrMFANotEnabled is returned when an MFA operation needs enrollment first.
	ErrMFANotEnabled = errors.New("MFA not enabled for this user")
	// ErrInvalidMFACode is returned when a TOTP code does not verify.
	ErrInvalidMFACode = errors.New("invalid MFA code")
	// ErrDocumentNotFound is returned when a document is missing or foreign.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrCardNotFound is returned when the user has no transport card.
	ErrCardNotFound = errors.New("transport card not found")
	// ErrInvalidAmount is returned when an amount is zero or negative.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientBalance is returned when the card cannot cover a charge.
	ErrInsufficientBalance = errors.New("insufficient balance")
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

// MapErrorToHTTP maps domain errors to HTTP errors. Unexpected errors
// collapse to a generic 500 so internals never leak to clients.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrUserNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case ErrUserAlreadyExists:
		return NewHTTPError(http.StatusConflict, err.Error(), "USER_ALREADY_EXISTS")
	case ErrInvalidCredentials:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case ErrMFARequired:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "MFA_REQUIRED")
	case ErrMFAAlreadyEnabled:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MFA_ALREADY_ENABLED")
	case ErrMFANotEnabled:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MFA_NOT_ENABLED")
	case ErrInvalidMFACode:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_MFA_CODE")
	case ErrDocumentNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "DOCUMENT_NOT_FOUND")
	case ErrCardNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "CARD_NOT_FOUND")
	case ErrInvalidAmount:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_AMOUNT")
	case ErrInsufficientBalance:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INSUFFICIENT_BALANCE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
