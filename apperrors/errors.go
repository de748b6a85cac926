package apperrors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidInput is returned when a required field is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountInactive is returned when a deactivated account tries to log in.
	ErrAccountInactive = errors.New("account deactivated")
	// ErrUserExists is returned on signup when the email or phone is taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when a user id does not exist.
	ErrUserNotFound = errors.New("user not found")

	ErrOTPNotFound = errors.New("OTP not found or expired")
	ErrOTPExpired  = errors.New("OTP expired")
	ErrOTPMismatch = errors.New("invalid OTP")

	// ErrAccessTokenRequired is returned when no bearer token was presented.
	ErrAccessTokenRequired = errors.New("access token required")
	// ErrInvalidToken is returned for malformed, tampered or expired tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInsufficientPermissions is returned when the caller's role is not allowed.
	ErrInsufficientPermissions = errors.New("insufficient permissions")

	ErrOrderNotFound = errors.New("order not found")
	// ErrNotAuthorized is returned when a customer acts on someone else's order.
	ErrNotAuthorized = errors.New("not authorized")
	ErrDishNotFound  = errors.New("dish not found")
	// ErrOrderNotClaimable is returned when a partner accepts an order that
	// is no longer waiting for pickup.
	ErrOrderNotClaimable = errors.New("order is not available for pickup")

	// ErrVerificationFailed is returned when a payment verification is rejected.
	ErrVerificationFailed = errors.New("payment verification failed")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
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
		Success: false,
		Error:   e.Message,
		Message: e.Message,
		Code:    e.Code,
	}
}

var mappings = []struct {
	err    error
	status int
	code   string
}{
	{ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrAccountInactive, http.StatusUnauthorized, "ACCOUNT_INACTIVE"},
	{ErrUserExists, http.StatusBadRequest, "USER_EXISTS"},
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{ErrOTPNotFound, http.StatusUnauthorized, "OTP_NOT_FOUND"},
	{ErrOTPExpired, http.StatusUnauthorized, "OTP_EXPIRED"},
	{ErrOTPMismatch, http.StatusUnauthorized, "OTP_MISMATCH"},
	{ErrAccessTokenRequired, http.StatusUnauthorized, "ACCESS_TOKEN_REQUIRED"},
	{ErrInvalidToken, http.StatusForbidden, "INVALID_TOKEN"},
	{ErrInsufficientPermissions, http.StatusForbidden, "INSUFFICIENT_PERMISSIONS"},
	{ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND"},
	{ErrNotAuthorized, http.StatusForbidden, "NOT_AUTHORIZED"},
	{ErrDishNotFound, http.StatusNotFound, "DISH_NOT_FOUND"},
	{ErrOrderNotClaimable, http.StatusConflict, "ORDER_NOT_CLAIMABLE"},
	{ErrVerificationFailed, http.StatusBadRequest, "VERIFICATION_FAILED"},
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors are
// matched with errors.Is; anything unknown becomes a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return NewHTTPError(m.status, m.err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
