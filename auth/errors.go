package auth

import (
	"errors"
	"fmt"
	"net/http"

	"veltahq.com/accounts/token"
)

// Error is the uniform authentication/authorization failure: a machine
// kind clients can branch on, a display-safe message, and the HTTP status
// it maps to. The JSON shape is identical across every failure path.
type Error struct {
	Kind    string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Common auth errors. Messages never echo the presented token or anything
// derived from secret material.
var (
	ErrMissingToken     = &Error{"UNAUTHENTICATED", "Authorization header required", http.StatusUnauthorized}
	ErrWrongScheme      = &Error{"UNAUTHENTICATED", "Authorization scheme must be Bearer", http.StatusUnauthorized}
	ErrEmptyToken       = &Error{"UNAUTHENTICATED", "Bearer token missing or too short", http.StatusUnauthorized}
	ErrMalformedToken   = &Error{"MALFORMED", "Token does not have the expected format", http.StatusUnauthorized}
	ErrInvalidSignature = &Error{"INVALID_SIGNATURE", "Token could not be verified", http.StatusUnauthorized}
	ErrInvalidPayload   = &Error{"INVALID_PAYLOAD", "Token claims are not valid", http.StatusUnauthorized}
	ErrExpiredToken     = &Error{"EXPIRED", "Session expired, please sign in again", http.StatusUnauthorized}
	ErrWrongTokenType   = &Error{"INVALID_TOKEN_TYPE", "Access token required", http.StatusUnauthorized}
	ErrRefreshRequired  = &Error{"INVALID_TOKEN_TYPE", "Refresh token required", http.StatusUnauthorized}
	ErrInsufficientRole = &Error{"FORBIDDEN", "Insufficient role for this resource", http.StatusForbidden}

	ErrInvalidCredentials = &Error{"INVALID_CREDENTIALS", "Invalid email or password", http.StatusUnauthorized}
	ErrUserInactive       = &Error{"USER_INACTIVE", "User account inactive", http.StatusUnauthorized}
)

// NewError builds an ad-hoc auth error.
func NewError(kind, message string, status int) *Error {
	return &Error{Kind: kind, Message: message, Status: status}
}

// fromTokenError maps a token.Service verification error onto its HTTP
// form. Callers of the middleware never see a raw verification error.
func fromTokenError(err error) *Error {
	switch {
	case errors.Is(err, token.ErrMalformed):
		return ErrMalformedToken
	case errors.Is(err, token.ErrInvalidSignature):
		return ErrInvalidSignature
	case errors.Is(err, token.ErrInvalidPayload):
		return ErrInvalidPayload
	case errors.Is(err, token.ErrExpired):
		return ErrExpiredToken
	}
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr
	}
	return ErrEmptyToken
}
