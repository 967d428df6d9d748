package token

import "errors"

// Verification failures are reported as one of a small set of sentinel
// errors so callers can branch without matching message text. None of them
// carry claim contents or secret material.
var (
	// ErrMalformed means the token string does not have the expected
	// structural shape (wrong length, wrong segment count, undecodable
	// header or payload).
	ErrMalformed = errors.New("token: malformed token")

	// ErrInvalidSignature means the signature did not match, or the token
	// header declared an algorithm other than the pinned one.
	ErrInvalidSignature = errors.New("token: invalid signature")

	// ErrInvalidPayload means the payload decoded but the claims do not
	// satisfy the schema (missing subject, unknown role, bad token type).
	ErrInvalidPayload = errors.New("token: invalid payload")

	// ErrExpired means the token is structurally and cryptographically
	// valid but past its expiry, beyond the configured leeway.
	ErrExpired = errors.New("token: token expired")
)
