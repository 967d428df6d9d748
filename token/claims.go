package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenType distinguishes short-lived access tokens from long-lived
// refresh tokens.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Role is the elevated role carried by an access token. The empty string
// means no elevated role.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a member of the role enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Claims is the payload carried inside a token. The subject id rides in
// the registered "sub" claim and the server-assigned timestamps in
// "iat"/"exp". A Claims value returned by Verify is a read-only assertion
// about an identity; it is never persisted and lives for one request.
//
// Refresh tokens carry only the subject and the token_type tag, never
// role or email.
type Claims struct {
	Email     string    `json:"email,omitempty" validate:"omitempty,email"`
	Role      Role      `json:"role,omitempty"`
	TokenType TokenType `json:"token_type" validate:"required,oneof=access refresh"`
	jwt.RegisteredClaims
}

// SignInput is the caller-supplied portion of a token. Timestamps and the
// token id are always computed by the Service, never accepted from callers.
type SignInput struct {
	SubjectID string
	Email     string
	Role      Role
}
