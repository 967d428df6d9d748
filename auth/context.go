package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"veltahq.com/accounts/token"
)

// identityKey is the fiber locals slot under which the middleware stores
// the resolved identity.
const identityKey = "auth_identity"

// Identity is the read-only view of a verified token that protected
// handlers work with. It is valid for the lifetime of one request and
// carries no ownership over any resource.
type Identity struct {
	SubjectID string     `json:"subject_id"`
	Email     string     `json:"email,omitempty"`
	Role      token.Role `json:"role,omitempty"`
	TokenID   string     `json:"-"`
	IssuedAt  time.Time  `json:"-"`
	ExpiresAt time.Time  `json:"-"`
}

// HasRole reports whether the identity carries one of the given roles.
func (id *Identity) HasRole(roles ...token.Role) bool {
	for _, r := range roles {
		if id.Role == r {
			return true
		}
	}
	return false
}

func identityFromClaims(c *token.Claims) *Identity {
	return &Identity{
		SubjectID: c.Subject,
		Email:     c.Email,
		Role:      c.Role,
		TokenID:   c.ID,
		IssuedAt:  c.IssuedAt.Time,
		ExpiresAt: c.ExpiresAt.Time,
	}
}

// IdentityFromCtx returns the identity attached by RequireAuth, or false
// when the request did not pass through it.
func IdentityFromCtx(c *fiber.Ctx) (*Identity, bool) {
	id, ok := c.Locals(identityKey).(*Identity)
	return id, ok
}
