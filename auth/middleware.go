package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"veltahq.com/accounts/token"
)

const (
	// bearerPrefix is matched case-sensitively: "bearer x" is not a valid
	// scheme and is rejected before any token parsing.
	bearerPrefix = "Bearer "

	// minCandidateLength filters out credentials too short to be a token
	// before the token service is even consulted.
	minCandidateLength = 16
)

// RequireAuth gates access to the wrapped handlers behind a valid bearer
// access token. On success the resolved identity is attached to the
// request and the chain continues; on any failure the request is answered
// here with the uniform error envelope and a WWW-Authenticate challenge.
//
// Errors (or panics) raised by handlers after successful authentication
// are not intercepted; they propagate to the app-level error handler.
func RequireAuth(ts *token.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		candidate, authErr := bearerToken(c.Get(fiber.HeaderAuthorization))
		if authErr != nil {
			return reject(c, authErr)
		}

		claims, err := ts.Verify(candidate)
		if err != nil {
			return reject(c, fromTokenError(err))
		}

		// Refresh tokens are only good for minting new access tokens,
		// never for authorizing a request directly.
		if claims.TokenType != token.AccessToken {
			return reject(c, ErrWrongTokenType)
		}

		c.Locals(identityKey, identityFromClaims(claims))
		return c.Next()
	}
}

// RequireRole extends RequireAuth with a role check. It never re-verifies
// the token: it inspects the identity RequireAuth attached. An identity
// without one of the given roles is authenticated but forbidden, which is
// a 403 rather than a 401.
func RequireRole(roles ...token.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := IdentityFromCtx(c)
		if !ok {
			return reject(c, ErrMissingToken)
		}
		if !id.HasRole(roles...) {
			return reject(c, ErrInsufficientRole)
		}
		return c.Next()
	}
}

// RequireAdmin is shorthand for the admin-only role gate.
func RequireAdmin() fiber.Handler {
	return RequireRole(token.RoleAdmin)
}

// bearerToken extracts the token candidate from an Authorization header.
func bearerToken(header string) (string, *Error) {
	if header == "" {
		return "", ErrMissingToken
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrWrongScheme
	}
	candidate := header[len(bearerPrefix):]
	if len(candidate) < minCandidateLength {
		return "", ErrEmptyToken
	}
	return candidate, nil
}

// reject writes the uniform failure envelope. The response always carries
// the bearer challenge so clients know which scheme to retry with.
func reject(c *fiber.Ctx, e *Error) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(e.Status).JSON(e)
}
