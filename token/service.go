package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// MinSecretLength is the smallest signing secret New will accept.
	// Anything shorter than the HS256 block size weakens the HMAC.
	MinSecretLength = 32

	// minTokenLength is the shortest string that could plausibly be a
	// three-segment HS256 token. Anything shorter is rejected before any
	// parsing happens.
	minTokenLength = 32

	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 30 * 24 * time.Hour
	defaultLeeway     = 30 * time.Second
	maxLeeway         = 2 * time.Minute
)

// Config holds the signing secret and cryptographic policy for a Service.
// It is supplied once at construction and treated as immutable afterwards.
type Config struct {
	// Secret is the HMAC signing secret. Required, at least
	// MinSecretLength bytes. Never logged and never part of any error.
	Secret []byte

	// Issuer is stamped into minted tokens and required on verified ones
	// when non-empty.
	Issuer string

	// AccessTTL is the lifetime of access tokens. Default 15m.
	AccessTTL time.Duration

	// RefreshTTL is the lifetime of refresh tokens. Default 720h. Must
	// exceed AccessTTL by at least a factor of ten so a leaked access
	// token has a bounded blast radius.
	RefreshTTL time.Duration

	// Leeway absorbs clock drift between signer and verifier when
	// comparing expiry. Default 30s, capped at 2m.
	Leeway time.Duration
}

// Service is the sole authority for producing and validating token
// strings. Sign and Verify are pure in-memory computations with no locks
// and no I/O, so a single Service is safe for unbounded concurrent use.
type Service struct {
	cfg      Config
	parser   *jwt.Parser
	validate *validator.Validate

	now func() time.Time // test hook
}

// New validates cfg and builds a Service. It fails rather than falling
// back to a weak default when the secret is missing or short.
func New(cfg Config) (*Service, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("token: signing secret must be at least %d bytes", MinSecretLength)
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	if cfg.AccessTTL < 0 || cfg.RefreshTTL < 0 {
		return nil, errors.New("token: token TTLs must be positive")
	}
	if cfg.RefreshTTL < 10*cfg.AccessTTL {
		return nil, errors.New("token: refresh TTL must exceed access TTL by at least a factor of ten")
	}
	if cfg.Leeway == 0 {
		cfg.Leeway = defaultLeeway
	}
	if cfg.Leeway < 0 || cfg.Leeway > maxLeeway {
		return nil, errors.New("token: leeway must be between 0 and 2m")
	}

	// HS256 is the only algorithm this service will ever sign with or
	// accept. Pinning it here closes the algorithm-confusion hole where a
	// forged header downgrades verification to "none" or a weaker method.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithoutClaimsValidation(),
	)

	return &Service{
		cfg:      cfg,
		parser:   parser,
		validate: validator.New(),
		now:      time.Now,
	}, nil
}

// AccessTTL returns the configured access token lifetime.
func (s *Service) AccessTTL() time.Duration { return s.cfg.AccessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (s *Service) RefreshTTL() time.Duration { return s.cfg.RefreshTTL }

// Sign mints a signed token string for the given subject. Timestamps and
// the token id are computed here; callers cannot supply them. Refresh
// tokens carry only the subject and the type tag.
func (s *Service) Sign(in SignInput, tt TokenType) (string, error) {
	if in.SubjectID == "" {
		return "", fmt.Errorf("%w: subject id is required", ErrInvalidPayload)
	}
	if tt != AccessToken && tt != RefreshToken {
		return "", fmt.Errorf("%w: unknown token type %q", ErrInvalidPayload, tt)
	}
	if in.Role != "" && !in.Role.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidPayload, in.Role)
	}

	now := s.now()
	claims := Claims{
		TokenType: tt,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.cfg.Issuer,
			Subject:   in.SubjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl(tt))),
		},
	}
	if tt == AccessToken {
		claims.Email = in.Email
		claims.Role = in.Role
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("token: signing failed: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string and returns its claims.
// Checks run in a fixed order: structural shape, signature and algorithm,
// claim schema, expiry. Any failed check discards everything that was
// decoded; there is no partial identity.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	if len(tokenString) < minTokenLength {
		return nil, ErrMalformed
	}
	if strings.Count(tokenString, ".") != 2 {
		return nil, ErrMalformed
	}

	claims := &Claims{}
	if _, err := s.parser.ParseWithClaims(tokenString, claims, s.keyFunc); err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformed
		}
	}

	if err := s.checkSchema(claims); err != nil {
		return nil, err
	}

	if s.now().After(claims.ExpiresAt.Add(s.cfg.Leeway)) {
		return nil, ErrExpired
	}

	return claims, nil
}

// keyFunc hands the secret to the parser. The algorithm is re-checked even
// though WithValidMethods already filters it, so a parser misconfiguration
// cannot silently widen the accepted set.
func (s *Service) keyFunc(t *jwt.Token) (any, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return s.cfg.Secret, nil
}

// checkSchema fails closed on any claim set that does not match the
// expected shape, rather than defaulting missing fields.
func (s *Service) checkSchema(c *Claims) error {
	if c.Subject == "" {
		return fmt.Errorf("%w: missing subject", ErrInvalidPayload)
	}
	if c.IssuedAt == nil || c.ExpiresAt == nil {
		return fmt.Errorf("%w: missing timestamps", ErrInvalidPayload)
	}
	if !c.ExpiresAt.After(c.IssuedAt.Time) {
		return fmt.Errorf("%w: expiry not after issuance", ErrInvalidPayload)
	}
	if s.cfg.Issuer != "" && c.Issuer != s.cfg.Issuer {
		return fmt.Errorf("%w: issuer mismatch", ErrInvalidPayload)
	}
	if c.Role != "" && !c.Role.Valid() {
		return fmt.Errorf("%w: unknown role", ErrInvalidPayload)
	}
	if c.TokenType == RefreshToken && (c.Role != "" || c.Email != "") {
		return fmt.Errorf("%w: refresh token carries identity claims", ErrInvalidPayload)
	}
	if err := s.validate.Struct(c); err != nil {
		return fmt.Errorf("%w: claim schema violation", ErrInvalidPayload)
	}
	return nil
}

func (s *Service) ttl(tt TokenType) time.Duration {
	if tt == RefreshToken {
		return s.cfg.RefreshTTL
	}
	return s.cfg.AccessTTL
}
