package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"veltahq.com/accounts/pg/model"
	"veltahq.com/accounts/token"
)

// Service implements the login-flow collaborators around the token
// service: credential verification, token pair issuance, refresh, and
// account management.
type Service struct {
	db     model.DB
	tokens *token.Service
}

func NewService(db model.DB, ts *token.Service) *Service {
	return &Service{db: db, tokens: ts}
}

// Login verifies credentials and returns an access/refresh token pair.
// Lookup failure and password mismatch are indistinguishable to the
// caller.
func (s *Service) Login(ctx context.Context, email, password string) (access, refresh string, err error) {
	user, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", "", ErrUserInactive
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return "", "", ErrInvalidCredentials
	}

	access, err = s.tokens.Sign(token.SignInput{
		SubjectID: user.ID,
		Email:     user.Email,
		Role:      token.Role(user.Role),
	}, token.AccessToken)
	if err != nil {
		return "", "", fmt.Errorf("mint access token: %w", err)
	}

	refresh, err = s.tokens.Sign(token.SignInput{SubjectID: user.ID}, token.RefreshToken)
	if err != nil {
		return "", "", fmt.Errorf("mint refresh token: %w", err)
	}

	return access, refresh, nil
}

// Refresh exchanges a valid refresh token for a fresh access token. The
// account is re-read so a deactivated user cannot keep minting access
// tokens for the remaining life of the refresh token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return "", fromTokenError(err)
	}
	if claims.TokenType != token.RefreshToken {
		return "", ErrRefreshRequired
	}

	user, err := s.db.GetUserByID(ctx, claims.Subject)
	if err != nil || !user.IsActive {
		return "", ErrUserInactive
	}

	access, err := s.tokens.Sign(token.SignInput{
		SubjectID: user.ID,
		Email:     user.Email,
		Role:      token.Role(user.Role),
	}, token.AccessToken)
	if err != nil {
		return "", fmt.Errorf("mint access token: %w", err)
	}
	return access, nil
}

// CreateUser provisions a new active account with a hashed password.
func (s *Service) CreateUser(ctx context.Context, email, username, password string, role token.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", token.ErrInvalidPayload, role)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		Role:         string(role),
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the caller's password after re-verifying the
// current one.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		return ErrInvalidCredentials
	}
	if !VerifyPassword(current, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	hash, err := HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.db.SetPassword(ctx, userID, hash)
}
