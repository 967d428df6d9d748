package auth

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"veltahq.com/accounts/token"
)

// Handlers exposes the auth flows as Fiber endpoints.
type Handlers struct {
	service  *Service
	validate *validator.Validate
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{
		service:  service,
		validate: validator.New(),
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=255"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=user moderator admin"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Login handles POST /auth/login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if !h.parseBody(c, &req) {
		return nil
	}

	access, refresh, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(h.service.tokens.AccessTTL().Seconds()),
	})
}

// Refresh handles POST /auth/refresh.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if !h.parseBody(c, &req) {
		return nil
	}

	access, err := h.service.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(AccessTokenResponse{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.service.tokens.AccessTTL().Seconds()),
	})
}

// CreateUser handles POST /auth/users. Admin-gated in the route table.
func (h *Handlers) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if !h.parseBody(c, &req) {
		return nil
	}

	user, err := h.service.CreateUser(c.Context(), req.Email, req.Username, req.Password, token.Role(req.Role))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// ChangePassword handles POST /auth/password for the authenticated user.
func (h *Handlers) ChangePassword(c *fiber.Ctx) error {
	id, ok := IdentityFromCtx(c)
	if !ok {
		return reject(c, ErrMissingToken)
	}

	var req ChangePasswordRequest
	if !h.parseBody(c, &req) {
		return nil
	}

	if err := h.service.ChangePassword(c.Context(), id.SubjectID, req.CurrentPassword, req.NewPassword); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseBody decodes and validates a request body. On failure it answers
// the request with a 400 envelope and reports false.
func (h *Handlers) parseBody(c *fiber.Ctx, out any) bool {
	if err := c.BodyParser(out); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "INVALID_REQUEST",
			"message": "Request body could not be parsed",
		})
		return false
	}
	if err := h.validate.Struct(out); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "VALIDATION_FAILED",
			"message": err.Error(),
		})
		return false
	}
	return true
}

// writeError renders a service error in the uniform envelope. Unexpected
// internal errors are masked with a generic message.
func writeError(c *fiber.Ctx, err error) error {
	var authErr *Error
	if errors.As(err, &authErr) {
		return c.Status(authErr.Status).JSON(authErr)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "INTERNAL",
		"message": "Something went wrong",
	})
}
