package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"leadengine/internal/http/middleware"
	"leadengine/internal/model"
	"leadengine/internal/service"
)

// tokenResponse is the body returned by signup and login.
type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        *model.User `json:"user"`
}

func tokenResponseFor(res *service.AuthResult) tokenResponse {
	return tokenResponse{AccessToken: res.AccessToken, TokenType: "bearer", User: res.User}
}

// currentUser pulls the authenticated user stored by middleware.RequireAuth.
func currentUser(c *fiber.Ctx) *model.User {
	u, _ := c.Locals(middleware.UserLocalKey).(*model.User)
	return u
}

// Signup registers a new account.
func Signup(auth service.AuthService) fiber.Handler {
	type request struct {
		Email         string `json:"email"`
		Password      string `json:"password"`
		FullName      string `json:"full_name"`
		CommunityName string `json:"community_name"`
	}
	return func(c *fiber.Ctx) error {
		var req request
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		res, err := auth.Signup(c.UserContext(), service.SignupInput{
			Email:         req.Email,
			Password:      req.Password,
			FullName:      req.FullName,
			CommunityName: req.CommunityName,
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrEmailTaken):
				return writeError(c, fiber.StatusConflict, "EMAIL_TAKEN", "email is already registered")
			case errors.Is(err, service.ErrEmailRequired):
				return writeError(c, fiber.StatusBadRequest, "EMAIL_REQUIRED", "a valid email is required")
			case errors.Is(err, service.ErrPasswordTooShort):
				return writeError(c, fiber.StatusBadRequest, "PASSWORD_TOO_SHORT", "password must be at least 8 characters")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(tokenResponseFor(res))
	}
}

// Login exchanges credentials for an access token.
func Login(auth service.AuthService) fiber.Handler {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	return func(c *fiber.Ctx) error {
		var req request
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		res, err := auth.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidCredentials):
				return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
			case errors.Is(err, service.ErrAccountDisabled):
				return writeError(c, fiber.StatusUnauthorized, "ACCOUNT_DISABLED", "account is deactivated")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(tokenResponseFor(res))
	}
}

// Me returns the authenticated account profile.
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(currentUser(c))
	}
}

// UpdateMe applies a partial profile update to the authenticated account.
func UpdateMe(auth service.AuthService) fiber.Handler {
	type request struct {
		FullName      *string `json:"full_name"`
		CommunityID   *string `json:"community_id"`
		CommunityName *string `json:"community_name"`
		APIKey        *string `json:"api_key"`
	}
	return func(c *fiber.Ctx) error {
		var req request
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		u, err := auth.UpdateProfile(c.UserContext(), currentUser(c).ID, service.ProfileUpdate{
			FullName:      req.FullName,
			CommunityID:   req.CommunityID,
			CommunityName: req.CommunityName,
			APIKey:        req.APIKey,
		})
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(u)
	}
}

// VerifyToken confirms the bearer token is still valid. Reaching the handler
// means RequireAuth already accepted it.
func VerifyToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"valid": true, "user_id": currentUser(c).ID})
	}
}

// Logout acknowledges the logout. Tokens are stateless; clients discard
// them locally.
func Logout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "logged_out"})
	}
}
