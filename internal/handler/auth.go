package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/adskipper/adskipper-go/internal/apperr"
	"github.com/adskipper/adskipper-go/internal/middleware"
	"github.com/adskipper/adskipper-go/internal/model"
	"github.com/adskipper/adskipper-go/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req model.RegisterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	username, errMsg := middleware.ValidateUsername(req.Username)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	if len(req.Password) < 6 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "password must be at least 6 characters")
	}

	if err := h.svc.Register(c.Context(), username, req.Password); err != nil {
		if errors.Is(err, apperr.ErrUsernameTaken) {
			return middleware.ErrorResponse(c, fiber.StatusConflict, "USERNAME_TAKEN", "Username is already taken")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS", "username and password are required")
	}

	resp, err := h.svc.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrBadCredentials) {
			return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "BAD_CREDENTIALS", "Invalid username or password")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
	}

	return c.JSON(resp)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}
	username, _ := c.Locals(middleware.LocalUsername).(string)

	resp, err := h.svc.Me(c.Context(), *userID, username)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load profile")
	}

	return c.JSON(resp)
}
