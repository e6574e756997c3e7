package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/adskipper/adskipper-go/internal/middleware"
	"github.com/adskipper/adskipper-go/internal/repository"
)

type StatsHandler struct {
	users *repository.UserRepo
}

func NewStatsHandler(users *repository.UserRepo) *StatsHandler {
	return &StatsHandler{users: users}
}

// Overview handles GET /api/v1/stats/overview
func (h *StatsHandler) Overview(c fiber.Ctx) error {
	stats, err := h.users.GetStats(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch statistics")
	}

	return c.JSON(stats)
}

// TopUsers handles GET /api/v1/stats/top-users
func (h *StatsHandler) TopUsers(c fiber.Ctx) error {
	limit := fiber.Query[int](c, "limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	users, err := h.users.TopUsers(c.Context(), limit)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch top users")
	}

	return c.JSON(fiber.Map{"users": users})
}

// PopularVideos handles GET /api/v1/stats/popular-videos
func (h *StatsHandler) PopularVideos(c fiber.Ctx) error {
	limit := fiber.Query[int](c, "limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	videos, err := h.users.PopularVideos(c.Context(), limit)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch popular videos")
	}

	return c.JSON(fiber.Map{"videos": videos})
}

// Contributions handles GET /api/v1/user/contributions
func (h *StatsHandler) Contributions(c fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}

	page, pageSize := middleware.ClampPage(
		fiber.Query[int](c, "page", 1),
		fiber.Query[int](c, "page_size", 10),
	)

	resp, err := h.users.Contributions(c.Context(), *userID, page, pageSize)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch contributions")
	}

	return c.JSON(resp)
}
