package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/adskipper/adskipper-go/internal/apperr"
	"github.com/adskipper/adskipper-go/internal/middleware"
	"github.com/adskipper/adskipper-go/internal/model"
	"github.com/adskipper/adskipper-go/internal/service"
)

type VoteHandler struct {
	svc *service.VoteService
}

func NewVoteHandler(svc *service.VoteService) *VoteHandler {
	return &VoteHandler{svc: svc}
}

// Cast handles POST /api/v1/segments/:id/vote
func (h *VoteHandler) Cast(c fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}

	segmentID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || segmentID <= 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "id must be a positive integer")
	}

	var req model.CastVoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	resp, err := h.svc.Cast(c.Context(), *userID, segmentID, req.VoteType)
	if err != nil {
		status, code, msg := castErrorResponse(err)
		return middleware.ErrorResponse(c, status, code, msg)
	}

	Metrics.VotesTotal.WithLabelValues(req.VoteType).Inc()
	return c.JSON(resp)
}

// castErrorResponse maps a vote casting failure onto the wire error contract.
func castErrorResponse(err error) (status int, code, msg string) {
	switch {
	case apperr.IsValidation(err):
		return fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", "Segment not found"
	case errors.Is(err, apperr.ErrDuplicateVote):
		return fiber.StatusConflict, "DUPLICATE_VOTE", "You have already cast this vote"
	default:
		return fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record vote"
	}
}

// Stats handles GET /api/v1/segments/:id/votes
func (h *VoteHandler) Stats(c fiber.Ctx) error {
	segmentID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || segmentID <= 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "id must be a positive integer")
	}

	resp, err := h.svc.Stats(c.Context(), segmentID, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Segment not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load vote stats")
	}

	return c.JSON(resp)
}
