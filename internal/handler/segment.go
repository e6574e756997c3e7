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

type SegmentHandler struct {
	svc *service.SegmentService
}

func NewSegmentHandler(svc *service.SegmentService) *SegmentHandler {
	return &SegmentHandler{svc: svc}
}

// List handles GET /api/v1/segments?bvid=X&page=N
func (h *SegmentHandler) List(c fiber.Ctx) error {
	bvid, errMsg := middleware.ValidateBVID(fiber.Query[string](c, "bvid"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	page := fiber.Query[int](c, "page", 1)
	if page < 1 {
		page = 1
	}

	segments, err := h.svc.List(c.Context(), bvid, page, middleware.UserID(c))
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list segments")
	}

	return c.JSON(fiber.Map{"segments": segments})
}

// Batch handles POST /api/v1/segments/batch
func (h *SegmentHandler) Batch(c fiber.Ctx) error {
	var req model.BatchSegmentsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	bvids, errMsg := middleware.ValidateBatch(req.BVIDs)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	result, err := h.svc.ListBatch(c.Context(), bvids)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list segments")
	}

	return c.JSON(fiber.Map{"data": result})
}

// Submit handles POST /api/v1/segments
func (h *SegmentHandler) Submit(c fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}

	var req model.SubmitSegmentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	bvid, errMsg := middleware.ValidateBVID(req.BVID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.BVID = bvid

	resp, err := h.svc.Submit(c.Context(), *userID, req)
	if err != nil {
		if apperr.IsValidation(err) {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit segment")
	}

	Metrics.SegmentsSubmitted.WithLabelValues(req.AdType).Inc()
	return c.JSON(resp)
}

// Delete handles DELETE /api/v1/segments/:id
func (h *SegmentHandler) Delete(c fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}

	segmentID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || segmentID <= 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "id must be a positive integer")
	}

	if err := h.svc.Delete(c.Context(), *userID, segmentID); err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Segment not found")
		case errors.Is(err, apperr.ErrForbidden):
			return middleware.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "Only the contributor may delete this segment")
		default:
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete segment")
		}
	}

	return c.JSON(fiber.Map{"success": true})
}
