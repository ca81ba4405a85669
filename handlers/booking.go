package handlers

import (
	"errors"
	"net/http"
	"time"

	bookingRepo "deskhive/database/repository/booking"
	lockRepo "deskhive/database/repository/lock"
	"deskhive/models"
	"deskhive/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking engine over HTTP. Identity is
// validated upstream; the gateway forwards the acting user in the
// X-Actor-ID header.
type BookingHandler struct {
	Svc    booking.BookingService
	Logger *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

type createBookingRequest struct {
	ResourceID string                 `json:"resourceId" binding:"required"`
	Start      time.Time              `json:"start" binding:"required"`
	End        time.Time              `json:"end" binding:"required"`
	Recurrence *models.RecurrenceRule `json:"recurrence,omitempty"`
}

type availabilityRequest struct {
	ResourceID string    `json:"resourceId" binding:"required"`
	Start      time.Time `json:"start" binding:"required"`
	End        time.Time `json:"end" binding:"required"`
}

type reasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CreateBooking creates a single or recurring booking. Partial success
// for a recurring series is a 201 with both lists populated.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.Svc.CreateSeries(c.Request.Context(), booking.CreateSeriesRequest{
		ResourceID:  req.ResourceID,
		RequestedBy: actor,
		Start:       req.Start,
		End:         req.End,
		Recurrence:  req.Recurrence,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// CheckAvailability returns the conflict report for a candidate slot.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	report, err := h.Svc.CheckAvailability(c.Request.Context(), req.ResourceID, req.Start, req.End)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"available": !report.HasConflicts(),
		"report":    report,
	})
}

// GetBooking returns a booking by id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetSeries returns all occurrences sharing a series id.
func (h *BookingHandler) GetSeries(c *gin.Context) {
	bookings, err := h.Svc.GetSeries(c.Request.Context(), c.Param("seriesId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ApproveBooking confirms a pending booking after a fresh conflict
// re-check.
func (h *BookingHandler) ApproveBooking(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	approved, err := h.Svc.Approve(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, approved)
}

// RejectBooking declines a pending booking with a reason.
func (h *BookingHandler) RejectBooking(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	rejected, err := h.Svc.Reject(c.Request.Context(), c.Param("id"), actor, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rejected)
}

// CancelBooking releases an active booking's slot.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	cancelled, err := h.Svc.Cancel(c.Request.Context(), c.Param("id"), actor, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}

// respondError maps the engine's typed errors onto HTTP statuses.
func (h *BookingHandler) respondError(c *gin.Context, err error) {
	var (
		intervalErr   *booking.InvalidIntervalError
		ruleErr       *booking.InvalidRecurrenceRuleError
		resourceErr   *booking.ResourceUnavailableError
		conflictErr   *booking.ConflictError
		transitionErr *booking.InvalidTransitionError
	)

	switch {
	case errors.As(err, &intervalErr), errors.As(err, &ruleErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &resourceErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "conflictIds": conflictErr.ConflictIDs})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
	case errors.Is(err, lockRepo.ErrLockNotAcquired):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "resource is busy, retry shortly"})
	default:
		h.Logger.Error("booking request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// requireActor extracts the authenticated actor forwarded by the
// gateway.
func requireActor(c *gin.Context) (string, bool) {
	actor := c.GetHeader("X-Actor-ID")
	if actor == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing X-Actor-ID header"})
		return "", false
	}
	return actor, true
}
