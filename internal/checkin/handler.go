package checkin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/api"
	"gymdesk/internal/metrics"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      Kiosk check-in
// @Description  Records a check-in for a member code at a gym
// @Tags         kiosk
// @Accept       json
// @Produce      json
// @Param        gymID path int true "Gym ID"
// @Param        request body checkin.CheckInRequest true "Check-in payload"
// @Success      201 {object} checkin.CheckInResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /kiosk/gyms/{gymID}/checkin [post]
func (h *Handler) CheckIn(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return
	}

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := h.service.CheckIn(c.Request.Context(), gymID, req.MemberCode, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, ErrMemberNotFound):
			metrics.RecordCheckIn("not_found")
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found"})
		case errors.Is(err, ErrMembershipExpired):
			metrics.RecordCheckIn("expired")
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Membership expired - see reception"})
		case errors.Is(err, ErrAlreadyCheckedIn):
			metrics.RecordCheckIn("already_checked_in")
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Already checked in"})
		case errors.Is(err, ErrGymNotConfigured):
			metrics.RecordCheckIn("config_error")
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Gym is not configured"})
		default:
			metrics.RecordCheckIn("error")
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to record check-in"})
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary      Current occupancy
// @Tags         kiosk
// @Produce      json
// @Param        gymID path int true "Gym ID"
// @Success      200 {object} checkin.Occupancy
// @Failure      404 {object} api.ErrorResponse
// @Router       /kiosk/gyms/{gymID}/occupancy [get]
func (h *Handler) Occupancy(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return
	}

	occupancy, err := h.service.CurrentOccupancy(c.Request.Context(), gymID, time.Now())
	if err != nil {
		if errors.Is(err, ErrGymNotConfigured) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to read occupancy"})
		return
	}

	c.JSON(http.StatusOK, occupancy)
}

// @Summary      Recent check-ins for a gym
// @Tags         admin,checkins
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        limit query int false "Max rows (default 50)"
// @Success      200 {array} checkin.SessionWithMember
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/gyms/{gymID}/checkins [get]
func (h *Handler) RecentSessions(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	sessions, err := h.service.RecentSessions(c.Request.Context(), gymID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch check-ins"})
		return
	}

	c.JSON(http.StatusOK, sessions)
}
