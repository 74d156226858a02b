package announcement

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"gymdesk/internal/api"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Publish godoc
// @Summary Publish an announcement and email it to eligible members
// @Tags admin
// @Accept json
// @Produce json
// @Param gymID path int true "Gym ID"
// @Param request body PublishRequest true "Announcement"
// @Success 201 {object} PublishResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /admin/gyms/{gymID}/announcements [post]
func (h *Handler) Publish(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return
	}

	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := h.service.Publish(c.Request.Context(), gymID, req, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to publish announcement"})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary List announcements for a gym
// @Tags admin
// @Produce json
// @Param gymID path int true "Gym ID"
// @Success 200 {array} Announcement
// @Failure 400 {object} api.ErrorResponse
// @Router /admin/gyms/{gymID}/announcements [get]
func (h *Handler) List(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return
	}

	announcements, err := h.service.ListByGym(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch announcements"})
		return
	}

	c.JSON(http.StatusOK, announcements)
}
