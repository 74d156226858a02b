package broadcast

import (
	"errors"
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

type BulkStatusRequest struct {
	MemberIDs []int  `json:"member_ids" binding:"required,min=1"`
	Status    string `json:"status" binding:"required,oneof=active expired"`
}

type BulkEmailRequest struct {
	MemberIDs []int  `json:"member_ids" binding:"required,min=1"`
	Subject   string `json:"subject" binding:"required"`
	Body      string `json:"body" binding:"required"`
	EmbedQR   bool   `json:"embed_qr"`
}

// BulkSetStatus godoc
// @Summary Change membership status for a set of members
// @Tags admin
// @Accept json
// @Produce json
// @Param gymID path int true "Gym ID"
// @Param request body BulkStatusRequest true "Status change"
// @Success 200 {object} StatusChangeResult
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /admin/gyms/{gymID}/members/bulk-status [post]
func (h *Handler) BulkSetStatus(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return
	}

	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.service.BulkSetStatus(c.Request.Context(), gymID, req.MemberIDs, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoMatchingMembers):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "No matching members"})
		case errors.Is(err, ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid status"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update members"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// BulkSendEmail godoc
// @Summary Send an email to a set of members
// @Tags admin
// @Accept json
// @Produce json
// @Param gymID path int true "Gym ID"
// @Param request body BulkEmailRequest true "Email content"
// @Success 200 {object} Summary
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /admin/gyms/{gymID}/members/bulk-email [post]
func (h *Handler) BulkSendEmail(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return
	}

	var req BulkEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	summary, err := h.service.BulkSendEmail(c.Request.Context(), gymID, req.MemberIDs,
		req.Subject, req.Body, req.EmbedQR, time.Now())
	if err != nil {
		if errors.Is(err, ErrNoMatchingMembers) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "No matching members"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to send emails"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
