package member

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/api"

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

func gymIDParam(c *gin.Context) (int, bool) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return 0, false
	}
	return gymID, true
}

func memberIDParam(c *gin.Context) (int, bool) {
	memberID, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member ID"})
		return 0, false
	}
	return memberID, true
}

// @Summary      Register a member
// @Description  Admin-only: register a new member on a plan
// @Tags         admin,members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        request body member.RegisterRequest true "Member payload"
// @Success      201 {object} member.Member
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/gyms/{gymID}/members [post]
func (h *Handler) Register(c *gin.Context) {
	gymID, ok := gymIDParam(c)
	if !ok {
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	m, err := h.service.Register(c.Request.Context(), gymID, req, time.Now())
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Plan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to register member"})
		return
	}

	c.JSON(http.StatusCreated, m)
}

// @Summary      List members with effective status
// @Description  With ?code= set, looks a single member up by member code instead.
// @Tags         admin,members
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        code query string false "Member code lookup"
// @Success      200 {array} member.MemberWithStatus
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/gyms/{gymID}/members [get]
func (h *Handler) ListMembers(c *gin.Context) {
	gymID, ok := gymIDParam(c)
	if !ok {
		return
	}

	if code := c.Query("code"); code != "" {
		m, err := h.service.GetByCode(c.Request.Context(), gymID, code)
		if err != nil {
			if errors.Is(err, ErrMemberNotFound) {
				c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch member"})
			return
		}
		c.JSON(http.StatusOK, []MemberWithStatus{{
			Member:          *m,
			EffectiveStatus: m.EffectiveStatus(time.Now()),
		}})
		return
	}

	members, err := h.service.ListWithStatus(c.Request.Context(), gymID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch members"})
		return
	}

	c.JSON(http.StatusOK, members)
}

// @Summary      Get a member
// @Tags         admin,members
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        memberID path int true "Member ID"
// @Success      200 {object} member.MemberWithStatus
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/gyms/{gymID}/members/{memberID} [get]
func (h *Handler) GetMember(c *gin.Context) {
	gymID, ok := gymIDParam(c)
	if !ok {
		return
	}
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}

	m, err := h.service.GetByID(c.Request.Context(), gymID, memberID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch member"})
		return
	}

	c.JSON(http.StatusOK, MemberWithStatus{
		Member:          *m,
		EffectiveStatus: m.EffectiveStatus(time.Now()),
	})
}

// @Summary      Change a member's plan
// @Description  Recomputes the expiry date from the original join date
// @Tags         admin,members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        memberID path int true "Member ID"
// @Param        request body member.ChangePlanRequest true "Plan payload"
// @Success      200 {object} member.Member
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/gyms/{gymID}/members/{memberID}/plan [put]
func (h *Handler) ChangePlan(c *gin.Context) {
	gymID, ok := gymIDParam(c)
	if !ok {
		return
	}
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}

	var req ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	m, err := h.service.ChangePlan(c.Request.Context(), gymID, memberID, req.PlanID)
	if err != nil {
		switch {
		case errors.Is(err, ErrMemberNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found"})
		case errors.Is(err, ErrPlanNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Plan not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to change plan"})
		}
		return
	}

	c.JSON(http.StatusOK, m)
}

// @Summary      Override a member's stored status
// @Tags         admin,members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        memberID path int true "Member ID"
// @Param        request body member.SetStatusRequest true "Status payload"
// @Success      200 {object} member.Member
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/gyms/{gymID}/members/{memberID}/status [put]
func (h *Handler) SetStatus(c *gin.Context) {
	gymID, ok := gymIDParam(c)
	if !ok {
		return
	}
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	m, err := h.service.SetStatus(c.Request.Context(), gymID, memberID, req.Status)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update status"})
		return
	}

	c.JSON(http.StatusOK, m)
}

// @Summary      Renew a membership
// @Description  Allowed when expired, expiring soon, or expiring today
// @Tags         admin,members
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        memberID path int true "Member ID"
// @Success      200 {object} member.Member
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/gyms/{gymID}/members/{memberID}/renew [post]
func (h *Handler) Renew(c *gin.Context) {
	gymID, ok := gymIDParam(c)
	if !ok {
		return
	}
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}

	m, err := h.service.Renew(c.Request.Context(), gymID, memberID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, ErrMemberNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found"})
		case errors.Is(err, ErrRenewalNotAllowed):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Membership is not due for renewal"})
		case errors.Is(err, ErrPlanNotFound):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Member has no plan to renew"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to renew membership"})
		}
		return
	}

	c.JSON(http.StatusOK, m)
}

// @Summary      Delete a member
// @Description  Removes the member and all of their check-in history
// @Tags         admin,members
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        memberID path int true "Member ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/gyms/{gymID}/members/{memberID} [delete]
func (h *Handler) DeleteMember(c *gin.Context) {
	gymID, ok := gymIDParam(c)
	if !ok {
		return
	}
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), gymID, memberID); err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete member"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Member deleted"})
}
