package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/drostetom1-netizen/slimrooster-horeca/internal/service"
	"github.com/drostetom1-netizen/slimrooster-horeca/pkg/response"
)

// RosterHandler 排班模块 HTTP 处理器
type RosterHandler struct {
	rosterSvc service.RosterService
}

// NewRosterHandler 创建 RosterHandler
func NewRosterHandler(rosterSvc service.RosterService) *RosterHandler {
	return &RosterHandler{rosterSvc: rosterSvc}
}

// EstimateDemand 估算需求人数
// GET /api/v1/venues/:venue_id/days/:date/demand
func (h *RosterHandler) EstimateDemand(c *gin.Context) {
	result, err := h.rosterSvc.EstimateDemand(c.Request.Context(), c.Param("venue_id"), c.Param("date"))
	if err != nil {
		handleRosterError(c, err)
		return
	}
	response.OK(c, result)
}

// GenerateRoster 生成排班（覆盖该日旧结果）
// POST /api/v1/venues/:venue_id/days/:date/roster
func (h *RosterHandler) GenerateRoster(c *gin.Context) {
	result, err := h.rosterSvc.GenerateRoster(c.Request.Context(), c.Param("venue_id"), c.Param("date"))
	if err != nil {
		handleRosterError(c, err)
		return
	}
	response.Created(c, result)
}

// GetRoster 查看排班与空班
// GET /api/v1/venues/:venue_id/days/:date/roster
func (h *RosterHandler) GetRoster(c *gin.Context) {
	result, err := h.rosterSvc.GetRoster(c.Request.Context(), c.Param("venue_id"), c.Param("date"))
	if err != nil {
		handleRosterError(c, err)
		return
	}
	response.OK(c, result)
}

// ClaimSlot 认领空班（认领人为当前用户）
// POST /api/v1/venues/:venue_id/days/:date/slots/:slot_id/claim
func (h *RosterHandler) ClaimSlot(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.rosterSvc.ClaimSlot(c.Request.Context(), c.Param("venue_id"), c.Param("date"), c.Param("slot_id"), userID)
	if err != nil {
		handleRosterError(c, err)
		return
	}
	response.OK(c, result)
}
