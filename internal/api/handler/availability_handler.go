package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/drostetom1-netizen/slimrooster-horeca/internal/api/middleware"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/dto"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/roster"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/service"
	"github.com/drostetom1-netizen/slimrooster-horeca/pkg/response"
)

// AvailabilityHandler 可用性模块 HTTP 处理器（仅操作当前用户自己的数据）
type AvailabilityHandler struct {
	availabilitySvc service.AvailabilityService
}

// NewAvailabilityHandler 创建 AvailabilityHandler
func NewAvailabilityHandler(availabilitySvc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilitySvc: availabilitySvc}
}

// SetAvailability 整体替换可用日期
// PUT /api/v1/availability
func (h *AvailabilityHandler) SetAvailability(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if middleware.IsBodyTooLarge(err) {
			_ = c.Error(err)
			return
		}
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.availabilitySvc.SetAvailability(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}
	response.OK(c, result)
}

// GetAvailability 查询可用日期
// GET /api/v1/availability
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.availabilitySvc.GetAvailability(c.Request.Context(), userID)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}
	response.OK(c, result)
}

// ImportICS 从 ICS 文件导入可用日期（multipart 字段 file）
// POST /api/v1/availability/import
func (h *AvailabilityHandler) ImportICS(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			_ = c.Error(err)
			return
		}
		response.BadRequest(c, 22001, "缺少 ICS 文件")
		return
	}
	file, err := fh.Open()
	if err != nil {
		response.BadRequest(c, 22001, "无法读取 ICS 文件")
		return
	}
	defer file.Close()

	result, err := h.availabilitySvc.ImportICS(c.Request.Context(), userID, file)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *AvailabilityHandler) handleAvailabilityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, roster.ErrInvalidDate):
		response.BadRequest(c, 22101, "日期无效")
	case errors.Is(err, service.ErrICSInvalid):
		response.BadRequest(c, 22102, "ICS 文件无效")
	case errors.Is(err, service.ErrICSEmpty):
		response.BadRequest(c, 22103, "ICS 文件中无可用日期")
	default:
		response.InternalError(c)
	}
}
