package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/drostetom1-netizen/slimrooster-horeca/internal/dto"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/service"
	"github.com/drostetom1-netizen/slimrooster-horeca/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRoster 导出排班为 Excel
// GET /api/v1/venues/:venue_id/days/:date/export
func (h *ExportHandler) ExportRoster(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportRoster(c.Request.Context(), c.Param("venue_id"), c.Param("date"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	sendAttachment(c, buf, filename, contentTypeXLSX)
}

// ExportShiftsICS 导出当前用户班次日历
// GET /api/v1/availability/shifts.ics?from=2026-10-01&to=2026-10-31
func (h *ExportHandler) ExportShiftsICS(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ShiftFeedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "from / to 参数无效")
		return
	}

	buf, filename, err := h.exportSvc.ExportShiftsICS(c.Request.Context(), userID, req.From, req.To)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	sendAttachment(c, buf, filename, contentTypeICS)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportInvalidRange):
		response.BadRequest(c, 23101, "导出日期范围无效")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		handleRosterError(c, err)
	}
}

// sendAttachment 设置下载响应头并写出文件内容
func sendAttachment(c *gin.Context, buf *bytes.Buffer, filename, contentType string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
