package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/drostetom1-netizen/slimrooster-horeca/internal/roster"
	"github.com/drostetom1-netizen/slimrooster-horeca/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// handleRosterError 排班核心错误 → HTTP 响应
func handleRosterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, roster.ErrInvalidDate):
		response.BadRequest(c, 21101, "日期无效")
	case errors.Is(err, roster.ErrVenueNotFound):
		response.NotFound(c, 21102, "门店不存在")
	case errors.Is(err, roster.ErrPoolNotFound):
		response.NotFound(c, 21103, "该日尚未生成排班")
	case errors.Is(err, roster.ErrSlotNotFound):
		response.NotFound(c, 21104, "空班不存在")
	case errors.Is(err, roster.ErrAlreadyClaimed):
		response.Conflict(c, 21105, "该空班已被认领")
	case errors.Is(err, roster.ErrDuplicateAssignment):
		response.Conflict(c, 21106, "当日已有排班")
	default:
		response.InternalError(c)
	}
}
