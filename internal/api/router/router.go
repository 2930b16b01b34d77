package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/drostetom1-netizen/slimrooster-horeca/config"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/api/handler"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/api/middleware"
	"github.com/drostetom1-netizen/slimrooster-horeca/pkg/jwt"
	"github.com/drostetom1-netizen/slimrooster-horeca/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1（全部需要认证） ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		// 门店 / 日期维度
		day := v1.Group("/venues/:venue_id/days/:date")
		day.Use(middleware.VenueScope())
		{
			day.GET("/demand", middleware.RoleAuth(jwt.RoleAdmin, jwt.RoleManager), h.Roster.EstimateDemand)
			day.POST("/roster", middleware.RoleAuth(jwt.RoleAdmin, jwt.RoleManager), h.Roster.GenerateRoster)
			day.GET("/roster", h.Roster.GetRoster)
			day.POST("/slots/:slot_id/claim",
				middleware.RoleAuth(jwt.RoleEmployee, jwt.RoleManager),
				middleware.RateLimit(rdb, cfg.Server.RateLimit.ClaimLimit, cfg.Server.RateLimit.ClaimWindow),
				h.Roster.ClaimSlot,
			)
			day.GET("/export", middleware.RoleAuth(jwt.RoleAdmin, jwt.RoleManager), h.Export.ExportRoster)
		}

		// 可用性（仅本人）
		availability := v1.Group("/availability")
		{
			availability.GET("", h.Availability.GetAvailability)
			availability.PUT("", h.Availability.SetAvailability)
			availability.POST("/import", h.Availability.ImportICS)
			availability.GET("/shifts.ics", h.Export.ExportShiftsICS)
		}
	}

	return r
}
