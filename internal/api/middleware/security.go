package middleware

import "github.com/gin-gonic/gin"

// securityHeaders 所有响应共用的头部；接口只返回 JSON、xlsx 与 ics，不加载任何页面资源
var securityHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Referrer-Policy", "no-referrer"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"Cross-Origin-Resource-Policy", "same-origin"},
	{"Permissions-Policy", "camera=(), microphone=(), geolocation=()"},
}

// SecurityHeaders 安全 HTTP 头中间件
//
// 排班与空班状态随认领实时变化，除 /health 外的响应一律 no-store。
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range securityHeaders {
			c.Header(h[0], h[1])
		}
		if c.Request.URL.Path != "/health" {
			c.Header("Cache-Control", "no-store")
		}
		c.Next()
	}
}
