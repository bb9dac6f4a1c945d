package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"rentpay/pkg/logger"
)

// Logger 记录请求日志
// 请求体可能包含上传的凭证，只记录元信息
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		cost := time.Since(start)

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.Int64("request-size", c.Request.ContentLength),
			zap.Int("response-size", c.Writer.Size()),
			zap.String("time", cost.String()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()))
		}

		switch {
		case status >= 500:
			logger.Error("HTTP Server Error "+cast.ToString(status), fields...)
		case status >= 400:
			logger.Warn("HTTP Client Error "+cast.ToString(status), fields...)
		default:
			logger.Debug("HTTP Access Log", fields...)
		}
	}
}
