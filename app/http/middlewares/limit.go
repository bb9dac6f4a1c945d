// Package middlewares 存放系统中间件
package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"rentpay/pkg/app"
	"rentpay/pkg/limiter"
	"rentpay/pkg/logger"
	"rentpay/pkg/response"
)

// LimitIP 全局限流中间件，针对 IP 进行限流
//
// 支持的限流格式:
// - 5 reqs/second:   "5-S"
// - 10 reqs/minute:  "10-M"
// - 1000 reqs/hour:  "1000-H"
// - 2000 reqs/day:   "2000-D"
func LimitIP(limit string) gin.HandlerFunc {
	// 测试环境使用较大限制
	if app.IsTesting() {
		limit = "1000000-H"
	}

	return func(c *gin.Context) {
		if ok := limitHandler(c, limiter.GetKeyIP(c), limit); !ok {
			return
		}
		c.Next()
	}
}

// LimitPerRoute 针对单个路由的限流中间件，基于 IP + 路由路径
func LimitPerRoute(limit string) gin.HandlerFunc {
	if app.IsTesting() {
		limit = "1000000-H"
	}

	return func(c *gin.Context) {
		// 针对单个路由，增加访问次数
		c.Set("limiter-once", false)

		if ok := limitHandler(c, limiter.GetKeyRouteWithIP(c), limit); !ok {
			return
		}
		c.Next()
	}
}

func limitHandler(c *gin.Context, key string, limit string) bool {
	rate, err := limiter.CheckRate(c, key, limit)
	if err != nil {
		// 限流存储不可用时放行
		logger.WarnString("限流器", "检查失败", err.Error())
		return true
	}

	// 设置标头信息
	// X-RateLimit-Limit     最大访问次数
	// X-RateLimit-Remaining 剩余的访问次数
	// X-RateLimit-Reset     到该时间点，访问次数会重置为 X-RateLimit-Limit
	c.Header("X-RateLimit-Limit", cast.ToString(rate.Limit))
	c.Header("X-RateLimit-Remaining", cast.ToString(rate.Remaining))
	c.Header("X-RateLimit-Reset", cast.ToString(rate.Reset))

	if rate.Reached {
		response.Abort429(c)
		return false
	}

	return true
}
