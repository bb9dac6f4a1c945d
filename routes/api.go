package routes

import (
	"github.com/gin-gonic/gin"

	"rentpay/app/http/controllers/api/v1/dashboard"
	"rentpay/app/http/controllers/api/v1/payments"
	"rentpay/app/http/middlewares"
)

// 路由限流默认值
const (
	// 全局限流：每小时每IP 30000 请求
	GlobalRateLimit = "30000-H"
	// 提交收款限流：每分钟每IP 20 请求
	SubmitRateLimit = "20-M"
)

// RegisterAPIRoutes 注册所有 API 路由
func RegisterAPIRoutes(r *gin.Engine, deps *Dependencies) {
	v1 := r.Group("/v1")

	v1.Use(
		middlewares.SecurityHeaders(),
		middlewares.LimitIP(orDefault(deps.GlobalLimit, GlobalRateLimit)),
		middlewares.Cors(),
	)

	pc := payments.NewPaymentsController(deps.Recorder, deps.Form, deps.Title)

	// POST /v1/payments
	// 同一个幂等键只记录一次
	v1.POST("/payments",
		middlewares.LimitPerRoute(orDefault(deps.SubmitLimit, SubmitRateLimit)),
		middlewares.Idempotency(deps.IdempotencyTTL, pc.Duplicate),
		pc.Store,
	)

	if deps.DashboardPassword != "" && deps.Ledger != nil {
		dc := dashboard.NewDashboardController(deps.Ledger, deps.Location)

		dashboardRoutes := v1.Group("/dashboard", gin.BasicAuth(gin.Accounts{
			"admin": deps.DashboardPassword,
		}))
		{
			dashboardRoutes.GET("/payments", dc.Payments)
			dashboardRoutes.GET("/summary", dc.Summary)
			dashboardRoutes.GET("/export.csv", dc.Export)
		}
	}

	if deps.Health != nil {
		r.GET("/health", deps.Health.Show)
		r.GET("/health/live", deps.Health.Live)
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
