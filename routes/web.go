package routes

import (
	"github.com/gin-gonic/gin"

	"rentpay/app/http/controllers/api/v1/payments"
	"rentpay/app/http/middlewares"
)

// RegisterWebRoutes 注册表单页面与本地凭证文件
func RegisterWebRoutes(r *gin.Engine, deps *Dependencies) {
	pc := payments.NewPaymentsController(deps.Recorder, deps.Form, deps.Title)

	web := r.Group("/", middlewares.SecurityHeaders())
	web.GET("/", pc.Create)

	if deps.ProofDir != "" {
		web.Static("/proofs", deps.ProofDir)
	}
}
