package bootstrap

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rentpay/app/http/middlewares"
	"rentpay/pkg/response"
	"rentpay/resources"
	"rentpay/routes"
)

// SetupRoute 路由初始化
// 1. 注册全局中间件
// 2. 注册表单页面与 API 路由
// 3. 配置 404 处理器
func SetupRoute(router *gin.Engine, deps *routes.Dependencies) {
	router.SetHTMLTemplate(resources.Templates())

	registerGlobalMiddleWare(router)

	routes.RegisterWebRoutes(router, deps)
	routes.RegisterAPIRoutes(router, deps)

	setup404Handler(router)
}

// registerGlobalMiddleWare 注册全局中间件
func registerGlobalMiddleWare(router *gin.Engine) {
	router.Use(
		middlewares.Logger(),   // 记录请求日志
		middlewares.Recovery(), // 在发生 panic 时恢复
	)
}

// setup404Handler 根据 Accept 头返回 HTML 或 JSON 格式的 404
func setup404Handler(router *gin.Engine) {
	router.NoRoute(func(c *gin.Context) {
		if strings.Contains(c.Request.Header.Get("Accept"), "text/html") {
			c.String(http.StatusNotFound, "Page not found")
			return
		}
		response.Abort404(c, "Route not found. Please check the URL and request method.")
	})
}
