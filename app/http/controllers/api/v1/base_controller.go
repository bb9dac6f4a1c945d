// Package v1 处理业务逻辑, 控制器 v1 版本
package v1

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// WantsHTML 浏览器表单提交时返回页面，其余返回 JSON
func WantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
