// Package response 提供统一的 HTTP 响应处理
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentpay/pkg/logger"
)

// 预定义响应状态
const (
	Success = "success" // 成功状态
	Error   = "error"   // 错误状态
)

/* 标准响应结构
{
    "status": "success",
    "data": {},     // 成功时返回的数据
    "error": "",    // 错误时返回的信息
    "message": "",  // 提示信息
}
*/

// Response 统一响应结构体
type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ------------------ 成功响应系列 ------------------

// Data 响应 200 和数据
func Data(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Status: Success,
		Data:   data,
	})
}

// Created 成功创建的响应
func Created(c *gin.Context, data interface{}, msg ...string) {
	c.JSON(http.StatusCreated, Response{
		Status:  Success,
		Message: getMsg("Created.", msg...),
		Data:    data,
	})
}

// ------------------ 错误响应系列 ------------------

// Abort404 响应 404 错误
func Abort404(c *gin.Context, msg ...string) {
	abort(c, http.StatusNotFound, getMsg("Resource not found.", msg...))
}

// Abort409 响应 409 错误，重复提交
func Abort409(c *gin.Context, msg ...string) {
	abort(c, http.StatusConflict, getMsg("This request was already submitted.", msg...))
}

// Abort429 响应 429 错误，请求过于频繁
func Abort429(c *gin.Context, msg ...string) {
	abort(c, http.StatusTooManyRequests, getMsg("Too many requests, please try again later.", msg...))
}

// Abort500 响应 500 错误
func Abort500(c *gin.Context, msg ...string) {
	abort(c, http.StatusInternalServerError, getMsg("Internal server error.", msg...))
}

// BadRequest 响应 400 错误（带错误信息）
func BadRequest(c *gin.Context, err error, msg ...string) {
	logger.LogIf(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, Response{
		Status:  Error,
		Message: getMsg("Malformed request.", msg...),
		Error:   err.Error(),
	})
}

// BadGateway 响应 502 错误，外部服务（表格、文件存储）拒绝了请求
func BadGateway(c *gin.Context, err error, msg ...string) {
	logger.LogIf(err)
	c.AbortWithStatusJSON(http.StatusBadGateway, Response{
		Status:  Error,
		Message: getMsg("An upstream service rejected the request.", msg...),
		Error:   err.Error(),
	})
}

// ValidationError 响应 422 表单验证错误
func ValidationError(c *gin.Context, errors map[string][]string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, Response{
		Status:  Error,
		Message: "Please correct the highlighted fields.",
		Data:    errors,
	})
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Response{
		Status:  Error,
		Message: msg,
	})
}

// getMsg 获取消息内容
func getMsg(defaultMsg string, msg ...string) string {
	if len(msg) > 0 {
		return msg[0]
	}
	return defaultMsg
}
