// Package requests 处理请求数据和表单验证
package requests

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/thedevsaddam/govalidator"
)

// ValidationError 自定义验证错误
type ValidationError struct {
	Errors url.Values
}

// Error 实现 error 接口
func (v ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", v.Errors)
}

// Add 追加一个字段错误
func (v *ValidationError) Add(field, msg string) {
	if v.Errors == nil {
		v.Errors = url.Values{}
	}
	v.Errors.Add(field, msg)
}

// Empty 是否没有任何错误
func (v ValidationError) Empty() bool {
	return len(v.Errors) == 0
}

// ValidateForm 验证表单请求（urlencoded 或 multipart），返回字段错误
// maxMemory 为 multipart 解析时保存在内存中的最大字节数
func ValidateForm(c *gin.Context, maxMemory int64, rules govalidator.MapData, messages govalidator.MapData) url.Values {
	// 先解析表单，govalidator 从 Request.Form 取值
	if err := c.Request.ParseMultipartForm(maxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return url.Values{"_form": []string{"The form could not be read."}}
	}

	opts := govalidator.Options{
		Request:         c.Request,
		Rules:           rules,
		Messages:        messages,
		RequiredDefault: false,
	}
	return govalidator.New(opts).Validate()
}
