package gapi

import (
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// APIError Google API 返回的非 2xx 响应
type APIError struct {
	StatusCode int
	Status     string // 如 PERMISSION_DENIED、RESOURCE_EXHAUSTED
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("google api %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("google api %d: %s", e.StatusCode, e.Message)
}

// errorBody Google API 的标准错误结构
type errorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// CheckResponse 非 2xx 响应转换为 *APIError，2xx 返回 nil
func CheckResponse(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode(), Message: resp.String()}
	var body errorBody
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Error.Message != "" {
		apiErr.Message = body.Error.Message
		apiErr.Status = body.Error.Status
	}
	return apiErr
}
