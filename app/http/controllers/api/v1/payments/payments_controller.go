// Package payments 收款表单与提交
package payments

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	v1 "rentpay/app/http/controllers/api/v1"
	"rentpay/app/http/middlewares"
	"rentpay/app/models/payment"
	"rentpay/app/requests"
	"rentpay/pkg/logger"
	"rentpay/pkg/recorder"
	"rentpay/pkg/response"
)

// 提交失败时展示给用户的信息
const (
	MsgRecorded       = "Payment recorded. Thank you!"
	MsgUploadRejected = "We could not upload your receipt. Nothing was recorded; please try again."
	MsgWriteRejected  = "We could not save your payment. Please try again."
	MsgDuplicate      = "This payment was already submitted."
)

// PaymentsController 收款控制器
type PaymentsController struct {
	recorder *recorder.Recorder
	form     requests.FormOptions
	title    string
}

// NewPaymentsController 创建收款控制器
func NewPaymentsController(rec *recorder.Recorder, form requests.FormOptions, title string) *PaymentsController {
	if form.Location == nil {
		form.Location = time.UTC
	}
	if len(form.Extensions) == 0 {
		form.Extensions = requests.DefaultProofExtensions
	}
	if form.MaxUploadBytes <= 0 {
		form.MaxUploadBytes = 5 << 20
	}
	form.DisableProof = !rec.AcceptsProof()
	return &PaymentsController{recorder: rec, form: form, title: title}
}

// methodOption 下拉选项
type methodOption struct {
	Value    string
	Label    string
	Selected bool
}

// formPage 表单页面数据
type formPage struct {
	Title        string
	Action       string
	Old          map[string]string
	Errors       map[string][]string
	Methods      []methodOption
	AcceptsProof bool
	Extensions   []string
	MaxUpload    string
}

// resultPage 提交结果页面数据
type resultPage struct {
	Title   string
	Success bool
	Message string
	Payment *payment.Payment
}

// Create 显示收款表单
func (pc *PaymentsController) Create(c *gin.Context) {
	old := map[string]string{
		"paid_on": time.Now().In(pc.form.Location).Format(payment.DateLayout),
		"method":  string(payment.MethodCash),
	}
	c.HTML(http.StatusOK, "form.html", pc.formPage(old, nil))
}

// Store 记录一次收款
func (pc *PaymentsController) Store(c *gin.Context) {
	// 1. 表单验证，失败时不发起任何外部调用
	form, err := requests.ValidatePaymentForm(c, pc.form)
	if err != nil {
		var verr requests.ValidationError
		if !errors.As(err, &verr) {
			response.BadRequest(c, err)
			return
		}
		if v1.WantsHTML(c) {
			c.HTML(http.StatusUnprocessableEntity, "form.html", pc.formPage(oldInput(c), verr.Errors))
			c.Abort()
			return
		}
		response.ValidationError(c, verr.Errors)
		return
	}

	// 2. 上传凭证并写入账本
	p, err := pc.recorder.Submit(c.Request.Context(), form.Submission())
	if err != nil {
		pc.fail(c, err)
		return
	}

	c.Set(middlewares.CtxRecordID, p.ID)
	if v1.WantsHTML(c) {
		c.HTML(http.StatusCreated, "result.html", resultPage{
			Title:   pc.title,
			Success: true,
			Message: MsgRecorded,
			Payment: p,
		})
		return
	}
	response.Created(c, p, MsgRecorded)
}

// Duplicate 重复提交时的响应
func (pc *PaymentsController) Duplicate(c *gin.Context) {
	if v1.WantsHTML(c) {
		c.HTML(http.StatusConflict, "result.html", resultPage{Title: pc.title, Message: MsgDuplicate})
		return
	}
	c.JSON(http.StatusConflict, response.Response{
		Status:  response.Error,
		Message: MsgDuplicate,
		Data:    gin.H{"id": c.GetString(middlewares.CtxDuplicateOf)},
	})
}

// fail 按失败阶段返回对应信息，每个失败路径都有用户可见的提示
func (pc *PaymentsController) fail(c *gin.Context, err error) {
	status, msg := http.StatusBadGateway, MsgWriteRejected
	switch {
	case errors.Is(err, recorder.ErrInvalid):
		status, msg = http.StatusUnprocessableEntity, "Please correct the highlighted fields."
	case errors.Is(err, recorder.ErrUploadRejected):
		msg = MsgUploadRejected
	case errors.Is(err, recorder.ErrWriteRejected):
		msg = MsgWriteRejected
	}

	logger.WarnString("Payments", "Store", fmt.Sprintf("提交失败 状态:%d 错误:%v", status, err))

	if v1.WantsHTML(c) {
		c.HTML(status, "result.html", resultPage{Title: pc.title, Message: msg})
		c.Abort()
		return
	}
	if status == http.StatusUnprocessableEntity {
		response.ValidationError(c, map[string][]string{"_form": {err.Error()}})
		return
	}
	response.BadGateway(c, err, msg)
}

func (pc *PaymentsController) formPage(old map[string]string, errs map[string][]string) formPage {
	methods := make([]methodOption, 0, len(payment.Methods))
	for _, m := range payment.Methods {
		methods = append(methods, methodOption{
			Value:    string(m),
			Label:    m.Label(),
			Selected: old["method"] == string(m),
		})
	}

	return formPage{
		Title:        pc.title,
		Action:       "/v1/payments?" + middlewares.IdempotencyQuery + "=" + uuid.NewString(),
		Old:          old,
		Errors:       errs,
		Methods:      methods,
		AcceptsProof: pc.recorder.AcceptsProof(),
		Extensions:   pc.form.Extensions,
		MaxUpload:    fmt.Sprintf("%d MB", pc.form.MaxUploadBytes>>20),
	}
}

// oldInput 重新显示表单时保留用户输入
func oldInput(c *gin.Context) map[string]string {
	old := make(map[string]string)
	for _, field := range []string{"tenant", "unit", "amount", "method", "paid_on", "notes"} {
		old[field] = c.Request.PostFormValue(field)
	}
	if m, err := payment.ParseMethod(old["method"]); err == nil {
		old["method"] = string(m)
	}
	return old
}
