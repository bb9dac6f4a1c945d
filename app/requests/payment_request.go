package requests

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/thedevsaddam/govalidator"

	"rentpay/app/models/payment"
	"rentpay/pkg/recorder"
)

// DefaultProofExtensions 允许上传的凭证类型
var DefaultProofExtensions = []string{"png", "jpg", "jpeg"}

// FormOptions 收款表单的限制条件
type FormOptions struct {
	MaxUploadBytes int64
	Extensions     []string
	Location       *time.Location // 付款日期为空时按此时区取今天
	DisableProof   bool           // 未配置凭证存储
}

// PaymentForm 收款表单
type PaymentForm struct {
	Tenant string
	Amount decimal.Decimal
	Method payment.Method
	PaidOn string
	Unit   string
	Notes  string
	Proof  *recorder.Attachment
}

// Submission 转换为提交处理器的输入
func (f *PaymentForm) Submission() recorder.Submission {
	return recorder.Submission{
		Tenant: f.Tenant,
		Amount: f.Amount,
		Method: f.Method,
		PaidOn: f.PaidOn,
		Unit:   f.Unit,
		Notes:  f.Notes,
		Proof:  f.Proof,
	}
}

// ValidatePaymentForm 校验收款表单，失败时返回 ValidationError
// 校验在任何外部调用之前完成
func ValidatePaymentForm(c *gin.Context, opts FormOptions) (*PaymentForm, error) {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 5 << 20
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultProofExtensions
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	// 请求体整体限制在凭证上限加 1MB 表单字段
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, opts.MaxUploadBytes+1<<20)

	rules := govalidator.MapData{
		"tenant": []string{"required", "max:255"},
		"amount": []string{"required", "regex:^[0-9]+(\\.[0-9]+)?$"},
		"method": []string{"required"},
		"unit":   []string{"max:64"},
		"notes":  []string{"max:1000"},
	}
	messages := govalidator.MapData{
		"tenant": []string{
			"required:Tenant name is required.",
			"max:Tenant name may not exceed 255 characters.",
		},
		"amount": []string{
			"required:Amount is required.",
			"regex:Amount must be a number.",
		},
		"method": []string{
			"required:Payment method is required.",
		},
		"unit": []string{
			"max:Unit may not exceed 64 characters.",
		},
		"notes": []string{
			"max:Notes may not exceed 1000 characters.",
		},
	}

	// 仅在上传了文件时校验文件规则
	hasProof := false
	if err := c.Request.ParseMultipartForm(opts.MaxUploadBytes); err == nil && c.Request.MultipartForm != nil {
		if files := c.Request.MultipartForm.File["proof"]; len(files) > 0 && files[0].Filename != "" {
			hasProof = true
			rules["file:proof"] = []string{
				"ext:" + strings.Join(extensionVariants(opts.Extensions), ","),
				fmt.Sprintf("size:%d", opts.MaxUploadBytes),
			}
			messages["file:proof"] = []string{
				"ext:Receipt must be one of: " + strings.Join(opts.Extensions, ", ") + ".",
				fmt.Sprintf("size:Receipt may not be larger than %s.", humanBytes(opts.MaxUploadBytes)),
			}
		}
	}

	verr := ValidationError{Errors: ValidateForm(c, opts.MaxUploadBytes, rules, messages)}
	if hasProof && opts.DisableProof {
		verr.Add("proof", "Receipt uploads are not enabled.")
	}

	form := &PaymentForm{
		Tenant: strings.TrimSpace(c.Request.PostFormValue("tenant")),
		Unit:   strings.TrimSpace(c.Request.PostFormValue("unit")),
		Notes:  strings.TrimSpace(c.Request.PostFormValue("notes")),
	}

	if form.Tenant == "" && len(verr.Errors["tenant"]) == 0 {
		verr.Add("tenant", "Tenant name is required.")
	}

	if len(verr.Errors["amount"]) == 0 {
		amount, err := decimal.NewFromString(strings.TrimSpace(c.Request.PostFormValue("amount")))
		if err != nil {
			verr.Add("amount", "Amount must be a number.")
		} else {
			switch payment.ValidateAmount(amount) {
			case nil:
				form.Amount = amount
			case payment.ErrAmountPrecision:
				verr.Add("amount", "Amount may not have more than 2 decimal places.")
			case payment.ErrAmountTooLarge:
				verr.Add("amount", "Amount is too large.")
			default:
				verr.Add("amount", "Amount must be greater than 0.")
			}
		}
	}

	if len(verr.Errors["method"]) == 0 {
		method, err := payment.ParseMethod(c.Request.PostFormValue("method"))
		if err != nil {
			verr.Add("method", "Payment method must be one of: cash, e-wallet, bank transfer.")
		}
		form.Method = method
	}

	paidOn := strings.TrimSpace(c.Request.PostFormValue("paid_on"))
	if paidOn == "" {
		paidOn = time.Now().In(opts.Location).Format(payment.DateLayout)
	} else if _, err := time.Parse(payment.DateLayout, paidOn); err != nil {
		verr.Add("paid_on", "Date must be in YYYY-MM-DD format.")
	}
	form.PaidOn = paidOn

	if hasProof && len(verr.Errors["file:proof"]) == 0 && len(verr.Errors["proof"]) == 0 {
		proof, err := readProof(c, opts.MaxUploadBytes)
		if err != nil {
			verr.Add("proof", err.Error())
		}
		form.Proof = proof
	}

	if !verr.Empty() {
		return nil, verr
	}
	return form, nil
}

var (
	errReceiptUnreadable = errors.New("The receipt could not be read.")
	errReceiptEmpty      = errors.New("The receipt is empty.")
)

// readProof 读取凭证文件内容，超过上限视为错误
func readProof(c *gin.Context, limit int64) (*recorder.Attachment, error) {
	fh, err := c.FormFile("proof")
	if err != nil {
		return nil, errReceiptUnreadable
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errReceiptUnreadable
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, errReceiptUnreadable
	}
	if int64(len(content)) > limit {
		return nil, fmt.Errorf("Receipt may not be larger than %s.", humanBytes(limit))
	}
	if len(content) == 0 {
		return nil, errReceiptEmpty
	}

	return &recorder.Attachment{
		Name:        filepath.Base(fh.Filename),
		ContentType: http.DetectContentType(content),
		Content:     content,
	}, nil
}

// extensionVariants 扩展名比较区分大小写，同时允许小写与大写写法
func extensionVariants(exts []string) []string {
	out := make([]string, 0, len(exts)*2)
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		out = append(out, ext, strings.ToUpper(ext))
	}
	return out
}

func humanBytes(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%d MB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%d KB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}
