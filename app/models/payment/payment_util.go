package payment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Method 付款方式
type Method string

const (
	MethodCash         Method = "cash"          // 现金
	MethodEWallet      Method = "e-wallet"      // 电子钱包
	MethodBankTransfer Method = "bank transfer" // 银行转账
)

// Methods 全部可选的付款方式，顺序即表单中的展示顺序
var Methods = []Method{MethodCash, MethodEWallet, MethodBankTransfer}

// TimestampLayout 写入表格的时间格式
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout 付款日期格式
const DateLayout = "2006-01-02"

var (
	ErrTenantRequired    = errors.New("tenant is required")
	ErrAmountNotPositive = errors.New("amount must be greater than 0")
	ErrInvalidMethod     = errors.New("invalid payment method")
	ErrTimestampMissing  = errors.New("timestamp is required")
	ErrInvalidPaidOn     = errors.New("paid_on must be a YYYY-MM-DD date")
	ErrAmountPrecision   = errors.New("amount may not have more than 2 decimal places")
	ErrAmountTooLarge    = errors.New("amount is too large")
)

// AmountScale 金额保留的小数位数，与数据表 numeric(14,2) 一致
const AmountScale = 2

// MaxAmount 金额上限（不含），numeric(14,2) 可容纳 12 位整数
var MaxAmount = decimal.New(1, 12)

// ParseMethod 解析付款方式，忽略大小写，空格、连字符与下划线视为相同
func ParseMethod(s string) (Method, error) {
	key := methodKey(s)
	for _, candidate := range Methods {
		if methodKey(string(candidate)) == key {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMethod, s)
}

func methodKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), " ")
}

// Valid 是否为可选的付款方式
func (m Method) Valid() bool {
	for _, candidate := range Methods {
		if m == candidate {
			return true
		}
	}
	return false
}

// Label 表单展示名称
func (m Method) Label() string {
	switch m {
	case MethodCash:
		return "Cash"
	case MethodEWallet:
		return "E-Wallet"
	case MethodBankTransfer:
		return "Bank Transfer"
	}
	return string(m)
}

// Validate 验证收款记录
func (p *Payment) Validate() error {
	if strings.TrimSpace(p.Tenant) == "" {
		return ErrTenantRequired
	}
	if err := ValidateAmount(p.Amount); err != nil {
		return err
	}
	if !p.Method.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, p.Method)
	}
	if p.Timestamp.IsZero() {
		return ErrTimestampMissing
	}
	if p.PaidOn != "" {
		if _, err := time.Parse(DateLayout, p.PaidOn); err != nil {
			return ErrInvalidPaidOn
		}
	}
	return nil
}

// ValidateAmount 金额必须为正数，最多两位小数，且不超过 MaxAmount
func ValidateAmount(amount decimal.Decimal) error {
	switch {
	case !amount.IsPositive():
		return ErrAmountNotPositive
	case !amount.Equal(amount.Truncate(AmountScale)):
		return ErrAmountPrecision
	case amount.GreaterThanOrEqual(MaxAmount):
		return ErrAmountTooLarge
	}
	return nil
}

// HasProof 是否附带了凭证
func (p *Payment) HasProof() bool {
	return p.ProofRef != ""
}

// ParseAmountLenient 宽松解析金额，去除货币符号、千分位与空白
// 无法解析时返回 0
func ParseAmountLenient(s string) decimal.Decimal {
	cleaned := strings.NewReplacer("₱", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}
