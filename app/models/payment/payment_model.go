// Package payment 租金收款记录模型
package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment 一次租金收款记录，创建后不可修改
type Payment struct {
	ID        string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Tenant    string          `gorm:"type:varchar(255);index" json:"tenant"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2)" json:"amount"`
	Method    Method          `gorm:"type:varchar(20)" json:"method"`
	Timestamp time.Time       `gorm:"column:recorded_at;index" json:"timestamp"` // 提交时间，由服务端生成
	ProofRef  string          `gorm:"type:text" json:"proof_ref"`
	Unit      string          `gorm:"type:varchar(64);index" json:"unit"`
	PaidOn    string          `gorm:"type:varchar(10);index" json:"paid_on"` // YYYY-MM-DD
	Notes     string          `gorm:"type:text" json:"notes"`
}

// TableName 指定表名
func (Payment) TableName() string {
	return "rent_payments"
}
