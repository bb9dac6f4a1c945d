// Package dashboard 收款记录查询与导出
package dashboard

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rentpay/app/models/payment"
	"rentpay/pkg/response"
)

// LedgerReader 账本读取
type LedgerReader interface {
	List(ctx context.Context) ([]payment.Payment, error)
}

// DashboardController 管理端控制器
type DashboardController struct {
	ledger LedgerReader
	loc    *time.Location
	now    func() time.Time
}

// NewDashboardController 创建管理端控制器
func NewDashboardController(ledger LedgerReader, loc *time.Location) *DashboardController {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardController{ledger: ledger, loc: loc, now: time.Now}
}

// Payments 收款记录列表，按提交时间倒序
// GET /v1/dashboard/payments?unit=2A
func (dc *DashboardController) Payments(c *gin.Context) {
	payments, ok := dc.load(c)
	if !ok {
		return
	}

	response.Data(c, gin.H{
		"payments": payments,
		"count":    len(payments),
	})
}

// Summary 本月与累计收款
// GET /v1/dashboard/summary?unit=2A
func (dc *DashboardController) Summary(c *gin.Context) {
	all, err := dc.ledger.List(c.Request.Context())
	if err != nil {
		response.BadGateway(c, err, "Could not read the ledger.")
		return
	}

	filtered := payment.FilterByUnit(all, c.Query("unit"))
	summary := payment.Summarize(filtered, dc.now().In(dc.loc))
	// 单元列表始终来自全部记录，供筛选使用
	summary.Units = payment.Units(all)

	response.Data(c, summary)
}

// Export 导出 CSV
// GET /v1/dashboard/export.csv?unit=2A
func (dc *DashboardController) Export(c *gin.Context) {
	payments, ok := dc.load(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("rent_payments_%s.csv", dc.now().In(dc.loc).Format(payment.DateLayout))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	if err := w.Write(payment.Columns); err != nil {
		c.Error(err)
		return
	}
	for i := range payments {
		if err := w.Write(payments[i].StringRow(dc.loc)); err != nil {
			c.Error(err)
			return
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		c.Error(err)
	}
}

// load 读取、筛选并排序
func (dc *DashboardController) load(c *gin.Context) ([]payment.Payment, bool) {
	payments, err := dc.ledger.List(c.Request.Context())
	if err != nil {
		response.BadGateway(c, err, "Could not read the ledger.")
		return nil, false
	}

	payments = payment.FilterByUnit(payments, c.Query("unit"))
	payment.SortByTimestampDesc(payments)
	return payments, true
}
