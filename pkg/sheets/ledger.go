package sheets

import (
	"context"
	"fmt"
	"time"

	"rentpay/app/models/payment"
	"rentpay/pkg/logger"
)

// Ledger 以 Google 表格作为收款账本
type Ledger struct {
	client *Client
	loc    *time.Location
}

// NewLedger 创建表格账本，loc 为写入时间所用的时区
func NewLedger(client *Client, loc *time.Location) *Ledger {
	if loc == nil {
		loc = time.UTC
	}
	return &Ledger{client: client, loc: loc}
}

// Append 追加一条收款记录，一条记录对应一行
func (l *Ledger) Append(ctx context.Context, p *payment.Payment) error {
	if _, err := l.client.AppendRow(ctx, p.Row(l.loc)); err != nil {
		return err
	}
	return nil
}

// List 读取全部收款记录
func (l *Ledger) List(ctx context.Context) ([]payment.Payment, error) {
	values, err := l.client.Values(ctx)
	if err != nil {
		return nil, err
	}
	return payment.FromValues(values, l.loc), nil
}

// Ping 检查表格是否可访问
func (l *Ledger) Ping(ctx context.Context) error {
	return l.client.Ping(ctx)
}

// EnsureHeader 工作表为空时写入表头
func (l *Ledger) EnsureHeader(ctx context.Context) error {
	values, err := l.client.Values(ctx)
	if err != nil {
		return err
	}
	if len(values) > 0 {
		return nil
	}

	header := make([]interface{}, len(payment.Columns))
	for i, col := range payment.Columns {
		header[i] = col
	}
	if _, err := l.client.AppendRow(ctx, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	logger.InfoString("Sheets", "Header", "已写入表头")
	return nil
}
