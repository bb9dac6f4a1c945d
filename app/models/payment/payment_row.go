package payment

import (
	"strings"
	"time"
)

// 表格列，前五列顺序固定，其余为补充列
const (
	ColTenant    = "Full Name"
	ColAmount    = "Amount"
	ColMethod    = "Mode"
	ColTimestamp = "Timestamp"
	ColProof     = "Proof URL"
	ColUnit      = "Unit Number"
	ColPaidOn    = "Date"
	ColNotes     = "Notes"
)

// Columns 表头，与 Row 的输出顺序一致
var Columns = []string{ColTenant, ColAmount, ColMethod, ColTimestamp, ColProof, ColUnit, ColPaidOn, ColNotes}

// columnFallbacks 表头名称被手工修改过时的备选名称（小写比较）
var columnFallbacks = map[string][]string{
	ColTenant:    {"full name", "name", "tenant name", "tenant"},
	ColAmount:    {"amount", "amount paid", "amount (₱)"},
	ColMethod:    {"mode", "payment mode", "method", "payment method"},
	ColTimestamp: {"timestamp", "submitted timestamp", "time"},
	ColProof:     {"proof", "proof url", "receipt", "receipt link", "proof reference"},
	ColUnit:      {"unit", "unit number", "unit_no"},
	ColPaidOn:    {"date", "payment date", "date of payment", "paid on"},
	ColNotes:     {"notes", "remarks"},
}

// Row 按固定列顺序输出一行：租户、金额、方式、时间、凭证，然后是单元、付款日期、备注
// 时间按 loc 时区格式化
func (p *Payment) Row(loc *time.Location) []interface{} {
	if loc == nil {
		loc = time.UTC
	}
	return []interface{}{
		TextCell(p.Tenant),
		p.Amount.String(),
		string(p.Method),
		p.Timestamp.In(loc).Format(TimestampLayout),
		p.ProofRef,
		TextCell(p.Unit),
		p.PaidOn,
		TextCell(p.Notes),
	}
}

// TextCell 用户输入的文本单元格，以公式字符开头时加单引号前缀，
// 表格与 CSV 打开时都按纯文本显示
func TextCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// StringRow 同 Row，全部转为字符串，用于 CSV 导出
func (p *Payment) StringRow(loc *time.Location) []string {
	values := p.Row(loc)
	out := make([]string, len(values))
	for i, v := range values {
		out[i], _ = v.(string)
	}
	return out
}

// FromValues 将表格数据（首行为表头）转换为收款记录
// 金额宽松解析，无法解析的时间保留零值
func FromValues(values [][]string, loc *time.Location) []Payment {
	if len(values) < 2 {
		return []Payment{}
	}
	if loc == nil {
		loc = time.UTC
	}

	index := resolveColumns(values[0])
	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	payments := make([]Payment, 0, len(values)-1)
	for _, row := range values[1:] {
		if isBlankRow(row) {
			continue
		}
		p := Payment{
			Tenant:   cell(row, ColTenant),
			Amount:   ParseAmountLenient(cell(row, ColAmount)),
			ProofRef: cell(row, ColProof),
			Unit:     cell(row, ColUnit),
			PaidOn:   cell(row, ColPaidOn),
			Notes:    cell(row, ColNotes),
		}
		if m, err := ParseMethod(cell(row, ColMethod)); err == nil {
			p.Method = m
		} else {
			p.Method = Method(cell(row, ColMethod))
		}
		if ts, err := time.ParseInLocation(TimestampLayout, cell(row, ColTimestamp), loc); err == nil {
			p.Timestamp = ts
		}
		payments = append(payments, p)
	}
	return payments
}

// resolveColumns 表头名称到列下标，先精确匹配，再按备选名称匹配
func resolveColumns(headers []string) map[string]int {
	exact := make(map[string]int, len(headers))
	lower := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if _, ok := exact[h]; !ok {
			exact[h] = i
		}
		if _, ok := lower[strings.ToLower(h)]; !ok {
			lower[strings.ToLower(h)] = i
		}
	}

	index := make(map[string]int, len(Columns))
	for _, col := range Columns {
		if i, ok := exact[col]; ok {
			index[col] = i
			continue
		}
		for _, fallback := range columnFallbacks[col] {
			if i, ok := lower[fallback]; ok {
				index[col] = i
				break
			}
		}
	}
	return index
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
