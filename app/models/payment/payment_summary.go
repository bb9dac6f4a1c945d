package payment

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Summary 收款汇总
type Summary struct {
	CollectedThisMonth decimal.Decimal `json:"collected_this_month"`
	CollectedAllTime   decimal.Decimal `json:"collected_all_time"`
	Count              int             `json:"count"`
	Units              []string        `json:"units"`
}

// FilterByUnit 按单元筛选，unit 为空时返回原列表
func FilterByUnit(payments []Payment, unit string) []Payment {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return payments
	}
	filtered := make([]Payment, 0, len(payments))
	for _, p := range payments {
		if strings.TrimSpace(p.Unit) == unit {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// SortByTimestampDesc 按提交时间倒序，时间缺失的排在最后
func SortByTimestampDesc(payments []Payment) {
	sort.SliceStable(payments, func(i, j int) bool {
		a, b := payments[i].Timestamp, payments[j].Timestamp
		if a.IsZero() != b.IsZero() {
			return b.IsZero()
		}
		return a.After(b)
	})
}

// Units 去重后的单元列表，按字母排序
func Units(payments []Payment) []string {
	seen := make(map[string]struct{})
	units := make([]string, 0)
	for _, p := range payments {
		u := strings.TrimSpace(p.Unit)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		units = append(units, u)
	}
	sort.Strings(units)
	return units
}

// Summarize 统计本月（按付款日期，从当月一号到 today）与全部的收款金额
func Summarize(payments []Payment, today time.Time) Summary {
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	s := Summary{
		CollectedThisMonth: decimal.Zero,
		CollectedAllTime:   decimal.Zero,
		Count:              len(payments),
		Units:              Units(payments),
	}
	for _, p := range payments {
		s.CollectedAllTime = s.CollectedAllTime.Add(p.Amount)

		paidOn, err := time.ParseInLocation(DateLayout, p.PaidOn, today.Location())
		if err != nil {
			continue
		}
		if !paidOn.Before(monthStart) && !paidOn.After(todayDate) {
			s.CollectedThisMonth = s.CollectedThisMonth.Add(p.Amount)
		}
	}
	return s
}
