// Package migrations 数据表迁移
package migrations

import (
	"rentpay/app/models/payment"
)

// RegisterTables 返回需要迁移的表的模型列表
func RegisterTables() []interface{} {
	return []interface{}{
		&payment.Payment{},
	}
}
