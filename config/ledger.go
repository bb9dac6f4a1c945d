package config

import "rentpay/pkg/config"

func init() {
	config.Add("ledger", func() map[string]interface{} {
		return map[string]interface{}{
			// 账本类型：sheets（Google 表格）、database（数据表）
			"driver": config.Env("LEDGER_DRIVER", "sheets"),

			// Google 表格 ID 与工作表名称
			"spreadsheet_id": config.Env("LEDGER_SPREADSHEET_ID", ""),
			"worksheet":      config.Env("LEDGER_WORKSHEET", "Tracker"),

			// 工作表为空时写入表头
			"ensure_header": config.Env("LEDGER_ENSURE_HEADER", true),

			// 请求超时（秒）与限流，限流格式同路由限流，Sheets 默认配额为每分钟 60 次写入
			"timeout":    config.Env("LEDGER_TIMEOUT", 30),
			"rate_limit": config.Env("LEDGER_RATE_LIMIT", "60-M"),
		}
	})
}
