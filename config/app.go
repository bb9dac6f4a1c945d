// Package config 站点配置信息
package config

import "rentpay/pkg/config"

func init() {
	config.Add("app", func() map[string]interface{} {
		return map[string]interface{}{

			// 应用名称，同时作为 Redis 键前缀
			"name": config.Env("APP_NAME", "rentpay"),

			// 表单页面标题
			"title": config.Env("APP_TITLE", "Rent Payment Form"),

			// 当前环境，用以区分多环境，一般为 local, stage, production, testing
			"env": config.Env("APP_ENV", "production"),

			// 是否进入调试模式
			"debug": config.Env("APP_DEBUG", false),

			// 应用服务端口
			"port": config.Env("APP_PORT", "3000"),

			// 对外访问地址，本地凭证链接使用
			"url": config.Env("APP_URL", "http://localhost:3000"),

			// 设置时区，记录时间与付款日期默认值使用
			"timezone": config.Env("TIMEZONE", "Asia/Manila"),
		}
	})
}
