package config

import "rentpay/pkg/config"

func init() {
	config.Add("form", func() map[string]interface{} {
		return map[string]interface{}{
			// 凭证大小上限（MB）与允许的扩展名
			"max_upload_mb": config.Env("FORM_MAX_UPLOAD_MB", 5),
			"extensions":    config.Env("FORM_EXTENSIONS", "png,jpg,jpeg"),

			// 全局限流与提交接口限流
			"global_limit": config.Env("FORM_GLOBAL_LIMIT", "30000-H"),
			"submit_limit": config.Env("FORM_SUBMIT_LIMIT", "20-M"),

			// 幂等键保留时间（分钟）
			"idempotency_ttl": config.Env("FORM_IDEMPOTENCY_TTL", 24*60),
		}
	})
}
