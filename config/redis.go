package config

import (
	"rentpay/pkg/config"
)

func init() {
	config.Add("redis", func() map[string]interface{} {
		return map[string]interface{}{
			// 为空时不使用 Redis：限流改用进程内存储，不做幂等检查
			"host":     config.Env("REDIS_HOST", ""),
			"port":     config.Env("REDIS_PORT", "6379"),
			"username": config.Env("REDIS_USERNAME", ""),
			"password": config.Env("REDIS_PASSWORD", ""),

			// 业务类存储使用 1 号库（限流、幂等键）
			"database": config.Env("REDIS_MAIN_DB", 1),
		}
	})
}
