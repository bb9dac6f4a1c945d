package bootstrap

import (
	"fmt"

	"rentpay/pkg/config"
	"rentpay/pkg/logger"
	"rentpay/pkg/redis"
)

// SetupRedis 初始化 Redis
// 未配置或连接失败时不使用 Redis，限流退回进程内存储，幂等检查关闭
func SetupRedis() {
	if config.GetString("redis.host") == "" {
		logger.InfoString("Redis", "Setup", "未配置 Redis")
		return
	}

	err := redis.ConnectRedis(
		fmt.Sprintf("%v:%v", config.GetString("redis.host"), config.GetString("redis.port")),
		config.GetString("redis.username"),
		config.GetString("redis.password"),
		config.GetInt("redis.database"),
	)
	if err != nil {
		logger.WarnString("Redis", "Setup", "连接失败，已降级："+err.Error())
		redis.Redis = nil
	}
}
