package bootstrap

import (
	"time"

	"rentpay/pkg/config"
	"rentpay/pkg/events"
	"rentpay/pkg/logger"
)

// SetupEvents 创建事件发布者，未开启时返回 nil
func SetupEvents() *events.Publisher {
	if !config.GetBool("events.enabled") {
		return nil
	}

	brokers := config.GetStringSlice("events.brokers")
	if len(brokers) == 0 {
		logger.WarnString("Events", "Setup", "未配置 Kafka brokers，事件发布已关闭")
		return nil
	}

	logger.InfoString("Events", "Setup", "Kafka 事件发布已开启")
	return events.NewPublisher(brokers, time.Duration(config.GetInt("events.write_timeout", 5))*time.Second)
}
