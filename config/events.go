package config

import "rentpay/pkg/config"

func init() {
	config.Add("events", func() map[string]interface{} {
		return map[string]interface{}{
			// 写入成功后发布 Kafka 事件，默认关闭
			"enabled": config.Env("EVENTS_ENABLED", false),
			// 逗号分隔
			"brokers":       config.Env("EVENTS_BROKERS", "127.0.0.1:9092"),
			"topic":         config.Env("EVENTS_TOPIC", "payment_recorded"),
			"write_timeout": config.Env("EVENTS_WRITE_TIMEOUT", 5),
		}
	})
}
