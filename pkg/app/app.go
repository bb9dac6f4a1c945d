// Package app 提供应用程序相关的辅助函数
package app

import (
	"time"

	"rentpay/pkg/config"
)

// defaultZone 时区数据缺失时使用的 UTC+8
var defaultZone = time.FixedZone("PHT", 8*60*60)

// IsLocal 判断当前是否运行在本地环境
func IsLocal() bool {
	return config.Get("app.env") == "local"
}

// IsProduction 判断当前是否运行在生产环境
func IsProduction() bool {
	return config.Get("app.env") == "production"
}

// IsTesting 判断当前是否运行在测试环境
func IsTesting() bool {
	return config.Get("app.env") == "testing"
}

// Location 返回配置的时区，读取 app.timezone 配置项
// 系统缺少时区数据时回退到 UTC+8
func Location() *time.Location {
	loc, err := time.LoadLocation(config.GetString("app.timezone", "Asia/Manila"))
	if err != nil {
		return defaultZone
	}
	return loc
}

// TimenowInTimezone 获取当前时间（支持时区设置）
//
//	currentTime := TimenowInTimezone() // 获取配置的时区的当前时间
func TimenowInTimezone() time.Time {
	return time.Now().In(Location())
}

// URL 拼接应用的对外地址
func URL(path string) string {
	return config.GetString("app.url", "http://localhost:3000") + path
}
