package bootstrap

import (
	"fmt"

	"rentpay/pkg/app"
	"rentpay/pkg/config"
	"rentpay/pkg/logger"
)

// SetupLogger 初始化 Logger
// - type: daily（按天）或 single（单文件）
// - level: debug, info, warn, error
// 本地环境额外输出到终端
func SetupLogger() {
	logger.InitLogger(
		config.GetString("log.filename", "storage/logs/logs.log"),
		config.GetInt("log.max_size", 64),
		config.GetInt("log.max_backup", 5),
		config.GetInt("log.max_age", 30),
		config.GetBool("log.compress"),
		config.GetString("log.type", "daily"),
		config.GetString("log.level", "info"),
	)

	logger.InfoString("App", "Start", fmt.Sprintf("%s 环境:%s 时区:%s 账本:%s 凭证:%s",
		config.GetString("app.name"),
		config.GetString("app.env"),
		app.Location().String(),
		config.GetString("ledger.driver"),
		config.GetString("proof.driver"),
	))
}
