package bootstrap

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"rentpay/app/http/controllers/api/v1/dashboard"
	"rentpay/app/http/controllers/api/v1/health"
	"rentpay/app/repositories"
	"rentpay/pkg/app"
	"rentpay/pkg/config"
	"rentpay/pkg/logger"
	"rentpay/pkg/recorder"
	"rentpay/pkg/sheets"
)

// Ledger 账本：写入、读取与连通性检查
type Ledger interface {
	recorder.LedgerWriter
	dashboard.LedgerReader
	health.Checker
}

// SetupLedger 根据 ledger.driver 创建账本
func SetupLedger(ctx context.Context, ts oauth2.TokenSource) (Ledger, error) {
	switch driver := config.GetString("ledger.driver", "sheets"); driver {
	case "sheets":
		client, err := sheets.NewClient(sheets.Config{
			SpreadsheetID: config.GetString("ledger.spreadsheet_id"),
			Worksheet:     config.GetString("ledger.worksheet"),
			Timeout:       time.Duration(config.GetInt("ledger.timeout", 30)) * time.Second,
			RateLimit:     outboundRate("ledger.rate_limit"),
			Burst:         5,
			TokenSource:   ts,
		})
		if err != nil {
			return nil, err
		}

		ledger := sheets.NewLedger(client, app.Location())
		if config.GetBool("ledger.ensure_header") {
			// 表头写入失败不影响启动，追加行时会再次暴露权限问题
			logger.LogWarnIf(ledger.EnsureHeader(ctx))
		}
		return ledger, nil

	case "database":
		if err := SetupDB(); err != nil {
			return nil, err
		}
		return repositories.NewPaymentRepository(), nil

	default:
		return nil, fmt.Errorf("unsupported ledger driver %q", driver)
	}
}
