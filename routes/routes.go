// Package routes 注册应用路由
package routes

import (
	"time"

	"rentpay/app/http/controllers/api/v1/dashboard"
	"rentpay/app/http/controllers/api/v1/health"
	"rentpay/app/requests"
	"rentpay/pkg/recorder"
)

// Dependencies 路由所需的服务
type Dependencies struct {
	Recorder *recorder.Recorder
	Ledger   dashboard.LedgerReader
	Health   *health.HealthController

	Form     requests.FormOptions
	Title    string
	Location *time.Location

	// DashboardPassword 为空时不注册管理端接口
	DashboardPassword string
	// ProofDir 本地凭证目录，非空时以 /proofs 提供只读访问
	ProofDir string

	GlobalLimit    string
	SubmitLimit    string
	IdempotencyTTL time.Duration
}
