package bootstrap

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"

	"rentpay/app/http/controllers/api/v1/health"
	"rentpay/app/requests"
	"rentpay/pkg/app"
	"rentpay/pkg/config"
	"rentpay/pkg/database"
	"rentpay/pkg/gapi"
	"rentpay/pkg/logger"
	"rentpay/pkg/metrics"
	"rentpay/pkg/recorder"
	"rentpay/pkg/redis"
	"rentpay/routes"
)

// SetupServices 组装账本、凭证存储与提交处理器
// 返回的 cleanup 在服务关闭时调用
func SetupServices(ctx context.Context) (*routes.Dependencies, func(), error) {
	var ts oauth2.TokenSource
	if needsGoogle() {
		var err error
		ts, err = SetupGoogle(ctx, gapi.ScopeSpreadsheets, gapi.ScopeDrive)
		if err != nil {
			return nil, nil, err
		}
	}

	ledger, err := SetupLedger(ctx, ts)
	if err != nil {
		return nil, nil, err
	}

	proofs, localDir, err := SetupProofStore(ts)
	if err != nil {
		return nil, nil, err
	}

	stats := metrics.NewSubmissions()
	opts := []recorder.Option{
		recorder.WithClock(app.NewMonotonicClock(nil)),
		recorder.WithMetrics(stats),
	}
	publisher := SetupEvents()
	if publisher != nil {
		opts = append(opts, recorder.WithEvents(publisher, config.GetString("events.topic", "payment_recorded")))
	}

	var store recorder.ProofStore
	if proofs != nil {
		store = proofs
	}
	rec := recorder.New(ledger, store, opts...)

	hc := health.NewHealthController(5 * time.Second)
	hc.SetStats(func() any { return stats.Snapshot() })
	hc.AddChecker("ledger", ledger)
	if proofs != nil {
		hc.AddChecker("proof_store", proofs)
	}
	if redis.Redis != nil {
		hc.AddChecker("redis", health.CheckerFunc(func(context.Context) error { return redis.Redis.Ping() }))
	}

	deps := &routes.Dependencies{
		Recorder: rec,
		Ledger:   ledger,
		Health:   hc,
		Form: requests.FormOptions{
			MaxUploadBytes: int64(config.GetInt("form.max_upload_mb", 5)) << 20,
			Extensions:     config.GetStringSlice("form.extensions"),
			Location:       app.Location(),
		},
		Title:             config.GetString("app.title", "Rent Payment Form"),
		Location:          app.Location(),
		DashboardPassword: config.GetString("dashboard.password"),
		ProofDir:          localDir,
		GlobalLimit:       config.GetString("form.global_limit", "30000-H"),
		SubmitLimit:       config.GetString("form.submit_limit", "20-M"),
		IdempotencyTTL:    time.Duration(config.GetInt("form.idempotency_ttl", 24*60)) * time.Minute,
	}

	cleanup := func() {
		if publisher != nil {
			logger.LogIf(publisher.Close())
		}
		if redis.Redis != nil {
			logger.LogIf(redis.Redis.Close())
		}
		logger.LogIf(database.Close())
	}
	return deps, cleanup, nil
}

// needsGoogle 表格账本或 Drive 凭证存储需要服务账号
func needsGoogle() bool {
	return config.GetString("ledger.driver", "sheets") == "sheets" ||
		config.GetString("proof.driver", "drive") == "drive"
}

// IsMissingCredentials 启动失败原因是否为缺少服务账号
func IsMissingCredentials(err error) bool {
	return errors.Is(err, gapi.ErrNoCredentials)
}
