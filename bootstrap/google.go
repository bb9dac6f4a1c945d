package bootstrap

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"rentpay/pkg/config"
	"rentpay/pkg/gapi"
	"rentpay/pkg/limiter"
	"rentpay/pkg/logger"
)

// SetupGoogle 读取服务账号凭证，scopes 为需要的权限
func SetupGoogle(ctx context.Context, scopes ...string) (oauth2.TokenSource, error) {
	return gapi.TokenSource(ctx, gapi.CredentialsConfig{
		JSON: config.GetString("google.credentials_json"),
		File: config.GetString("google.credentials_file"),
	}, scopes...)
}

// outboundRate 将 "60-M" 形式的限流配置转换为每秒速率，配置无效时不限流
func outboundRate(path string) rate.Limit {
	formatted := config.GetString(path)
	if formatted == "" {
		return 0
	}
	r, err := limiter.ParseLimit(formatted)
	if err != nil {
		logger.WarnString("Google", path, err.Error())
		return 0
	}
	return rate.Limit(r.Rate)
}
