// Package gapi Google API 公共部分：服务账号凭据与错误解析
package gapi

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// 服务账号需要的权限范围
const (
	ScopeSpreadsheets = "https://www.googleapis.com/auth/spreadsheets"
	ScopeDrive        = "https://www.googleapis.com/auth/drive"
)

// ErrNoCredentials 未配置服务账号
var ErrNoCredentials = errors.New("google service account credentials are not configured")

// CredentialsConfig 服务账号配置，JSON 优先于文件路径
type CredentialsConfig struct {
	JSON string
	File string
}

// TokenSource 根据服务账号 JSON 创建可自动刷新的 TokenSource
func TokenSource(ctx context.Context, cfg CredentialsConfig, scopes ...string) (oauth2.TokenSource, error) {
	data := []byte(cfg.JSON)
	if len(data) == 0 && cfg.File != "" {
		b, err := os.ReadFile(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("read google credentials file: %w", err)
		}
		data = b
	}
	if len(data) == 0 {
		return nil, ErrNoCredentials
	}

	creds, err := google.CredentialsFromJSON(ctx, data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}
	return oauth2.ReuseTokenSource(nil, creds.TokenSource), nil
}

// AccessToken 从 TokenSource 取出访问令牌，ts 为 nil 时返回空字符串
func AccessToken(ts oauth2.TokenSource) (string, error) {
	if ts == nil {
		return "", nil
	}
	tok, err := ts.Token()
	if err != nil {
		return "", fmt.Errorf("fetch google access token: %w", err)
	}
	return tok.AccessToken, nil
}
