// Package sheets 通过 Google Sheets v4 REST API 读写收款表格
package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cast"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"rentpay/pkg/gapi"
	"rentpay/pkg/logger"
)

// DefaultBaseURL Sheets API 地址
const DefaultBaseURL = "https://sheets.googleapis.com"

// Config Sheets 客户端配置
type Config struct {
	SpreadsheetID string
	Worksheet     string
	BaseURL       string
	Timeout       time.Duration
	RateLimit     rate.Limit // 每秒请求数，0 表示不限流
	Burst         int
	TokenSource   oauth2.TokenSource
}

// Client Sheets API 客户端
// 写入请求不做自动重试，失败原样返回给调用方
type Client struct {
	cfg     Config
	http    *resty.Client
	limiter *rate.Limiter
}

// AppendResult 追加结果
type AppendResult struct {
	UpdatedRange string `json:"updatedRange"`
	UpdatedRows  int    `json:"updatedRows"`
	UpdatedCells int    `json:"updatedCells"`
}

type valueRange struct {
	Range          string          `json:"range,omitempty"`
	MajorDimension string          `json:"majorDimension,omitempty"`
	Values         [][]interface{} `json:"values"`
}

type appendResponse struct {
	SpreadsheetID string       `json:"spreadsheetId"`
	Updates       AppendResult `json:"updates"`
}

// NewClient 创建 Sheets 客户端
func NewClient(cfg Config) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("sheets: spreadsheet id is required")
	}
	if cfg.Worksheet == "" {
		cfg.Worksheet = "Tracker"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	c := &Client{cfg: cfg, http: client}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(cfg.RateLimit, burst)
	}
	return c, nil
}

// AppendRow 在工作表末尾追加一行，USER_ENTERED 模式让表格自行识别数字与日期
func (c *Client) AppendRow(ctx context.Context, row []interface{}) (*AppendResult, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetPathParams(map[string]string{
			"spreadsheetId": c.cfg.SpreadsheetID,
			"range":         sheetRange(c.cfg.Worksheet),
		}).
		SetQueryParams(map[string]string{
			"valueInputOption": "USER_ENTERED",
			"insertDataOption": "INSERT_ROWS",
		}).
		SetBody(valueRange{MajorDimension: "ROWS", Values: [][]interface{}{row}}).
		Post("/v4/spreadsheets/{spreadsheetId}/values/{range}:append")
	if err != nil {
		logger.ErrorString("Sheets", "Append", fmt.Sprintf("请求失败 表格:%s 错误:%v", shorten(c.cfg.SpreadsheetID), err))
		return nil, fmt.Errorf("sheets append: %w", err)
	}
	if err := gapi.CheckResponse(resp); err != nil {
		logger.ErrorString("Sheets", "Append", fmt.Sprintf("表格拒绝写入 表格:%s 错误:%v", shorten(c.cfg.SpreadsheetID), err))
		return nil, fmt.Errorf("sheets append: %w", err)
	}

	// 2xx 之后表格已接受写入，响应异常时按成功处理，避免重试写出重复行
	var body appendResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		logger.WarnString("Sheets", "Append", fmt.Sprintf("可能已写入，响应无法解析 表格:%s 错误:%v", shorten(c.cfg.SpreadsheetID), err))
		return &AppendResult{}, nil
	}
	if body.Updates.UpdatedRows != 1 {
		logger.WarnString("Sheets", "Append", fmt.Sprintf("可能已写入，更新行数异常 表格:%s 行数:%d 范围:%s",
			shorten(c.cfg.SpreadsheetID), body.Updates.UpdatedRows, body.Updates.UpdatedRange))
		return &body.Updates, nil
	}

	logger.InfoString("Sheets", "Append", fmt.Sprintf("写入成功 范围:%s 耗时:%v", body.Updates.UpdatedRange, time.Since(start)))
	return &body.Updates, nil
}

// Values 读取整个工作表，首行为表头
func (c *Client) Values(ctx context.Context) ([][]string, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.
		SetPathParams(map[string]string{
			"spreadsheetId": c.cfg.SpreadsheetID,
			"range":         sheetRange(c.cfg.Worksheet),
		}).
		Get("/v4/spreadsheets/{spreadsheetId}/values/{range}")
	if err != nil {
		return nil, fmt.Errorf("sheets get values: %w", err)
	}
	if err := gapi.CheckResponse(resp); err != nil {
		return nil, fmt.Errorf("sheets get values: %w", err)
	}

	var body valueRange
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("sheets get values: decode response: %w", err)
	}

	values := make([][]string, len(body.Values))
	for i, row := range body.Values {
		values[i] = make([]string, len(row))
		for j, cell := range row {
			values[i][j] = cast.ToString(cell)
		}
	}
	return values, nil
}

// Ping 检查表格是否可访问
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}

	resp, err := req.
		SetPathParam("spreadsheetId", c.cfg.SpreadsheetID).
		SetQueryParam("fields", "spreadsheetId").
		Get("/v4/spreadsheets/{spreadsheetId}")
	if err != nil {
		return fmt.Errorf("sheets ping: %w", err)
	}
	if err := gapi.CheckResponse(resp); err != nil {
		return fmt.Errorf("sheets ping: %w", err)
	}
	return nil
}

// request 限流后创建带访问令牌的请求
func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("sheets rate limit: %w", err)
		}
	}

	token, err := gapi.AccessToken(c.cfg.TokenSource)
	if err != nil {
		return nil, err
	}

	req := c.http.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	return req, nil
}

// sheetRange 工作表名称转换为 A1 表示法，单引号需要转义
func sheetRange(worksheet string) string {
	return "'" + strings.ReplaceAll(worksheet, "'", "''") + "'"
}

// shorten 缩短 ID 用于日志显示
func shorten(id string) string {
	if len(id) > 16 {
		return id[:6] + "..." + id[len(id)-6:]
	}
	return id
}
