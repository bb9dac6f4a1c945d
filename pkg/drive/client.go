// Package drive 通过 Google Drive v3 REST API 上传收款凭证
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"rentpay/pkg/gapi"
	"rentpay/pkg/logger"
)

// DefaultBaseURL Drive API 地址
const DefaultBaseURL = "https://www.googleapis.com"

// ErrMissingFileID 上传成功但没有返回文件 ID
var ErrMissingFileID = errors.New("drive: upload response has no file id")

// Config Drive 客户端配置
type Config struct {
	FolderID    string // 上传目标文件夹，为空时上传到服务账号根目录
	BaseURL     string
	Timeout     time.Duration
	RateLimit   rate.Limit
	Burst       int
	ShareLinks  bool // 上传后授予任何人只读权限
	TokenSource oauth2.TokenSource
}

// File 待上传的文件
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// Client Drive API 客户端
type Client struct {
	cfg     Config
	http    *resty.Client
	limiter *rate.Limiter
}

// NewClient 创建 Drive 客户端
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
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
	return c
}

// Upload 上传文件并返回文件 ID
// 开启 ShareLinks 时授权失败会删除已上传的文件
func (c *Client) Upload(ctx context.Context, f File) (string, error) {
	body, contentType, err := multipartRelated(f, c.cfg.FolderID)
	if err != nil {
		return "", err
	}

	req, err := c.request(ctx)
	if err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := req.
		SetHeader("Content-Type", contentType).
		SetQueryParams(map[string]string{
			"uploadType":        "multipart",
			"supportsAllDrives": "true",
			"fields":            "id",
		}).
		SetBody(body).
		Post("/upload/drive/v3/files")
	if err != nil {
		logger.ErrorString("Drive", "Upload", fmt.Sprintf("请求失败 文件:%s 错误:%v", f.Name, err))
		return "", fmt.Errorf("drive upload: %w", err)
	}
	if err := gapi.CheckResponse(resp); err != nil {
		logger.ErrorString("Drive", "Upload", fmt.Sprintf("上传被拒绝 文件:%s 错误:%v", f.Name, err))
		return "", fmt.Errorf("drive upload: %w", err)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body(), &created); err != nil {
		return "", fmt.Errorf("drive upload: decode response: %w", err)
	}
	if created.ID == "" {
		return "", ErrMissingFileID
	}

	if c.cfg.ShareLinks {
		if err := c.shareWithAnyone(ctx, created.ID); err != nil {
			c.deleteQuietly(created.ID)
			return "", err
		}
	}

	logger.InfoString("Drive", "Upload", fmt.Sprintf("上传成功 文件:%s 大小:%d 耗时:%v", f.Name, len(f.Content), time.Since(start)))
	return created.ID, nil
}

// ShareURL 文件的分享链接
func ShareURL(fileID string) string {
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view?usp=sharing", fileID)
}

// Ping 检查目标文件夹是否可访问
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}

	target := c.cfg.FolderID
	if target == "" {
		target = "root"
	}
	resp, err := req.
		SetPathParam("fileId", target).
		SetQueryParams(map[string]string{"supportsAllDrives": "true", "fields": "id"}).
		Get("/drive/v3/files/{fileId}")
	if err != nil {
		return fmt.Errorf("drive ping: %w", err)
	}
	if err := gapi.CheckResponse(resp); err != nil {
		return fmt.Errorf("drive ping: %w", err)
	}
	return nil
}

// shareWithAnyone 授予任何拥有链接的人只读权限
func (c *Client) shareWithAnyone(ctx context.Context, fileID string) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetPathParam("fileId", fileID).
		SetQueryParams(map[string]string{"supportsAllDrives": "true", "fields": "id"}).
		SetBody(map[string]string{"type": "anyone", "role": "reader"}).
		Post("/drive/v3/files/{fileId}/permissions")
	if err != nil {
		return fmt.Errorf("drive share: %w", err)
	}
	if err := gapi.CheckResponse(resp); err != nil {
		return fmt.Errorf("drive share: %w", err)
	}
	logger.DebugString("Drive", "Share", "已授予只读链接 文件:"+fileID)
	return nil
}

// deleteQuietly 尽力删除文件，失败只记录日志
func (c *Client) deleteQuietly(fileID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	token, err := gapi.AccessToken(c.cfg.TokenSource)
	if err != nil {
		logger.WarnString("Drive", "Cleanup", err.Error())
		return
	}
	req := c.http.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	resp, err := req.
		SetPathParam("fileId", fileID).
		SetQueryParam("supportsAllDrives", "true").
		Delete("/drive/v3/files/{fileId}")
	if err == nil {
		err = gapi.CheckResponse(resp)
	}
	if err != nil {
		logger.WarnString("Drive", "Cleanup", fmt.Sprintf("删除未授权文件失败 文件:%s 错误:%v", fileID, err))
	}
}

func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("drive rate limit: %w", err)
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

// multipartRelated 组装 Drive multipart 上传请求体：元数据 JSON + 文件内容
func multipartRelated(f File, folderID string) ([]byte, string, error) {
	metadata := map[string]interface{}{"name": f.Name}
	if folderID != "" {
		metadata["parents"] = []string{folderID}
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		return nil, "", fmt.Errorf("drive upload: encode metadata: %w", err)
	}

	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	metaPart, err := w.CreatePart(textproto.MIMEHeader{"Content-Type": {"application/json; charset=UTF-8"}})
	if err != nil {
		return nil, "", err
	}
	if _, err := metaPart.Write(meta); err != nil {
		return nil, "", err
	}

	mediaPart, err := w.CreatePart(textproto.MIMEHeader{"Content-Type": {contentType}})
	if err != nil {
		return nil, "", err
	}
	if _, err := mediaPart.Write(f.Content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), "multipart/related; boundary=" + w.Boundary(), nil
}
