// Package localstore 将收款凭证保存在本地目录，通过 /proofs 路由对外提供
package localstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"rentpay/pkg/logger"
	"rentpay/pkg/recorder"
)

// ErrInvalidName 文件名为空或包含路径
var ErrInvalidName = errors.New("localstore: invalid file name")

// Store 本地凭证存储
type Store struct {
	dir     string
	baseURL string
}

// New 创建本地存储，目录不存在时自动创建
// baseURL 为对外访问前缀，例如 http://localhost:3000/proofs
func New(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("localstore: create dir: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir 存储目录
func (s *Store) Dir() string {
	return s.dir
}

// Upload 写入文件并返回访问地址，同名文件已存在时拒绝覆盖
func (s *Store) Upload(_ context.Context, a recorder.Attachment) (string, error) {
	name := filepath.Base(a.Name)
	if a.Name == "" || name != a.Name || name == "." || name == ".." {
		return "", ErrInvalidName
	}

	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("localstore: %w", err)
	}

	if _, err := f.Write(a.Content); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("localstore: write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("localstore: close %s: %w", name, err)
	}

	logger.InfoString("LocalStore", "Upload", fmt.Sprintf("凭证已保存 文件:%s 大小:%d", name, len(a.Content)))
	return s.baseURL + "/" + url.PathEscape(name), nil
}

// Ping 检查目录是否可写
func (s *Store) Ping(_ context.Context) error {
	f, err := os.CreateTemp(s.dir, ".ping-*")
	if err != nil {
		return fmt.Errorf("localstore: %w", err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
