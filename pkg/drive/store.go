package drive

import (
	"context"

	"rentpay/pkg/recorder"
)

// ProofStore 以 Drive 作为凭证存储，返回分享链接
type ProofStore struct {
	client *Client
}

// NewProofStore 创建 Drive 凭证存储
func NewProofStore(client *Client) *ProofStore {
	return &ProofStore{client: client}
}

// Upload 上传凭证，返回可直接打开的分享链接
func (s *ProofStore) Upload(ctx context.Context, a recorder.Attachment) (string, error) {
	id, err := s.client.Upload(ctx, File{
		Name:        a.Name,
		ContentType: a.ContentType,
		Content:     a.Content,
	})
	if err != nil {
		return "", err
	}
	return ShareURL(id), nil
}

// Ping 检查目标文件夹是否可访问
func (s *ProofStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
