package bootstrap

import (
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"rentpay/app/http/controllers/api/v1/health"
	"rentpay/pkg/app"
	"rentpay/pkg/config"
	"rentpay/pkg/drive"
	"rentpay/pkg/localstore"
	"rentpay/pkg/recorder"
)

// ProofStore 凭证存储与连通性检查
type ProofStore interface {
	recorder.ProofStore
	health.Checker
}

// SetupProofStore 根据 proof.driver 创建凭证存储
// 返回的 localDir 非空时需要在 /proofs 下提供静态文件
func SetupProofStore(ts oauth2.TokenSource) (store ProofStore, localDir string, err error) {
	switch driver := config.GetString("proof.driver", "drive"); driver {
	case "drive":
		client := drive.NewClient(drive.Config{
			FolderID:    config.GetString("proof.drive_folder_id"),
			Timeout:     time.Duration(config.GetInt("proof.timeout", 60)) * time.Second,
			RateLimit:   outboundRate("proof.rate_limit"),
			Burst:       5,
			ShareLinks:  config.GetBool("proof.share_links"),
			TokenSource: ts,
		})
		return drive.NewProofStore(client), "", nil

	case "local":
		dir := config.GetString("proof.local_dir", "storage/proofs")
		s, err := localstore.New(dir, app.URL("/proofs"))
		if err != nil {
			return nil, "", err
		}
		return s, dir, nil

	case "none", "":
		return nil, "", nil

	default:
		return nil, "", fmt.Errorf("unsupported proof driver %q", driver)
	}
}
