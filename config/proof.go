package config

import "rentpay/pkg/config"

func init() {
	config.Add("proof", func() map[string]interface{} {
		return map[string]interface{}{
			// 凭证存储：drive（Google Drive）、local（本地目录）、none（不接受凭证）
			"driver": config.Env("PROOF_DRIVER", "drive"),

			// Drive 目标文件夹，上传后是否生成任何人可查看的链接
			"drive_folder_id": config.Env("PROOF_DRIVE_FOLDER_ID", ""),
			"share_links":     config.Env("PROOF_SHARE_LINKS", true),

			// 本地存储目录
			"local_dir": config.Env("PROOF_LOCAL_DIR", "storage/proofs"),

			"timeout":    config.Env("PROOF_TIMEOUT", 60),
			"rate_limit": config.Env("PROOF_RATE_LIMIT", "100-M"),
		}
	})
}
