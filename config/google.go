package config

import "rentpay/pkg/config"

func init() {
	config.Add("google", func() map[string]interface{} {
		return map[string]interface{}{
			// 服务账号凭证，JSON 内容优先于文件路径
			"credentials_json": config.Env("GOOGLE_CREDENTIALS_JSON", ""),
			"credentials_file": config.Env("GOOGLE_APPLICATION_CREDENTIALS", ""),
		}
	})
}
