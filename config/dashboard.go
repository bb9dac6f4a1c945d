package config

import "rentpay/pkg/config"

func init() {
	config.Add("dashboard", func() map[string]interface{} {
		return map[string]interface{}{
			// 管理端密码（用户名 admin），为空时不开放管理端接口
			"password": config.Env("DASHBOARD_PASSWORD", ""),
		}
	})
}
