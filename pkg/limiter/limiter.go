// Package limiter 处理限流逻辑
package limiter

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	limiterlib "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"rentpay/pkg/config"
	"rentpay/pkg/logger"
	"rentpay/pkg/redis"
)

// Rate 限流速率
type Rate struct {
	Rate   float64       // 折算为每秒请求数
	Limit  int64         // 周期内允许的请求数
	Period time.Duration // 周期
}

var (
	memoryOnce  sync.Once
	memoryStore limiterlib.Store
)

// ParseLimit 解析限流配置字符串
// 支持的格式: "5-S"、"10-M"、"1000-H"、"2000-D"
func ParseLimit(limit string) (*Rate, error) {
	r, err := limiterlib.NewRateFromFormatted(strings.ToUpper(strings.TrimSpace(limit)))
	if err != nil {
		return nil, fmt.Errorf("invalid limit format %q: %w", limit, err)
	}
	return &Rate{
		Rate:   float64(r.Limit) / r.Period.Seconds(),
		Limit:  r.Limit,
		Period: r.Period,
	}, nil
}

// GetKeyIP 获取 Limitor 的 Key，IP
func GetKeyIP(c *gin.Context) string {
	return c.ClientIP()
}

// GetKeyRouteWithIP Limitor 的 Key，路由+IP，针对单个路由做限流
func GetKeyRouteWithIP(c *gin.Context) string {
	return routeToKeyString(c.FullPath()) + c.ClientIP()
}

// CheckRate 检测请求是否超额
// 配置了 Redis 时多实例共享计数，否则使用进程内存储
func CheckRate(c *gin.Context, key string, formatted string) (limiterlib.Context, error) {
	var context limiterlib.Context
	rate, err := limiterlib.NewRateFromFormatted(strings.ToUpper(formatted))
	if err != nil {
		logger.LogIf(err)
		return context, err
	}

	store, err := getStore()
	if err != nil {
		logger.LogIf(err)
		return context, err
	}

	limiterObj := limiterlib.New(store, rate)

	// 同一请求经过多个限流中间件时只计一次
	if c.GetBool("limiter-once") {
		return limiterObj.Peek(c, key)
	}
	c.Set("limiter-once", true)
	return limiterObj.Get(c, key)
}

// getStore 选择限流存储
func getStore() (limiterlib.Store, error) {
	prefix := config.GetString("app.name", "rentpay") + ":limiter"

	if redis.Redis != nil {
		return sredis.NewStoreWithOptions(redis.Redis.Client, limiterlib.StoreOptions{
			Prefix: prefix,
		})
	}

	memoryOnce.Do(func() {
		memoryStore = memory.NewStoreWithOptions(limiterlib.StoreOptions{
			Prefix:          prefix,
			CleanUpInterval: time.Minute,
		})
	})
	return memoryStore, nil
}

// routeToKeyString 辅助方法，将 URL 中的 / 格式为 -
func routeToKeyString(routeName string) string {
	routeName = strings.ReplaceAll(routeName, "/", "-")
	routeName = strings.ReplaceAll(routeName, ":", "_")
	return routeName
}
