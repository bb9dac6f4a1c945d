package middlewares

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"rentpay/pkg/config"
	"rentpay/pkg/logger"
	"rentpay/pkg/redis"
	"rentpay/pkg/response"
)

const (
	// IdempotencyHeader 客户端提供的幂等键
	IdempotencyHeader = "Idempotency-Key"
	// IdempotencyQuery HTML 表单无法设置请求头，幂等键放在 action 的查询参数中
	IdempotencyQuery = "submission_token"

	// CtxRecordID 处理器写入成功后设置的记录 ID
	CtxRecordID = "record_id"
	// CtxDuplicateOf 重复提交时已存在的记录 ID，可能为空（首个请求仍在处理中）
	CtxDuplicateOf = "duplicate_of"

	pendingMarker = "pending"
)

// Idempotency 同一个幂等键只处理一次
//
// 首个请求处理期间键值为 pending，成功（2xx）后替换为记录 ID 并保留 ttl，
// 失败时删除键，允许用户重新提交。未配置 Redis 或 Redis 出错时直接放行。
// onDuplicate 为 nil 时返回 409 JSON。
func Idempotency(ttl time.Duration, onDuplicate gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := idempotencyKey(c)
		if key == "" || redis.Redis == nil {
			c.Next()
			return
		}

		redisKey := config.GetString("app.name", "rentpay") + ":idempotency:" + key
		acquired, err := redis.Redis.SetNX(redisKey, pendingMarker, ttl)
		if err != nil {
			logger.WarnString("Idempotency", "SetNX", err.Error())
			c.Next()
			return
		}

		if !acquired {
			existing := redis.Redis.Get(redisKey)
			if existing == pendingMarker {
				existing = ""
			}
			c.Set(CtxDuplicateOf, existing)
			if onDuplicate != nil {
				onDuplicate(c)
				c.Abort()
				return
			}
			response.Abort409(c, "This payment was already submitted.")
			return
		}

		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusOK && status < http.StatusMultipleChoices {
			if id := c.GetString(CtxRecordID); id != "" {
				redis.Redis.Set(redisKey, id, ttl)
			}
			return
		}
		redis.Redis.Del(redisKey)
	}
}

// idempotencyKey 读取幂等键，限制长度避免写入过长的 Redis 键
func idempotencyKey(c *gin.Context) string {
	key := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
	if key == "" {
		key = strings.TrimSpace(c.Query(IdempotencyQuery))
	}
	if len(key) > 128 {
		key = key[:128]
	}
	return key
}
